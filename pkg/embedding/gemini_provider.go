package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

type GeminiProvider struct {
	ApiKey string
	Model  string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Model:  "gemini-embedding-001",
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	TaskType             string        `json:"taskType,omitempty"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	const op = "embedding.gemini"

	reqBody := geminiEmbedRequest{
		Model:                p.Model,
		Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType:             "RETRIEVAL_DOCUMENT",
		OutputDimensionality: Dimension,
	}
	reqJson, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "failed to encode embedding request", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.Model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqJson))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "failed to build embedding request", err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		// Network failures and timeouts are worth another attempt.
		return nil, apperror.Wrap(apperror.KindTransientUpstream, op, "embedding service unreachable", err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransientUpstream, op, "failed to read embedding response", err)
	}

	if res.StatusCode != http.StatusOK {
		kind := classifyStatus(res.StatusCode)
		return nil, apperror.Wrap(kind, op,
			fmt.Sprintf("embedding service returned status %d", res.StatusCode),
			fmt.Errorf("body: %s", string(resBytes)))
	}

	var embRes geminiEmbedResponse
	if err := json.Unmarshal(resBytes, &embRes); err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "malformed embedding response", err)
	}

	return embRes.Embedding.Values, nil
}

// classifyStatus maps HTTP statuses onto the retry taxonomy: throttling and
// server-side failures are transient, everything else (bad key, bad request)
// is permanent.
func classifyStatus(status int) apperror.Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return apperror.KindTransientUpstream
	case status >= 500:
		return apperror.KindTransientUpstream
	default:
		return apperror.KindPermanentUpstream
	}
}
