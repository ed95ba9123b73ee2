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

// OllamaProvider implements Provider for local Ollama models.
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	const op = "embedding.ollama"

	reqBody := ollamaEmbeddingRequest{
		Model:  p.Model,
		Prompt: text,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "failed to encode embedding request", err)
	}

	endpoint := fmt.Sprintf("%s/api/embeddings", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransientUpstream, op, "embedding service unreachable", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransientUpstream, op, "failed to read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Wrap(classifyStatus(resp.StatusCode), op,
			fmt.Sprintf("embedding service returned status %d", resp.StatusCode),
			fmt.Errorf("body: %s", string(bodyBytes)))
	}

	var ollamaResp ollamaEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, apperror.Wrap(apperror.KindPermanentUpstream, op, "malformed embedding response", err)
	}

	return ollamaResp.Embedding, nil
}
