package service

import (
	"context"
	"strings"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	pktLogger "github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
	"github.com/soujanyavullam/epic-web-app/pkg/embedding"
	"github.com/soujanyavullam/epic-web-app/pkg/llm"
	"github.com/soujanyavullam/epic-web-app/pkg/rag/filter"
	"github.com/soujanyavullam/epic-web-app/pkg/rag/prompt"
	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

const (
	retrieveK      = 5
	promptChunks   = 3
	genTemperature = 0.5
	genMaxTokens   = 1000

	// Answers shorter than this after filtering carry no real content.
	minAnswerLength = 10
)

type IQueryService interface {
	Answer(ctx context.Context, req dto.AskRequest) (*dto.AskResponse, error)
}

type queryService struct {
	uowFactory    unitofwork.RepositoryFactory
	embedder      embedding.Provider
	indexCache    *search.Cache
	llmProvider   llm.Provider
	promptBuilder *prompt.Builder
	contentFilter *filter.Filter
	log           pktLogger.ILogger
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	indexCache *search.Cache,
	llmProvider llm.Provider,
	log pktLogger.ILogger,
) IQueryService {
	return &queryService{
		uowFactory:    uowFactory,
		embedder:      embedder,
		indexCache:    indexCache,
		llmProvider:   llmProvider,
		promptBuilder: prompt.NewBuilder(),
		contentFilter: filter.New(),
		log:           log,
	}
}

func (s *queryService) Answer(ctx context.Context, req dto.AskRequest) (*dto.AskResponse, error) {
	const op = "queryService.Answer"

	if req.Question == "" {
		return nil, apperror.New(apperror.KindInvalid, op, "question is required")
	}
	if req.BookTitle == "" {
		return nil, apperror.New(apperror.KindInvalid, op, "book title is required")
	}

	queryVector, err := s.embedder.Embed(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	index, err := s.indexCache.GetOrBuild(ctx, req.BookTitle)
	if err != nil {
		return nil, err
	}

	hits, err := index.Search(queryVector, retrieveK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, apperror.New(apperror.KindNotFound, op, "no embedded chunks found for book: "+req.BookTitle)
	}

	texts, err := s.chunkTexts(ctx, req.BookTitle, hits)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, "failed to load chunk texts", err)
	}

	// Hits arrive in semantic-rank order; Rank keeps that order for ties.
	scored := make([]search.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		scored = append(scored, search.ScoreChunk(req.Question, hit.ChunkID, texts[hit.ChunkID], hit.Score))
	}
	search.Rank(scored)
	if len(scored) > promptChunks {
		scored = scored[:promptChunks]
	}

	qaPrompt := s.promptBuilder.BuildQAPrompt(req.Question, req.BookTitle, scored)

	answer, err := s.llmProvider.Generate(ctx, qaPrompt,
		llm.WithTemperature(genTemperature),
		llm.WithMaxTokens(genMaxTokens),
		llm.WithStopSequences("User:"),
	)
	if err != nil {
		return nil, err
	}

	filtered, replaced := s.contentFilter.Filter(answer, filterContext(req.Context))
	if len(strings.TrimSpace(filtered)) < minAnswerLength {
		filtered = prompt.NoAnswerSentinel
	}

	if len(replaced) > 0 {
		s.log.Info("query-service", "filtered generated answer", map[string]interface{}{
			"book":     req.BookTitle,
			"replaced": replaced,
		})
	}

	resp := &dto.AskResponse{
		Answer:        filtered,
		BookTitle:     req.BookTitle,
		ReplacedTerms: replaced,
	}
	for _, c := range scored {
		resp.ChunksUsed = append(resp.ChunksUsed, dto.SourceChunk{
			ChunkID:  c.ChunkID,
			Semantic: c.Semantic,
			Lexical:  c.Lexical,
			Combined: c.Combined,
		})
	}
	return resp, nil
}

// chunkTexts resolves hit chunk ids to their stored text. Duplicate chunk
// ids (re-ingested books) resolve to the most recent row.
func (s *queryService) chunkTexts(ctx context.Context, bookTitle string, hits []search.Hit) (map[string]string, error) {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.BookChunkRepository().FindAll(ctx,
		specification.ByBookTitle{BookTitle: bookTitle},
		specification.ByChunkIDs{ChunkIDs: ids},
	)
	if err != nil {
		return nil, err
	}

	texts := make(map[string]string, len(chunks))
	for _, c := range chunks {
		texts[c.ChunkID] = c.Text
	}
	return texts, nil
}

func filterContext(c string) filter.Context {
	if c == string(filter.ContextHistorical) {
		return filter.ContextHistorical
	}
	return filter.ContextGeneral
}
