package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/entity"
	pktLogger "github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
	"github.com/soujanyavullam/epic-web-app/pkg/chunker"
	"github.com/soujanyavullam/epic-web-app/pkg/embedding"
	"github.com/soujanyavullam/epic-web-app/pkg/events"
	pktNats "github.com/soujanyavullam/epic-web-app/pkg/nats"
	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

type IIngestionService interface {
	Ingest(ctx context.Context, req dto.IngestBookRequest) (*dto.IngestBookResponse, error)
}

type ingestionService struct {
	uowFactory     unitofwork.RepositoryFactory
	embedder       embedding.Provider
	indexCache     *search.Cache
	eventPublisher *pktNats.Publisher
	log            pktLogger.ILogger
	chunkSize      int
	workers        int
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	indexCache *search.Cache,
	eventPublisher *pktNats.Publisher,
	log pktLogger.ILogger,
	chunkSize int,
	workers int,
) IIngestionService {
	if chunkSize <= 0 {
		chunkSize = 4000
	}
	if workers <= 0 {
		workers = 8
	}
	return &ingestionService{
		uowFactory:     uowFactory,
		embedder:       embedder,
		indexCache:     indexCache,
		eventPublisher: eventPublisher,
		log:            log,
		chunkSize:      chunkSize,
		workers:        workers,
	}
}

// chunkOutcome reports one chunk's embed-then-store unit of work.
// Failures are values here, never control flow: one bad chunk must not stop
// its siblings.
type chunkOutcome struct {
	index int
	err   error
}

func (s *ingestionService) Ingest(ctx context.Context, req dto.IngestBookRequest) (*dto.IngestBookResponse, error) {
	const op = "ingestionService.Ingest"

	if req.Title == "" {
		return nil, apperror.New(apperror.KindInvalid, op, "book title is required")
	}

	chunks := chunker.Split(req.Text, s.chunkSize)
	if len(chunks) == 0 {
		return &dto.IngestBookResponse{Title: req.Title}, nil
	}

	s.log.Info("ingestion-service", "starting ingestion", map[string]interface{}{
		"title":  req.Title,
		"chunks": len(chunks),
	})

	// The book row is created by whichever worker embeds successfully
	// first; all-failed ingestions leave no row behind.
	var (
		bookOnce sync.Once
		book     *entity.Book
		bookErr  error
	)
	ensure := func() {
		bookOnce.Do(func() {
			uow := s.uowFactory.NewUnitOfWork(ctx)
			book, bookErr = s.ensureBook(ctx, uow, req.Title)
		})
	}

	outcomes := make(chan chunkOutcome, len(chunks))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, text := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, text string) {
			defer wg.Done()
			defer func() { <-sem }()

			vector, err := s.embedder.Embed(ctx, text)
			if err != nil {
				outcomes <- chunkOutcome{index: index, err: err}
				return
			}

			ensure()
			if bookErr != nil {
				outcomes <- chunkOutcome{index: index, err: bookErr}
				return
			}

			chunk := entity.BookChunk{
				Id:            uuid.New(),
				ChunkID:       fmt.Sprintf("%s-%04d", req.Title, index),
				BookTitle:     req.Title,
				ChunkIndex:    index,
				Text:          text,
				TokenEstimate: chunker.EstimateTokens(text),
				Embedding:     vector,
				CreatedAt:     time.Now(),
			}
			uow := s.uowFactory.NewUnitOfWork(ctx)
			outcomes <- chunkOutcome{index: index, err: uow.BookChunkRepository().Create(ctx, &chunk)}
		}(i, text)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	stored := 0
	failed := 0

	for outcome := range outcomes {
		if outcome.err != nil {
			failed++
			s.log.Warn("ingestion-service", "chunk dropped", map[string]interface{}{
				"title": req.Title,
				"chunk": outcome.index,
				"error": outcome.err.Error(),
			})
			continue
		}
		stored++
	}

	if book == nil && bookErr != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, "failed to ensure book row", bookErr)
	}

	if book != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		count, err := uow.BookChunkRepository().Count(ctx, specification.ByBookTitle{BookTitle: req.Title})
		if err == nil {
			book.ChunkCount = int(count)
			if err := uow.BookRepository().Update(ctx, book); err != nil {
				s.log.Warn("ingestion-service", "failed to update chunk count", map[string]interface{}{
					"title": req.Title,
					"error": err.Error(),
				})
			}
		}

		s.indexCache.Invalidate(req.Title)
		s.publishIngested(ctx, req.Title, stored)
	}

	resp := &dto.IngestBookResponse{
		Title:           req.Title,
		ChunksRequested: len(chunks),
		ChunksStored:    stored,
	}
	if failed > 0 {
		resp.Warning = fmt.Sprintf("%d of %d chunks failed and were skipped", failed, len(chunks))
	}

	s.log.Info("ingestion-service", "ingestion finished", map[string]interface{}{
		"title":  req.Title,
		"stored": stored,
		"failed": failed,
	})

	return resp, nil
}

func (s *ingestionService) ensureBook(ctx context.Context, uow unitofwork.UnitOfWork, title string) (*entity.Book, error) {
	book, err := uow.BookRepository().FindOne(ctx, specification.ByTitle{Title: title})
	if err != nil {
		return nil, err
	}
	if book != nil {
		return book, nil
	}

	book = &entity.Book{
		Id:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.BookRepository().Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *ingestionService) publishIngested(ctx context.Context, title string, stored int) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeBookIngested,
		Data: map[string]interface{}{
			"title":         title,
			"chunks_stored": stored,
		},
		OccurredAt: time.Now(),
	}
	// Event publication is auxiliary; ingestion already succeeded.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("ingestion-service", "failed to publish BOOK_INGESTED event", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
	}
}
