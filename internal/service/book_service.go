package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	pktLogger "github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
	"github.com/soujanyavullam/epic-web-app/pkg/events"
	pktNats "github.com/soujanyavullam/epic-web-app/pkg/nats"
	"github.com/soujanyavullam/epic-web-app/pkg/objectstore"
)

type IBookService interface {
	Upload(ctx context.Context, req dto.UploadBookRequest) (*dto.UploadBookResponse, error)
	List(ctx context.Context) (*dto.ListBooksResponse, error)
}

type bookService struct {
	uowFactory       unitofwork.RepositoryFactory
	rawStore         objectstore.Store
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              pktLogger.ILogger
}

func NewBookService(
	uowFactory unitofwork.RepositoryFactory,
	rawStore objectstore.Store,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log pktLogger.ILogger,
) IBookService {
	return &bookService{
		uowFactory:       uowFactory,
		rawStore:         rawStore,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *bookService) Upload(ctx context.Context, req dto.UploadBookRequest) (*dto.UploadBookResponse, error) {
	const op = "bookService.Upload"

	if !strings.EqualFold(filepath.Ext(req.Filename), ".txt") {
		return nil, apperror.New(apperror.KindInvalid, op, "only .txt files are supported")
	}

	text, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalid, op, "content is not valid base64", err)
	}
	if len(text) == 0 {
		return nil, apperror.New(apperror.KindInvalid, op, "uploaded file is empty")
	}

	title := NormalizeTitle(req.Filename)
	sourceKey := title + ".txt"

	if err := s.rawStore.Put(ctx, sourceKey, text); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, "failed to store raw book", err)
	}

	msgPayload := dto.PublishIngestBookMessage{
		Title:     title,
		SourceKey: sourceKey,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, "failed to queue ingestion", err)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeBookUploaded,
			Data: map[string]interface{}{
				"title":      title,
				"source_key": sourceKey,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("book-service", "failed to publish BOOK_UPLOADED event", map[string]interface{}{
				"title": title,
				"error": err.Error(),
			})
		}
	}

	s.log.Info("book-service", "book uploaded", map[string]interface{}{
		"title": title,
		"bytes": len(text),
	})

	return &dto.UploadBookResponse{
		Title:     title,
		SourceKey: sourceKey,
	}, nil
}

func (s *bookService) List(ctx context.Context) (*dto.ListBooksResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	books, err := uow.BookRepository().FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "bookService.List", "failed to list books", err)
	}

	resp := &dto.ListBooksResponse{Books: []dto.BookItem{}}
	for _, b := range books {
		resp.Books = append(resp.Books, dto.BookItem{
			Id:         b.Id,
			Title:      b.Title,
			ChunkCount: b.ChunkCount,
			CreatedAt:  b.CreatedAt,
		})
	}
	return resp, nil
}

// NormalizeTitle derives a book title from an uploaded filename: extension
// stripped, lowercased, spaces collapsed to hyphens.
func NormalizeTitle(filename string) string {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ToLower(strings.TrimSpace(title))
	title = strings.Join(strings.Fields(title), "-")
	return title
}
