package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	pktLogger "github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/pkg/objectstore"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingestion topic: each message names a raw book
// in the object store that still needs chunking and embedding.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	rawStore         objectstore.Store
	ingestionService IIngestionService
	log              pktLogger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	rawStore objectstore.Store,
	ingestionService IIngestionService,
	log pktLogger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		rawStore:         rawStore,
		ingestionService: ingestionService,
		log:              log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestBookMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer-service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages never become valid, drop them
		return
	}

	cs.log.Info("consumer-service", "processing book ingestion", map[string]interface{}{
		"title": payload.Title,
	})

	raw, err := cs.rawStore.Get(ctx, payload.SourceKey)
	if err != nil {
		if apperror.IsNotFound(err) {
			cs.log.Error("consumer-service", "raw book missing from object store", map[string]interface{}{
				"title": payload.Title,
				"key":   payload.SourceKey,
			})
			msg.Ack() // the object is gone, retrying cannot help
			return
		}
		cs.log.Error("consumer-service", "failed to fetch raw book", map[string]interface{}{
			"title": payload.Title,
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	result, err := cs.ingestionService.Ingest(ctx, dto.IngestBookRequest{
		Title: payload.Title,
		Text:  string(raw),
	})
	if err != nil {
		cs.log.Error("consumer-service", "ingestion failed", map[string]interface{}{
			"title": payload.Title,
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer-service", "ingestion complete", map[string]interface{}{
		"title":  result.Title,
		"stored": result.ChunksStored,
	})
	msg.Ack()
}
