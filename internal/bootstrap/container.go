package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/soujanyavullam/epic-web-app/internal/config"
	"github.com/soujanyavullam/epic-web-app/internal/controller"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/serverutils"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
	"github.com/soujanyavullam/epic-web-app/internal/service"
	"github.com/soujanyavullam/epic-web-app/pkg/embedding"
	"github.com/soujanyavullam/epic-web-app/pkg/llm/factory"
	pktNats "github.com/soujanyavullam/epic-web-app/pkg/nats"
	"github.com/soujanyavullam/epic-web-app/pkg/objectstore"
	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

type Container struct {
	// Controllers
	BookController  controller.IBookController
	QueryController controller.IQueryController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Services used directly by the batch CLI
	IngestionService service.IIngestionService
	BookService      service.IBookService

	// Infrastructure handles main.go closes on shutdown
	NatsPublisher *pktNats.Publisher
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	serverutils.SetJwtSecret(cfg.App.JWTSecret)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewRetrying(embeddingProvider, sysLogger)

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	var rawStore objectstore.Store
	if cfg.Storage.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		rawStore = objectstore.NewRedisStore(rdb)
		log.Printf("[INFO] Using object store: REDIS")
	} else {
		diskStore, err := objectstore.NewDiskStore(cfg.Storage.UploadsDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize disk store: %v", err)
		}
		rawStore = diskStore
		log.Printf("[INFO] Using object store: DISK (%s)", cfg.Storage.UploadsDir)
	}

	// 5. Per-book similarity index cache, rebuilt from stored chunks on miss.
	indexLoader := func(ctx context.Context, bookTitle string) ([]search.Entry, error) {
		uow := uowFactory.NewUnitOfWork(ctx)
		chunks, err := uow.BookChunkRepository().FindAll(ctx,
			specification.ByBookTitle{BookTitle: bookTitle},
			specification.Embedded{},
			specification.OrderBy{Field: "chunk_index"},
		)
		if err != nil {
			return nil, err
		}
		entries := make([]search.Entry, 0, len(chunks))
		for _, c := range chunks {
			entries = append(entries, search.Entry{
				BookTitle: c.BookTitle,
				ChunkID:   c.ChunkID,
				Vector:    c.Embedding,
			})
		}
		return entries, nil
	}
	indexCache := search.NewCache(cfg.Search.CacheTTL, cfg.Search.IndexBackend, indexLoader)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)

	ingestionService := service.NewIngestionService(
		uowFactory,
		embeddingProvider,
		indexCache,
		natsPub,
		sysLogger,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.Workers,
	)

	queryService := service.NewQueryService(
		uowFactory,
		embeddingProvider,
		indexCache,
		llmProvider,
		sysLogger,
	)

	bookService := service.NewBookService(
		uowFactory,
		rawStore,
		publisherService,
		natsPub,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		rawStore,
		ingestionService,
		sysLogger,
	)

	// 7. Controllers
	bookController := controller.NewBookController(bookService, ingestionService)
	queryController := controller.NewQueryController(queryService)

	return &Container{
		BookController:   bookController,
		QueryController:  queryController,
		ConsumerService:  consumerService,
		IngestionService: ingestionService,
		BookService:      bookService,
		NatsPublisher:    natsPub,
		Logger:           sysLogger,
	}
}
