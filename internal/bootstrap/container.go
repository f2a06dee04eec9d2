package bootstrap

import (
	"context"
	"log"
	"time"

	"joslyn-advocacy-be/internal/config"
	"joslyn-advocacy-be/internal/controller"
	"joslyn-advocacy-be/internal/pkg/logger"
	"joslyn-advocacy-be/internal/repository/unitofwork"
	"joslyn-advocacy-be/internal/service"
	"joslyn-advocacy-be/pkg/embedding"
	"joslyn-advocacy-be/pkg/llm/factory"
	pktNats "joslyn-advocacy-be/pkg/nats"
	"joslyn-advocacy-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChildController    controller.IChildController
	DocumentController controller.IDocumentController
	AskController      controller.IAskController

	// Background services (run by cmd/rest)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Ingestion event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Embedding provider, wrapped in a TTL cache so repeated questions don't
	// re-embed the same text.
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, 10*time.Minute)

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS (answer/ingestion notification events; optional)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (document tag cache; optional)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Retrieval core
	uow := uowFactory.NewUnitOfWork(context.Background())
	retriever := retrieval.NewRetriever(
		uow.DocumentSpanRepository(),
		embeddingProvider,
		retrieval.Config{
			Top:            cfg.Retrieval.TopK,
			CandidateLimit: cfg.Retrieval.CandidateLimit,
			RRFK:           cfg.Retrieval.RRFK,
		},
		sysLogger,
	)

	// Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedSpanTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.EmbedSpanTopic, uowFactory, embeddingProvider)

	childService := service.NewChildService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, rdb)
	askService := service.NewAskService(
		uowFactory,
		retriever,
		documentService,
		llmProvider,
		natsPub,
		cfg.Retrieval.MaxPerDocument,
		cfg.Retrieval.MaxCitations,
	)

	return &Container{
		ChildController:    controller.NewChildController(childService),
		DocumentController: controller.NewDocumentController(documentService),
		AskController:      controller.NewAskController(askService),

		ConsumerService: consumerService,
	}
}
