package bootstrap

import (
	"log"

	"quizgen-be/internal/config"
	"quizgen-be/internal/controller"
	"quizgen-be/internal/pkg/logger"
	"quizgen-be/internal/repository/memory"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/internal/service"
	"quizgen-be/internal/workflow"
	"quizgen-be/pkg/embedding"
	"quizgen-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	UserController     controller.IUserController
	DocumentController controller.IDocumentController
	QuizController     controller.IQuizController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Workflow
	memoryStore := workflow.NewMemoryStore(uowFactory, embeddingProvider)
	checkpointer := workflow.NewCheckpointer(uowFactory)
	pipeline := workflow.NewQuizPipeline(uowFactory, llmProvider, memoryStore, checkpointer, sysLogger)

	// In-memory run tracking for status polling
	runRepo := memory.NewRunRepository()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Topics.EmbedDocument, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Topics.EmbedDocument, uowFactory, embeddingProvider, sysLogger)

	userService := service.NewUserService(uowFactory, memoryStore)
	documentService := service.NewDocumentService(uowFactory, publisherService, embeddingProvider, sysLogger)
	quizService := service.NewQuizService(uowFactory, pipeline, runRepo, sysLogger)

	// 6. Controllers
	userController := controller.NewUserController(userService)
	documentController := controller.NewDocumentController(documentService)
	quizController := controller.NewQuizController(quizService)

	return &Container{
		UserController:     userController,
		DocumentController: documentController,
		QuizController:     quizController,
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
