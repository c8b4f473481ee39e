package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-counsellor-be/internal/config"
	"ai-counsellor-be/internal/controller"
	"ai-counsellor-be/internal/counsellor"
	"ai-counsellor-be/internal/handler"
	"ai-counsellor-be/internal/pkg/logger"
	"ai-counsellor-be/internal/pkg/mailer"
	"ai-counsellor-be/internal/repository/implementation"
	"ai-counsellor-be/internal/repository/memory"
	"ai-counsellor-be/internal/repository/unitofwork"
	"ai-counsellor-be/internal/service"
	"ai-counsellor-be/internal/websocket"
	"ai-counsellor-be/pkg/llm/groq"

	pktNats "ai-counsellor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController           controller.IAuthController
	UserController           controller.IUserController
	CounsellorController     controller.ICounsellorController
	TaskController           controller.ITaskController
	ShortlistController      controller.IShortlistController
	RecommendationController controller.IRecommendationController
	UniversityController     controller.IUniversityController
	ApplicationController    controller.IApplicationController

	// Background Services (Exposed for main.go to run)
	RecommendationService service.IRecommendationService
	ConsumerService       service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. LLM Provider (Groq over the OpenAI-compatible API)
	llmProvider := groq.NewProvider(cfg.Keys.Groq, cfg.Ai.BaseURL, cfg.Ai.ChatModel)
	log.Printf("[INFO] Using LLM Provider: groq (%s)", cfg.Ai.ChatModel)

	// In-process queue for background pre-warming work.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	prewarmPublisher := service.NewPublisherService(cfg.Ai.PrewarmTopic, pubSub)

	// 4. Services
	stageService := service.NewStageService(uowFactory)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	userService := service.NewUserService(uowFactory, stageService, natsPub, prewarmPublisher)
	taskService := service.NewTaskService(uowFactory)
	shortlistService := service.NewShortlistService(uowFactory, natsPub)
	recommendationService := service.NewRecommendationService(uowFactory, llmProvider, cfg.Ai.ChatModel, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Ai.PrewarmTopic, uowFactory, recommendationService)
	universityService := service.NewUniversityService(
		cfg.Ai.UniversityAPI,
		memory.NewSearchCache(),
		llmProvider,
		cfg.Ai.ChatModel,
		sysLogger,
	)
	applicationService := service.NewApplicationService(uowFactory, llmProvider, cfg.Ai.ChatModel, sysLogger)

	// 5. Counsellor Chat Engine
	// The executor works on plain repositories; each action commits on
	// its own because a failed action must not roll back the ones
	// before it.
	userRepo := implementation.NewUserRepository(db)
	shortlistRepo := implementation.NewShortlistRepository(db)
	taskRepo := implementation.NewTaskRepository(db)
	conversationRepo := implementation.NewConversationRepository(db)

	executor := counsellor.NewExecutor(
		userRepo,
		shortlistRepo,
		taskRepo,
		shortlistService,
		recommendationService,
		sysLogger,
	)
	sessions := counsellor.NewSessionManager(conversationRepo)
	orchestrator := counsellor.NewOrchestrator(
		llmProvider,
		executor,
		sessions,
		userRepo,
		shortlistRepo,
		taskRepo,
		sysLogger,
		cfg.Ai.ChatModel,
	)
	counsellorService := service.NewCounsellorService(orchestrator, uowFactory)

	// 6. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 7. Background Cleanup (stale recommendation caches)
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := recommendationService.CleanupStale(context.Background()); err != nil {
				sysLogger.Warn("bootstrap", "recommendation cleanup failed", map[string]interface{}{"error": err.Error()})
			} else if n > 0 {
				sysLogger.Info("bootstrap", "stale recommendation caches removed", map[string]interface{}{"count": n})
			}
		}
	}()

	// 8. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		AuthController:           controller.NewAuthController(authService),
		UserController:           controller.NewUserController(userService),
		CounsellorController:     controller.NewCounsellorController(counsellorService),
		TaskController:           controller.NewTaskController(taskService),
		ShortlistController:      controller.NewShortlistController(shortlistService),
		RecommendationController: controller.NewRecommendationController(recommendationService),
		UniversityController:     controller.NewUniversityController(universityService),
		ApplicationController:    controller.NewApplicationController(applicationService),

		RecommendationService: recommendationService,
		ConsumerService:       consumerService,
	}
}
