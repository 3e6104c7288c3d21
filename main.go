package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"vitalog/internal/bot"
	"vitalog/internal/bot/handlers"
	"vitalog/internal/bot/state"
	"vitalog/internal/config"
	"vitalog/internal/database"
	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	"vitalog/internal/logger"
	"vitalog/internal/repository"
	"vitalog/internal/server"
	"vitalog/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Starting vitalog")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
	}

	var notifier docstore.Notifier
	if redisClient != nil {
		notifier = docstore.NewRedisNotifier(redisClient)
	} else {
		notifier = docstore.NewMemoryNotifier()
	}
	store := docstore.NewPostgresStore(db, notifier)

	userRepo := repository.NewUserRepository(store)
	bloodTestRepo := repository.NewBloodTestRepository(store)
	dailyLogRepo := repository.NewDailyLogRepository(store)

	aiService, err := services.NewAIService(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatal("Failed to init AI clients", "error", err)
	}
	var ai domain.AIService = aiService
	if redisClient != nil {
		ai = services.NewCachedAIService(ai, redisClient)
	}

	userService := services.NewUserService(userRepo)
	bloodTestService := services.NewBloodTestService(bloodTestRepo, ai)
	mealLogService := services.NewMealLogService(dailyLogRepo, ai)
	menuService := services.NewMenuService(userRepo, dailyLogRepo, ai)
	historyService := services.NewHistoryService(dailyLogRepo)
	logger.Info("Services initialized")

	srv := server.New(cfg.JWTSecret, server.Dependencies{
		Users:      userService,
		BloodTests: bloodTestService,
		MealLogs:   mealLogService,
		Menu:       menuService,
		History:    historyService,
		Store:      store,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
			logger.Error("HTTP server stopped with error", "error", err)
			stop()
		}
	}()

	if cfg.TelegramToken != "" {
		var stateManager state.StateManager
		if redisClient != nil {
			stateManager = state.NewRedisManager(redisClient)
		} else {
			stateManager = state.NewManager()
		}

		telegramBot, err := bot.New(cfg.TelegramToken, handlers.Dependencies{
			Users:      userService,
			MealLogs:   mealLogService,
			BloodTests: bloodTestService,
			Menu:       menuService,
		}, stateManager)
		if err != nil {
			logger.Fatal("Failed to create bot", "error", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Bot stopped with error", "error", err)
				stop()
			}
		}()
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	wg.Wait()
}
