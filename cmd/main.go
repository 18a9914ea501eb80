package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skinai-scan/config"
	telegram "skinai-scan/internal/api"
	"skinai-scan/internal/container"
	"skinai-scan/internal/infrastructure/predictor"
	"skinai-scan/internal/infrastructure/storage"
	"skinai-scan/internal/infrastructure/vision"
	"skinai-scan/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Хранилище сессий и клиент сервиса предсказаний
	sessions := storage.NewMemorySessionRepository()
	client := predictor.NewClient(cfg.APIBaseURL, logger, predictor.WithTimeout(cfg.PredictTimeout))

	// Собираем сервисы приложения
	appContainer := container.New(sessions, client, vision.NewPreviewer(0), logger)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.DownloadDir)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot is running", zap.String("api_base_url", cfg.APIBaseURL))
	if err := bot.Run(ctx); err != nil {
		logger.Fatal("bot error", zap.Error(err))
	}
}
