package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"skinai-scan/config"
	"skinai-scan/internal/container"
	"skinai-scan/internal/infrastructure/media"
	"skinai-scan/internal/infrastructure/predictor"
	"skinai-scan/internal/infrastructure/storage"
	"skinai-scan/internal/infrastructure/vision"
	"skinai-scan/internal/logging"
	"skinai-scan/internal/terminal"
	"skinai-scan/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := flag.String("dir", cfg.MediaDir, "directory to pick images from")
	server := flag.String("server", cfg.APIBaseURL, "prediction API base URL")
	about := flag.Bool("about", false, "print the about screen and exit")
	flag.Parse()

	if *about {
		fmt.Println(view.About().Text())
		return
	}

	// В терминале логи мешают вводу, поэтому уровень не ниже warn
	level := cfg.LogLevel
	if level == "debug" || level == "info" {
		level = "warn"
	}
	logger, err := logging.NewLogger(level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	client := predictor.NewClient(config.NormalizeBaseURL(*server), logger, predictor.WithTimeout(cfg.PredictTimeout))
	appContainer := container.New(storage.NewMemorySessionRepository(), client, vision.NewPreviewer(0), logger)

	console := terminal.NewConsole(os.Stdin, os.Stdout, appContainer.ScanService, logger)
	library := media.NewDirectoryLibrary(*dir, console)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := console.Run(ctx, library); err != nil {
		logger.Fatal("console error", zap.Error(err))
	}
}
