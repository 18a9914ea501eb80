package container

import (
	"go.uber.org/zap"

	app "skinai-scan/internal/application"
	"skinai-scan/internal/domain/port"
)

type Container struct {
	Sessions    port.SessionRepository
	ScanService *app.ScanService
	Logger      *zap.Logger
}

func New(sessions port.SessionRepository, predictor port.Predictor, previewer port.Previewer, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanService := app.NewScanService(sessions, predictor, previewer, logger)

	return &Container{
		Sessions:    sessions,
		ScanService: scanService,
		Logger:      logger,
	}
}
