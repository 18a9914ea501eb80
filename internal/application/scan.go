package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/domain/port"
	"skinai-scan/internal/logging"
)

// ScanService управляет экраном сканирования: выбор изображения и запрос предсказания.
type ScanService struct {
	sessions  port.SessionRepository
	predictor port.Predictor
	previewer port.Previewer
	logger    *zap.Logger
}

// NewScanService создаёт сервис. previewer может быть nil.
func NewScanService(sessions port.SessionRepository, predictor port.Predictor, previewer port.Previewer, logger *zap.Logger) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		sessions:  sessions,
		predictor: predictor,
		previewer: previewer,
		logger:    logger.Named("scan"),
	}
}

// Session возвращает текущее состояние сессии.
func (s *ScanService) Session(ctx context.Context, sessionID int64) (entity.ScanSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Reset забывает выбор и результат.
func (s *ScanService) Reset(ctx context.Context, sessionID int64) error {
	return s.sessions.Reset(ctx, sessionID)
}

// PickImage запрашивает доступ к медиатеке и сохраняет выбранное изображение.
// Отмена выбора не меняет состояние и не считается ошибкой.
func (s *ScanService) PickImage(ctx context.Context, sessionID int64, library port.MediaLibrary) (entity.ScanSession, error) {
	granted, err := library.RequestPermission(ctx)
	if err != nil {
		return entity.ScanSession{}, fmt.Errorf("request permission: %w", err)
	}
	if !granted {
		s.logger.Info("media permission denied", zap.Int64("session_id", sessionID))
		return entity.ScanSession{}, entity.ErrPermissionDenied
	}

	img, ok, err := library.Pick(ctx)
	if err != nil {
		return entity.ScanSession{}, fmt.Errorf("pick image: %w", err)
	}
	if !ok || img.Empty() {
		return s.sessions.Get(ctx, sessionID)
	}

	var preview *entity.ImagePreview
	if s.previewer != nil {
		// Миниатюра необязательна: HEIC и прочие форматы могут не декодироваться
		preview, err = s.previewer.Preview(ctx, img)
		if err != nil {
			s.logger.Debug("preview unavailable", zap.String("uri", img.URI), zap.Error(err))
			preview = nil
		}
	}

	session, err := s.sessions.Update(ctx, sessionID, func(sess *entity.ScanSession) error {
		sess.SelectImage(img, preview)
		return nil
	})
	if err != nil {
		return entity.ScanSession{}, err
	}

	s.logger.Info("image selected", zap.Int64("session_id", sessionID), zap.String("name", img.Name))
	return session, nil
}

// Analyze отправляет выбранное изображение в сервис предсказаний.
// Блокировка сессии не удерживается во время сетевого запроса.
func (s *ScanService) Analyze(ctx context.Context, sessionID int64) (entity.ScanSession, error) {
	var (
		image      entity.SelectedImage
		generation uint64
	)

	_, err := s.sessions.Update(ctx, sessionID, func(sess *entity.ScanSession) error {
		switch sess.State() {
		case entity.StateAnalyzing:
			return entity.ErrAnalysisInFlight
		case entity.StateNoImage:
			return entity.ErrNoImageSelected
		}
		image = *sess.Image
		generation = sess.BeginAnalysis()
		return nil
	})
	if err != nil {
		return entity.ScanSession{}, err
	}

	requestID := uuid.NewString()
	logger := logging.WithOperation(s.logger, "analyze", requestID).With(zap.Int64("session_id", sessionID))
	logger.Info("analysis started", zap.String("name", image.Name))

	result, predictErr := s.predictor.Predict(ctx, requestID, image)

	// Флаг снимается в любом исходе, даже если контекст уже отменён
	session, err := s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *entity.ScanSession) error {
		if predictErr != nil {
			return sess.FinishAnalysis(generation, nil)
		}
		return sess.FinishAnalysis(generation, result)
	})

	switch {
	case errors.Is(err, entity.ErrStaleResult):
		logger.Info("stale result discarded", zap.Uint64("generation", generation))
		return session, entity.ErrStaleResult
	case err != nil:
		return session, err
	case predictErr != nil:
		logger.Warn("analysis failed", zap.Error(predictErr))
		return session, predictErr
	}

	logger.Info("analysis finished",
		zap.String("label", result.Label),
		zap.Float64("risk_score", result.RiskScore),
	)
	return session, nil
}
