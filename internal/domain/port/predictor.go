package port

import (
	"context"

	"skinai-scan/internal/domain/entity"
)

// Predictor интерфейс сервиса предсказаний
type Predictor interface {
	// Predict отправляет изображение на анализ и возвращает разобранный ответ
	Predict(ctx context.Context, requestID string, image entity.SelectedImage) (*entity.PredictionResult, error)
}
