package port

import (
	"context"

	"skinai-scan/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий сканирования
type SessionRepository interface {
	// Get возвращает копию сессии по ID, создаёт новую если не найдена
	Get(ctx context.Context, id int64) (entity.ScanSession, error)

	// Update атомарно применяет fn к сессии и возвращает копию нового состояния.
	// Если fn вернула ошибку, копия всё равно возвращается вместе с ошибкой.
	Update(ctx context.Context, id int64, fn func(*entity.ScanSession) error) (entity.ScanSession, error)

	// Reset забывает изображение и результат сессии
	Reset(ctx context.Context, id int64) error
}
