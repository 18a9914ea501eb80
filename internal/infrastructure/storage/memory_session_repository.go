package storage

import (
	"context"
	"sync"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий сканирования
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[int64]*entity.ScanSession
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.ScanSession),
	}
}

// Get возвращает копию сессии, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, id int64) (entity.ScanSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ScanSession{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookup(id).Snapshot(), nil
}

// Update применяет fn под блокировкой хранилища
func (r *MemorySessionRepository) Update(ctx context.Context, id int64, fn func(*entity.ScanSession) error) (entity.ScanSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ScanSession{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.lookup(id)
	err := fn(session)
	return session.Snapshot(), err
}

// Reset очищает сессию, не удаляя её: счётчик поколений не начинается заново
func (r *MemorySessionRepository) Reset(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[id]; exists {
		session.Reset()
	}
	return nil
}

// lookup вызывается под r.mu
func (r *MemorySessionRepository) lookup(id int64) *entity.ScanSession {
	session, exists := r.sessions[id]
	if !exists {
		session = entity.NewScanSession(id)
		r.sessions[id] = session
	}
	return session
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
