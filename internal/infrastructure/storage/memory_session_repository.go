package storage

import (
	"context"
	"sync"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий.
// Наружу отдаются только копии, чтобы горутины анализа не гонялись за одним указателем.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию по ID, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return clone(r.load(sessionID, chatID)), nil
}

// Save сохраняет состояние сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ID] = clone(session)
	r.mu.Unlock()

	return nil
}

// Update применяет fn к сессии под блокировкой.
// Если fn вернула ошибку, сессия не меняется.
func (r *MemorySessionRepository) Update(ctx context.Context, sessionID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	working := clone(r.load(sessionID, chatID))
	if err := fn(working); err != nil {
		return clone(r.sessions[sessionID]), err
	}
	r.sessions[sessionID] = working

	return clone(working), nil
}

// load вызывается под r.mu
func (r *MemorySessionRepository) load(sessionID, chatID int64) *entity.Session {
	session, exists := r.sessions[sessionID]
	if !exists {
		// Создаём новую сессию
		session = entity.NewSession(sessionID, chatID)
		r.sessions[sessionID] = session
	}
	return session
}

func clone(s *entity.Session) *entity.Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
