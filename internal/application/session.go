package app

import (
	"context"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, sessionID, chatID)
}

// Reset возвращает сессию в Idle, отбрасывая снимок и отчёт
func (s *SessionService) Reset(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.repo.Update(ctx, sessionID, chatID, func(session *entity.Session) error {
		session.Reset()
		return nil
	})
}

func (s *SessionService) update(ctx context.Context, sessionID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error) {
	return s.repo.Update(ctx, sessionID, chatID, fn)
}
