package port

import (
	"context"

	"defect-lens/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию по ID, создаёт новую если не найдена
	Get(ctx context.Context, sessionID, chatID int64) (*entity.Session, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.Session) error

	// Update атомарно меняет сессию и возвращает её копию после изменения
	Update(ctx context.Context, sessionID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error)
}
