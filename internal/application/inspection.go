package app

import (
	"context"
	"errors"
	"log/slog"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

// ErrStaleResult ответ пришёл для снимка, который уже сброшен
var ErrStaleResult = errors.New("analysis result for a discarded image")

// InspectionService ведёт сессию через Idle → Analyzing → Result | Error.
type InspectionService struct {
	sessions *SessionService
	analyzer port.DefectAnalyzer
	logger   *slog.Logger
}

// NewInspectionService создаёт сервис, который управляет проверкой дефектов.
func NewInspectionService(sessions *SessionService, analyzer port.DefectAnalyzer, logger *slog.Logger) *InspectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectionService{
		sessions: sessions,
		analyzer: analyzer,
		logger:   logger.With("component", "inspection"),
	}
}

// Submit принимает снимок и переводит сессию в анализ.
// Пока сессия держит снимок, новый не принимается (entity.ErrSessionBusy).
func (s *InspectionService) Submit(ctx context.Context, sessionID, chatID int64, img entity.EncodedImage) (*entity.Session, uint64, error) {
	var seq uint64
	session, err := s.sessions.update(ctx, sessionID, chatID, func(session *entity.Session) error {
		var err error
		seq, err = session.BeginAnalysis(img)
		return err
	})
	if err != nil {
		return session, 0, err
	}
	return session, seq, nil
}

// Analyze отправляет снимок и сохраняет отчёт или ошибку в сессии.
// Неудачный анализ не возвращается как ошибка: он становится состоянием StateError.
// Причина пишется в лог, пользователь видит общее сообщение.
func (s *InspectionService) Analyze(ctx context.Context, sessionID, chatID int64, seq uint64, img entity.EncodedImage) (*entity.Session, error) {
	report, analysisErr := s.analyze(ctx, img)
	if analysisErr != nil {
		s.logger.Error("analysis failed",
			"session_id", sessionID,
			"parse_error", errors.Is(analysisErr, entity.ErrAnalysisParse),
			"error", analysisErr,
		)
	}

	applied := false
	session, err := s.sessions.update(ctx, sessionID, chatID, func(session *entity.Session) error {
		if analysisErr != nil {
			applied = session.Fail(seq, analysisErr)
		} else {
			applied = session.Complete(seq, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Info("analysis result discarded", "session_id", sessionID, "seq", seq)
		return session, ErrStaleResult
	}

	return session, nil
}

// Inspect принимает снимок и синхронно анализирует его
func (s *InspectionService) Inspect(ctx context.Context, sessionID, chatID int64, img entity.EncodedImage) (*entity.Session, error) {
	session, seq, err := s.Submit(ctx, sessionID, chatID, img)
	if err != nil {
		return session, err
	}
	return s.Analyze(ctx, sessionID, chatID, seq, img)
}

// Session возвращает текущее состояние сессии
func (s *InspectionService) Session(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.sessions.Get(ctx, sessionID, chatID)
}

// Reset возвращает сессию в Idle. Запрос в полёте не отменяется, его ответ будет отброшен.
func (s *InspectionService) Reset(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.sessions.Reset(ctx, sessionID, chatID)
}

func (s *InspectionService) analyze(ctx context.Context, img entity.EncodedImage) (*entity.InspectionReport, error) {
	if s.analyzer == nil {
		return nil, errors.Join(entity.ErrAnalysisService, errors.New("analyzer is not configured"))
	}

	report, err := s.analyzer.Analyze(ctx, img)
	if err != nil {
		return nil, err
	}
	// Анализатор мог вернуть неполный отчёт: пропускать его нельзя.
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}
