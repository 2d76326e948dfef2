package entity

// SessionState состояние сессии инспекции
type SessionState string

const (
	StateIdle      SessionState = "idle"      // Снимка нет
	StateAnalyzing SessionState = "analyzing" // Снимок отправлен на анализ
	StateResult    SessionState = "result"    // Отчёт готов
	StateError     SessionState = "error"     // Анализ не удался
)

// Session хранит состояние экрана одного пользователя (чата или терминала)
type Session struct {
	ID      int64             // ID пользователя
	ChatID  int64             // ID чата, куда отвечать
	State   SessionState      // Текущее состояние
	Image   EncodedImage      // Снимок, пока он удерживается
	Report  *InspectionReport // Отчёт в StateResult
	Failure error             // Причина в StateError
	Seq     uint64            // Номер текущего снимка, отсекает устаревшие ответы
}

// NewSession создаёт сессию в начальном состоянии
func NewSession(id, chatID int64) *Session {
	return &Session{
		ID:     id,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// BeginAnalysis принимает снимок и переводит сессию в анализ.
// Возвращает номер снимка, с которым нужно завершить анализ.
func (s *Session) BeginAnalysis(img EncodedImage) (uint64, error) {
	if s.State != StateIdle {
		return 0, ErrSessionBusy
	}
	if err := img.Validate(); err != nil {
		return 0, err
	}

	s.Seq++
	s.State = StateAnalyzing
	s.Image = img
	s.Report = nil
	s.Failure = nil
	return s.Seq, nil
}

// Complete сохраняет отчёт, если ответ относится к текущему снимку
func (s *Session) Complete(seq uint64, report *InspectionReport) bool {
	if !s.awaiting(seq) || report == nil {
		return false
	}
	s.State = StateResult
	s.Report = report
	s.Failure = nil
	return true
}

// Fail фиксирует ошибку анализа, если ответ относится к текущему снимку
func (s *Session) Fail(seq uint64, err error) bool {
	if !s.awaiting(seq) {
		return false
	}
	s.State = StateError
	s.Report = nil
	s.Failure = err
	return true
}

// Reset сбрасывает снимок и отчёт. Из StateIdle ничего не меняет.
func (s *Session) Reset() {
	if s.State == StateIdle {
		return
	}
	// Ответ на сброшенный снимок больше не нужен.
	s.Seq++
	s.State = StateIdle
	s.Image = ""
	s.Report = nil
	s.Failure = nil
}

// HoldsImage сообщает, удерживает ли сессия снимок
func (s *Session) HoldsImage() bool {
	return !s.Image.Empty()
}

func (s *Session) awaiting(seq uint64) bool {
	return s.State == StateAnalyzing && s.Seq == seq
}
