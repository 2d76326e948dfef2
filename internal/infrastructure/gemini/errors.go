package gemini

import (
	"fmt"

	"defect-lens/internal/domain/entity"
)

// ServiceError ошибка сети или сервиса Gemini
type ServiceError struct {
	// StatusCode HTTP-статус, 0 если ответа не было
	StatusCode int
	Message    string
	Err        error
}

func newServiceError(status int, message string, err error) *ServiceError {
	return &ServiceError{StatusCode: status, Message: message, Err: err}
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("gemini: API error %d: %s", e.StatusCode, msg)
	}
	return "gemini: " + msg
}

// Unwrap отдаёт entity.ErrAnalysisService и исходную ошибку
func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{entity.ErrAnalysisService}
	}
	return []error{entity.ErrAnalysisService, e.Err}
}

