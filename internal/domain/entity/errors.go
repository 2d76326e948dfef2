package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrCameraPermissionDenied доступ к камере запрещён
	ErrCameraPermissionDenied = errors.New("camera: permission denied")
	// ErrCameraNotFound камера не найдена
	ErrCameraNotFound = errors.New("camera: device not found")
	// ErrCameraOther любая другая ошибка устройства
	ErrCameraOther = errors.New("camera: device error")

	// ErrAnalysisService ошибка сети или сервиса анализа
	ErrAnalysisService = errors.New("analysis: service error")
	// ErrAnalysisParse ответ сервиса не соответствует схеме
	ErrAnalysisParse = errors.New("analysis: invalid report")

	// ErrSessionBusy сессия уже держит снимок
	ErrSessionBusy = errors.New("session: image already captured")
	// ErrInvalidImage снимок пустой или не в base64
	ErrInvalidImage = errors.New("invalid encoded image")
)

// CameraErrorKind вид ошибки камеры
type CameraErrorKind string

const (
	CameraPermissionDenied CameraErrorKind = "permission_denied"
	CameraNotFound         CameraErrorKind = "not_found"
	CameraOtherError       CameraErrorKind = "other"
)

// Тексты для пользователя, по одному на вид ошибки.
const (
	msgCameraPermissionDenied = "Permission denied. Please enable camera access in your device settings and try again."
	msgCameraNotFound         = "No camera found on this device."
	msgCameraOther            = "Could not access camera. Please check your device settings."
)

// CameraError ошибка захвата с классификацией
type CameraError struct {
	Kind CameraErrorKind
	Err  error
}

// NewCameraError создаёт ошибку камеры указанного вида
func NewCameraError(kind CameraErrorKind, err error) *CameraError {
	return &CameraError{Kind: kind, Err: err}
}

func (e *CameraError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

// Unwrap отдаёт исходную ошибку
func (e *CameraError) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с sentinel-значением её вида
func (e *CameraError) Is(target error) bool {
	return target == e.sentinel()
}

// Message возвращает текст для показа пользователю
func (e *CameraError) Message() string {
	switch e.Kind {
	case CameraPermissionDenied:
		return msgCameraPermissionDenied
	case CameraNotFound:
		return msgCameraNotFound
	default:
		return msgCameraOther
	}
}

func (e *CameraError) sentinel() error {
	switch e.Kind {
	case CameraPermissionDenied:
		return ErrCameraPermissionDenied
	case CameraNotFound:
		return ErrCameraNotFound
	default:
		return ErrCameraOther
	}
}

// AsCameraError приводит произвольную ошибку к CameraError.
// Неклассифицированные ошибки считаются CameraOtherError.
func AsCameraError(err error) *CameraError {
	if err == nil {
		return nil
	}
	var camErr *CameraError
	if errors.As(err, &camErr) {
		return camErr
	}
	return NewCameraError(CameraOtherError, err)
}
