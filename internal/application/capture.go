package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"sync"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

// CaptureSurface владеет потоком камеры и делает один снимок за сессию.
type CaptureSurface struct {
	opener       port.CameraOpener
	quality      int
	warmupFrames int
	logger       *slog.Logger

	mu     sync.Mutex
	device port.CameraDevice
}

// NewCaptureSurface создаёт поверхность захвата
func NewCaptureSurface(opener port.CameraOpener, jpegQuality, warmupFrames int, logger *slog.Logger) *CaptureSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureSurface{
		opener:       opener,
		quality:      jpegQuality,
		warmupFrames: warmupFrames,
		logger:       logger.With("component", "capture"),
	}
}

// Start открывает поток. Ошибка всегда *entity.CameraError, поток при этом не создаётся.
func (s *CaptureSurface) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		return entity.NewCameraError(entity.CameraOtherError, errors.New("camera stream is already active"))
	}
	if s.opener == nil {
		return entity.NewCameraError(entity.CameraNotFound, errors.New("camera is not configured"))
	}

	device, err := s.opener.Open(ctx)
	if err != nil {
		camErr := entity.AsCameraError(err)
		s.logger.Warn("camera start failed", "kind", camErr.Kind, "error", err)
		return camErr
	}

	s.device = device
	return nil
}

// Stop освобождает устройство и сбрасывает ссылку на поток. Повторный вызов безопасен.
func (s *CaptureSurface) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

// Active сообщает, открыт ли поток
func (s *CaptureSurface) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.device != nil
}

// Resolution возвращает разрешение открытого потока
func (s *CaptureSurface) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return 0, 0
	}
	return s.device.Resolution()
}

// Grab снимает текущий кадр и кодирует его в JPEG data URL.
// После вызова поток всегда остановлен, даже при ошибке.
func (s *CaptureSurface) Grab(ctx context.Context) (entity.EncodedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.stopLocked()

	if s.device == nil {
		return "", entity.NewCameraError(entity.CameraOtherError, errors.New("camera stream is not active"))
	}
	if err := ctx.Err(); err != nil {
		return "", entity.NewCameraError(entity.CameraOtherError, err)
	}

	frame, err := s.device.Read()
	if err != nil {
		// Поток оборвался во время работы: считаем это ошибкой устройства.
		return "", entity.AsCameraError(err)
	}

	data, err := encodeJPEG(frame, s.quality)
	if err != nil {
		return "", entity.NewCameraError(entity.CameraOtherError, err)
	}

	b := frame.Bounds()
	s.logger.Info("frame captured", "width", b.Dx(), "height", b.Dy(), "bytes", len(data))

	return entity.NewJPEGImage(data), nil
}

// Snapshot открывает поток, пропускает кадры прогрева и делает снимок.
// Для оболочек без живого превью.
func (s *CaptureSurface) Snapshot(ctx context.Context) (entity.EncodedImage, error) {
	if err := s.Start(ctx); err != nil {
		return "", err
	}

	if err := s.warmup(ctx); err != nil {
		s.Stop()
		return "", err
	}

	return s.Grab(ctx)
}

// warmup пропускает первые кадры, пока камера подстраивает экспозицию
func (s *CaptureSurface) warmup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.warmupFrames; i++ {
		if s.device == nil {
			return entity.NewCameraError(entity.CameraOtherError, errors.New("camera stream is not active"))
		}
		if err := ctx.Err(); err != nil {
			return entity.NewCameraError(entity.CameraOtherError, err)
		}
		if _, err := s.device.Read(); err != nil {
			return entity.AsCameraError(err)
		}
	}
	return nil
}

// stopLocked вызывается под s.mu
func (s *CaptureSurface) stopLocked() {
	if s.device == nil {
		return
	}
	if err := s.device.Close(); err != nil {
		s.logger.Warn("camera close failed", "error", err)
	}
	s.device = nil
}

// encodeJPEG рисует кадр во внеэкранный буфер в родном разрешении и сжимает его
func encodeJPEG(frame image.Image, quality int) ([]byte, error) {
	if frame == nil {
		return nil, errors.New("empty frame")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, errors.New("empty frame")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), frame, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
