//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"errors"
	"log/slog"

	"defect-lens/config"
	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

// GoCVOpener заглушка для сборки без OpenCV
type GoCVOpener struct {
	cfg    config.CameraConfig
	logger *slog.Logger
}

// NewGoCVOpener создаёт opener-заглушку (без OpenCV).
func NewGoCVOpener(cfg config.CameraConfig, logger *slog.Logger) *GoCVOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoCVOpener{cfg: cfg, logger: logger.With("component", "camera.stub")}
}

// Open возвращает ошибку, если сборка без тега gocv.
// Отсутствующее устройство всё равно сообщается как not_found.
func (o *GoCVOpener) Open(ctx context.Context) (port.CameraDevice, error) {
	_ = ctx

	t, err := parseDevice(o.cfg.Device)
	if err != nil {
		return nil, err
	}
	if err := probe(t); err != nil {
		return nil, err
	}
	return nil, entity.NewCameraError(entity.CameraOtherError, errors.New("gocv build tag is not enabled"))
}

// Проверка реализации интерфейса
var _ port.CameraOpener = (*GoCVOpener)(nil)
