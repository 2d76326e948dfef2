//go:build gocv
// +build gocv

package camera

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"defect-lens/config"
	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

// GoCVOpener открывает камеру через OpenCV
type GoCVOpener struct {
	cfg    config.CameraConfig
	logger *slog.Logger
}

// NewGoCVOpener создаёт opener для устройства из настроек
func NewGoCVOpener(cfg config.CameraConfig, logger *slog.Logger) *GoCVOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoCVOpener{cfg: cfg, logger: logger.With("component", "camera.gocv")}
}

// Open открывает поток и просит желаемое разрешение. Звук не захватывается.
func (o *GoCVOpener) Open(ctx context.Context) (port.CameraDevice, error) {
	_ = ctx

	t, err := parseDevice(o.cfg.Device)
	if err != nil {
		return nil, err
	}
	if err := probe(t); err != nil {
		return nil, err
	}

	var src interface{} = t.index
	if t.isName {
		src = t.name
	}
	vc, err := gocv.OpenVideoCapture(src)
	if err != nil {
		return nil, classify(err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, entity.NewCameraError(entity.CameraOtherError, errors.New("video capture is not opened"))
	}

	// Разрешение «желаемое»: драйвер может выбрать ближайшее поддерживаемое.
	vc.Set(gocv.VideoCaptureFrameWidth, float64(o.cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(o.cfg.Height))

	dev := &gocvDevice{
		vc:     vc,
		width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}
	o.logger.Info("camera opened", "device", t.String(), "width", dev.width, "height", dev.height)

	return dev, nil
}

type gocvDevice struct {
	vc     *gocv.VideoCapture
	width  int
	height int
}

// Read читает кадр в родном разрешении
func (d *gocvDevice) Read() (image.Image, error) {
	mat := gocv.NewMat()
	defer mat.Close()

	if ok := d.vc.Read(&mat); !ok || mat.Empty() {
		// Поток оборвался: устройство отключили или драйвер упал.
		return nil, entity.NewCameraError(entity.CameraOtherError, errors.New("camera stream ended"))
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, entity.NewCameraError(entity.CameraOtherError, err)
	}
	d.width, d.height = mat.Cols(), mat.Rows()

	return img, nil
}

func (d *gocvDevice) Resolution() (int, int) {
	return d.width, d.height
}

func (d *gocvDevice) Close() error {
	return d.vc.Close()
}

// Проверка реализации интерфейса
var _ port.CameraOpener = (*GoCVOpener)(nil)
