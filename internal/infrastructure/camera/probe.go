package camera

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"defect-lens/internal/domain/entity"
)

// target описывает, что открывать: индекс устройства или строку (путь, URL)
type target struct {
	index  int
	name   string
	isName bool
}

// parseDevice разбирает значение camera.device
func parseDevice(device string) (target, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return target{}, entity.NewCameraError(entity.CameraNotFound, errors.New("no camera device configured"))
	}
	if n, err := strconv.Atoi(device); err == nil {
		if n < 0 {
			return target{}, entity.NewCameraError(entity.CameraNotFound, fmt.Errorf("invalid camera index %d", n))
		}
		return target{index: n}, nil
	}
	return target{name: device, isName: true}, nil
}

// nodePath возвращает путь V4L-устройства, если его можно проверить локально
func (t target) nodePath() (string, bool) {
	if t.isName {
		if strings.HasPrefix(t.name, "/dev/") {
			return t.name, true
		}
		return "", false
	}
	if runtime.GOOS != "linux" {
		return "", false
	}
	return fmt.Sprintf("/dev/video%d", t.index), true
}

func (t target) String() string {
	if t.isName {
		return t.name
	}
	return strconv.Itoa(t.index)
}

// probe проверяет доступ к узлу устройства до открытия через OpenCV,
// потому что OpenCV не различает причины отказа.
func probe(t target) error {
	path, ok := t.nodePath()
	if !ok {
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return classify(err)
	}
	_ = f.Close()
	return nil
}

// classify переводит ошибку открытия в вид ошибки камеры
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return entity.NewCameraError(entity.CameraNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return entity.NewCameraError(entity.CameraPermissionDenied, err)
	default:
		return entity.AsCameraError(err)
	}
}
