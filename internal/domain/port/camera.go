package port

import (
	"context"
	"image"
)

// CameraOpener открывает устройство камеры
type CameraOpener interface {
	// Open открывает поток. Ошибки классифицируются как *entity.CameraError
	Open(ctx context.Context) (CameraDevice, error)
}

// CameraDevice открытый видеопоток
type CameraDevice interface {
	// Read возвращает текущий кадр в родном разрешении потока
	Read() (image.Image, error)

	// Resolution возвращает разрешение потока
	Resolution() (width, height int)

	// Close освобождает устройство
	Close() error
}
