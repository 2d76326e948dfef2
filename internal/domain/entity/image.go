package entity

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// MIMETypeJPEG тип снимков с камеры
	MIMETypeJPEG = "image/jpeg"

	dataURLPrefix = "data:"
	base64Marker  = ";base64,"
)

// EncodedImage снимок в виде data URL: "data:image/jpeg;base64,..."
type EncodedImage string

// NewJPEGImage оборачивает JPEG-байты в data URL
func NewJPEGImage(jpegData []byte) EncodedImage {
	return EncodedImage(dataURLPrefix + MIMETypeJPEG + base64Marker + base64.StdEncoding.EncodeToString(jpegData))
}

// Payload возвращает base64 без префикса data URL.
// Строка без префикса возвращается как есть.
func (i EncodedImage) Payload() string {
	s := string(i)
	if !strings.HasPrefix(s, dataURLPrefix) {
		return s
	}
	if idx := strings.Index(s, ","); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// MIMEType возвращает тип из data URL, по умолчанию image/jpeg
func (i EncodedImage) MIMEType() string {
	s := string(i)
	if !strings.HasPrefix(s, dataURLPrefix) {
		return MIMETypeJPEG
	}
	header := s[len(dataURLPrefix):]
	if idx := strings.IndexAny(header, ";,"); idx >= 0 {
		header = header[:idx]
	}
	if header == "" {
		return MIMETypeJPEG
	}
	return header
}

// Bytes декодирует содержимое снимка
func (i EncodedImage) Bytes() ([]byte, error) {
	payload := i.Payload()
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return data, nil
}

// Validate проверяет, что снимок непустой и корректно закодирован
func (i EncodedImage) Validate() error {
	data, err := i.Bytes()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: no image data", ErrInvalidImage)
	}
	return nil
}

// Empty сообщает, что снимка нет
func (i EncodedImage) Empty() bool {
	return i == ""
}
