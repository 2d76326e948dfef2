package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiTimeout = 60 * time.Second
	DefaultHTTPAddr      = ":8080"
)

// Config настройки приложения. Передаётся в конструкторы явно.
type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini"`
	Telegram TelegramConfig `yaml:"telegram"`
	HTTP     HTTPConfig     `yaml:"http"`
	Camera   CameraConfig   `yaml:"camera"`
	Log      LogConfig      `yaml:"log"`
}

// GeminiConfig доступ к сервису анализа
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// TelegramConfig настройки бота
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// HTTPConfig настройки HTTP API
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// CameraConfig настройки захвата кадра
type CameraConfig struct {
	Device       string `yaml:"device"`        // индекс, путь /dev/videoN или URL потока
	Width        int    `yaml:"width"`         // желаемая ширина кадра
	Height       int    `yaml:"height"`        // желаемая высота кадра
	JPEGQuality  int    `yaml:"jpeg_quality"`  // качество JPEG 1-100
	WarmupFrames int    `yaml:"warmup_frames"` // кадры, пропускаемые перед снимком
}

// LogConfig настройки логирования
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default возвращает настройки по умолчанию
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:   DefaultGeminiModel,
			BaseURL: DefaultGeminiBaseURL,
			Timeout: DefaultGeminiTimeout,
		},
		HTTP: HTTPConfig{Addr: DefaultHTTPAddr},
		Camera: CameraConfig{
			Device:       "0",
			Width:        1280,
			Height:       720,
			JPEGQuality:  80,
			WarmupFrames: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load собирает настройки: значения по умолчанию, YAML-файл (если задан), затем окружение.
// Пустой API-ключ не считается ошибкой: запрос к сервису просто не пройдёт.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Gemini.BaseURL, "GEMINI_BASE_URL")
	setString(&c.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Camera.Device, "CAMERA_DEVICE")
	setString(&c.Log.Level, "LOG_LEVEL")

	if raw, ok := lookup("GEMINI_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("GEMINI_TIMEOUT: %w", err)
		}
		c.Gemini.Timeout = d
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CAMERA_WIDTH", &c.Camera.Width},
		{"CAMERA_HEIGHT", &c.Camera.Height},
		{"CAMERA_JPEG_QUALITY", &c.Camera.JPEGQuality},
		{"CAMERA_WARMUP_FRAMES", &c.Camera.WarmupFrames},
	}
	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	return nil
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	var errs []error

	if c.Gemini.Model == "" {
		errs = append(errs, errors.New("gemini model is required"))
	}
	if c.Gemini.BaseURL == "" {
		errs = append(errs, errors.New("gemini base url is required"))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("gemini timeout must be positive"))
	}
	if c.Camera.Device == "" {
		errs = append(errs, errors.New("camera device is required"))
	}
	if c.Camera.Width < 160 || c.Camera.Height < 120 {
		errs = append(errs, fmt.Errorf("camera resolution %dx%d is too small", c.Camera.Width, c.Camera.Height))
	}
	if c.Camera.JPEGQuality < 1 || c.Camera.JPEGQuality > 100 {
		errs = append(errs, errors.New("camera jpeg_quality must be between 1 and 100"))
	}
	if c.Camera.WarmupFrames < 0 {
		errs = append(errs, errors.New("camera warmup_frames must not be negative"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLevel переводит строку уровня в slog.Level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", level, err)
	}
	return l, nil
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
