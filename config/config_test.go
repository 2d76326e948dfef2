package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_TIMEOUT",
		"TELEGRAM_TOKEN", "HTTP_ADDR", "CAMERA_DEVICE", "CAMERA_WIDTH", "CAMERA_HEIGHT",
		"CAMERA_JPEG_QUALITY", "CAMERA_WARMUP_FRAMES", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	// godotenv читает .env из рабочего каталога
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "", cfg.Gemini.APIKey)
	require.Equal(t, DefaultGeminiModel, cfg.Gemini.Model)
	require.Equal(t, DefaultGeminiBaseURL, cfg.Gemini.BaseURL)
	require.Equal(t, 1280, cfg.Camera.Width)
	require.Equal(t, 720, cfg.Camera.Height)
	require.Equal(t, 80, cfg.Camera.JPEGQuality)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "defect-lens.yaml")
	content := `
gemini:
  api_key: from-file
  model: gemini-2.0-flash
  timeout: 15s
camera:
  device: /dev/video2
  jpeg_quality: 90
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Gemini.APIKey)
	require.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	require.Equal(t, 15*time.Second, cfg.Gemini.Timeout)
	require.Equal(t, "/dev/video2", cfg.Camera.Device)
	require.Equal(t, 90, cfg.Camera.JPEGQuality)
	require.Equal(t, 1280, cfg.Camera.Width)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMERA_WIDTH", "wide")

	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Camera.JPEGQuality = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "jpeg_quality")
	require.Contains(t, err.Error(), "loud")
}
