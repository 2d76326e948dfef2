package container

import (
	"log/slog"

	"defect-lens/config"
	app "defect-lens/internal/application"
	"defect-lens/internal/domain/port"
	"defect-lens/internal/infrastructure/camera"
	"defect-lens/internal/infrastructure/gemini"
	"defect-lens/internal/infrastructure/storage"
)

// Container собранные сервисы приложения для всех оболочек
type Container struct {
	Analyzer          port.DefectAnalyzer
	SessionService    *app.SessionService
	InspectionService *app.InspectionService
	CaptureSurface    *app.CaptureSurface
}

// New собирает сервисы по настройкам
func New(cfg *config.Config, logger *slog.Logger) *Container {
	analyzer := gemini.NewClient(cfg.Gemini, logger)
	opener := camera.NewGoCVOpener(cfg.Camera, logger)

	return NewWith(cfg, analyzer, opener, logger)
}

// NewWith собирает сервисы с готовыми анализатором и камерой
func NewWith(cfg *config.Config, analyzer port.DefectAnalyzer, opener port.CameraOpener, logger *slog.Logger) *Container {
	sessionService := app.NewSessionService(storage.NewMemorySessionRepository())
	inspectionService := app.NewInspectionService(sessionService, analyzer, logger)
	captureSurface := app.NewCaptureSurface(opener, cfg.Camera.JPEGQuality, cfg.Camera.WarmupFrames, logger)

	return &Container{
		Analyzer:          analyzer,
		SessionService:    sessionService,
		InspectionService: inspectionService,
		CaptureSurface:    captureSurface,
	}
}
