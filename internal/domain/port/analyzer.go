package port

import (
	"context"

	"defect-lens/internal/domain/entity"
)

// DefectAnalyzer интерфейс сервиса анализа снимка
type DefectAnalyzer interface {
	// Analyze отправляет снимок модели и возвращает полный отчёт или ошибку
	Analyze(ctx context.Context, image entity.EncodedImage) (*entity.InspectionReport, error)
}
