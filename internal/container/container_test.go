package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-lens/config"
	"defect-lens/internal/domain/entity"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, img entity.EncodedImage) (*entity.InspectionReport, error) {
	return &entity.InspectionReport{
		InspectionResult: entity.VerdictPass,
		DefectIdentified: entity.NoDefect,
		LocationOfDefect: entity.NoLocation,
		SeverityLevel:    entity.SeverityNone,
		SuggestedFix:     "None",
		ConfidenceLevel:  "95%",
	}, nil
}

func TestNew(t *testing.T) {
	c := New(config.Default(), nil)
	require.NotNil(t, c.Analyzer)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.CaptureSurface)
	require.False(t, c.CaptureSurface.Active())
}

func TestNewWith_SharesSessions(t *testing.T) {
	c := NewWith(config.Default(), stubAnalyzer{}, nil, nil)
	ctx := context.Background()

	session, err := c.InspectionService.Inspect(ctx, 1, 1, entity.NewJPEGImage([]byte{0xFF, 0xD8}))
	require.NoError(t, err)
	require.Equal(t, entity.StateResult, session.State)

	got, err := c.SessionService.Get(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateResult, got.State)
}
