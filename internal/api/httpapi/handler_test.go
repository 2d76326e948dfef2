package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/presentation"
)

type stubAnalyzer struct {
	report *entity.InspectionReport
	err    error
	got    entity.EncodedImage
}

func (a *stubAnalyzer) Analyze(ctx context.Context, img entity.EncodedImage) (*entity.InspectionReport, error) {
	a.got = img
	return a.report, a.err
}

var failReport = &entity.InspectionReport{
	InspectionResult: entity.VerdictFail,
	DefectIdentified: "Scratch",
	LocationOfDefect: "Top-left corner",
	SeverityLevel:    entity.SeverityMedium,
	SuggestedFix:     "Sand and repaint",
	ConfidenceLevel:  "87%",
}

func doInspect(t *testing.T, analyzer *stubAnalyzer, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := NewRouter(NewHandler(analyzer, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspections", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestInspect_OK(t *testing.T) {
	analyzer := &stubAnalyzer{report: failReport}
	img := entity.NewJPEGImage([]byte{0xFF, 0xD8, 0xFF, 0xD9})

	rec := doInspect(t, analyzer, `{"image":"`+string(img)+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
	require.Equal(t, img, analyzer.got)

	var got entity.InspectionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, *failReport, got)
}

func TestInspect_AnalysisFailed(t *testing.T) {
	for _, cause := range []error{entity.ErrAnalysisParse, entity.ErrAnalysisService} {
		rec := doInspect(t, &stubAnalyzer{err: cause}, `{"image":"/9j/2Q=="}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		var got ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, "analysis_failed", got.Error.Code)
		require.Equal(t, presentation.AnalysisFailedMessage, got.Error.Message)
	}
}

func TestInspect_BadInput(t *testing.T) {
	analyzer := &stubAnalyzer{report: failReport}

	rec := doInspect(t, analyzer, `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doInspect(t, analyzer, `{"image":"data:image/jpeg;base64,%%%"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "invalid_image", got.Error.Code)
	require.Empty(t, analyzer.got)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(NewHandler(&stubAnalyzer{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
