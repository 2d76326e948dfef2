package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"defect-lens/config"
	"defect-lens/internal/domain/entity"
)

const failReportJSON = `{"inspectionResult":"FAIL","defectIdentified":"Scratch","locationOfDefect":"Top-left corner","severityLevel":"Medium","suggestedFix":"Sand and repaint","confidenceLevel":"87%"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL + "/v1beta/",
		Timeout: 5 * time.Second,
	}, nil)
}

func candidateBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(body)
}

func TestAnalyze_BuildsRequest(t *testing.T) {
	img := entity.NewJPEGImage([]byte("jpeg-bytes"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.Empty(t, r.URL.Query().Get("key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req generateRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		require.Equal(t, InspectionPrompt, req.Contents[0].Parts[0].Text)

		inline := req.Contents[0].Parts[1].InlineData
		require.NotNil(t, inline)
		require.Equal(t, "image/jpeg", inline.MIMEType)
		// Префикс data URL срезан
		require.Equal(t, img.Payload(), inline.Data)

		cfg := req.GenerationConfig
		require.Equal(t, "application/json", cfg.ResponseMIMEType)
		require.Equal(t, typeObject, cfg.ResponseSchema.Type)
		require.Len(t, cfg.ResponseSchema.Required, 6)
		require.Equal(t, []string{"PASS", "FAIL"}, cfg.ResponseSchema.Properties["inspectionResult"].Enum)
		require.Equal(t, []string{"Low", "Medium", "High", "N/A"}, cfg.ResponseSchema.Properties["severityLevel"].Enum)

		_, _ = io.WriteString(w, candidateBody(failReportJSON))
	})

	report, err := client.Analyze(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, &entity.InspectionReport{
		InspectionResult: entity.VerdictFail,
		DefectIdentified: "Scratch",
		LocationOfDefect: "Top-left corner",
		SeverityLevel:    entity.SeverityMedium,
		SuggestedFix:     "Sand and repaint",
		ConfidenceLevel:  "87%",
	}, report)
}

func TestAnalyze_JoinsCandidateParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": failReportJSON[:40]},
					map[string]any{"text": failReportJSON[40:]},
				}},
			}},
		})
		_, _ = w.Write(body)
	})

	report, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))
	require.NoError(t, err)
	require.Equal(t, "Scratch", report.DefectIdentified)
}

func TestAnalyze_UnparsableText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, candidateBody("I think the part is fine."))
	})

	report, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))
	require.Nil(t, report)
	require.ErrorIs(t, err, entity.ErrAnalysisParse)
	require.False(t, errors.Is(err, entity.ErrAnalysisService))
}

func TestAnalyze_ServiceErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status with api error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "overloaded")
		},
		"no candidates": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
		},
		"broken envelope": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"candidates":`)
		},
		"empty text": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, candidateBody(""))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)

			report, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))
			require.Nil(t, report)
			require.ErrorIs(t, err, entity.ErrAnalysisService)

			var svcErr *ServiceError
			require.True(t, errors.As(err, &svcErr))
		})
	}
}

func TestAnalyze_APIErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"permission denied"}}`)
	})

	_, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	require.Equal(t, http.StatusForbidden, svcErr.StatusCode)
	require.Equal(t, "permission denied", svcErr.Message)
}

func TestAnalyze_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(config.GeminiConfig{Model: "m", BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))
	require.ErrorIs(t, err, entity.ErrAnalysisService)
}

func TestAnalyze_EmptyKeyIsSentAnyway(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Empty(t, r.Header.Get("x-goog-api-key"))
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.GeminiConfig{Model: "m", BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := client.Analyze(context.Background(), entity.NewJPEGImage([]byte("x")))
	require.True(t, called)
	require.ErrorIs(t, err, entity.ErrAnalysisService)
}
