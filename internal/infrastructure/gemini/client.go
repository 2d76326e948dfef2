// Package gemini отправляет снимок в Gemini generateContent и разбирает отчёт.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"defect-lens/config"
	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
)

const maxErrorBody = 512

// Client клиент анализа снимков через Gemini
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient создаёт клиента. Пустой ключ не проверяется: сервис сам отклонит запрос.
func NewClient(cfg config.GeminiConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("component", "gemini"),
	}
}

// Analyze делает один запрос без повторов и возвращает полный отчёт.
// Ошибки сети и сервиса оборачивают entity.ErrAnalysisService,
// ответ не по схеме оборачивает entity.ErrAnalysisParse.
func (c *Client) Analyze(ctx context.Context, image entity.EncodedImage) (*entity.InspectionReport, error) {
	requestID := uuid.NewString()
	start := time.Now()
	logger := c.logger.With("request_id", requestID, "model", c.model)

	text, err := c.generate(ctx, image)
	if err != nil {
		logger.Error("analysis request failed", "error", err, "latency_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	report, err := entity.ParseReport([]byte(text))
	if err != nil {
		logger.Error("analysis response rejected", "error", err, "response", truncate(text, maxErrorBody))
		return nil, fmt.Errorf("gemini: %w", err)
	}

	logger.Info("analysis completed",
		"verdict", report.InspectionResult,
		"severity", report.SeverityLevel,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// generate возвращает текст первого кандидата
func (c *Client) generate(ctx context.Context, image entity.EncodedImage) (string, error) {
	payload := generateRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{Text: InspectionPrompt},
					{InlineData: &inlineData{
						MIMEType: image.MIMEType(),
						Data:     image.Payload(),
					}},
				},
			},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   reportSchema(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", newServiceError(0, "encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newServiceError(0, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", newServiceError(0, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newServiceError(resp.StatusCode, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseError(resp.StatusCode, respBody)
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", newServiceError(resp.StatusCode, "decode response", err)
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", newServiceError(result.Error.Code, result.Error.Message, nil)
	}
	if len(result.Candidates) == 0 {
		reason := "no candidates"
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + result.PromptFeedback.BlockReason
		}
		return "", newServiceError(resp.StatusCode, reason, nil)
	}

	var text strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", newServiceError(resp.StatusCode, "empty candidate, finish reason "+result.Candidates[0].FinishReason, nil)
	}

	return text.String(), nil
}

// parseError читает тело ответа с ошибкой
func parseError(status int, body []byte) error {
	var errResp struct {
		Error apiErrorBody `json:"error"`
	}

	message := truncate(string(body), maxErrorBody)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return newServiceError(status, message, nil)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// Проверка реализации интерфейса
var _ port.DefectAnalyzer = (*Client)(nil)
