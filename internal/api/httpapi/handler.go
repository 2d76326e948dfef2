// Package httpapi HTTP-вход для страницы с камерой: снимок приходит готовым data URL.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/domain/port"
	"defect-lens/internal/presentation"
)

const requestIDHeader = "X-Request-ID"

// maxBodyBytes ограничивает размер снимка в запросе
const maxBodyBytes = 16 << 20

// InspectionRequest тело POST /api/v1/inspections
type InspectionRequest struct {
	Image string `json:"image" binding:"required"`
}

// ErrorBody единый формат ошибки
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse обёртка ошибки
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Handler обрабатывает запросы на инспекцию
type Handler struct {
	analyzer port.DefectAnalyzer
	logger   *slog.Logger
}

// NewHandler создаёт обработчик
func NewHandler(analyzer port.DefectAnalyzer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{analyzer: analyzer, logger: logger.With("component", "http")}
}

// NewRouter собирает gin с маршрутами
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), h.logging(), gin.Recovery())

	r.GET("/healthz", h.health)
	r.POST("/api/v1/inspections", h.inspect)

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// inspect один запрос к анализатору без повторов
func (h *Handler) inspect(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req InspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid_request", "Request body must be JSON with an image field.", err)
		return
	}

	img := entity.EncodedImage(req.Image)
	if err := img.Validate(); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid_image", "Image must be a base64 encoded JPEG.", err)
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), img)
	if err == nil {
		err = report.Validate()
	}
	if err != nil {
		h.fail(c, http.StatusBadGateway, "analysis_failed", presentation.AnalysisFailedMessage, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// fail пишет причину в лог и отдаёт клиенту общий ответ
func (h *Handler) fail(c *gin.Context, status int, code, message string, cause error) {
	h.logger.Error("request failed",
		"request_id", c.GetString("requestId"),
		"status", status,
		"code", code,
		"parse_error", errors.Is(cause, entity.ErrAnalysisParse),
		"error", cause,
	)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("http request",
			"request_id", c.GetString("requestId"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
