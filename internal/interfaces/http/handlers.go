package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-bundler/internal/application/service"
	"github.com/garyjia/invoice-bundler/internal/invoice"
	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/version"
	"github.com/garyjia/invoice-bundler/pkg/utils"
)

const uploadField = "file"

// Handlers contains all HTTP request handlers
type Handlers struct {
	statementService service.StatementService
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(statementService service.StatementService, logger Logger) *Handlers {
	return &Handlers{
		statementService: statementService,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// FormatResponse describes the expected workbook layout
type FormatResponse struct {
	RequiredColumns []string        `json:"required_columns"`
	OptionalColumns []string        `json:"optional_columns"`
	SampleRows      [][]interface{} `json:"sample_rows"`
}

// PreviewResponse is the aggregation result of an uploaded workbook
type PreviewResponse struct {
	RunID     string                 `json:"run_id"`
	Message   string                 `json:"message"`
	Overview  invoice.Overview       `json:"overview"`
	Summaries []models.ClientSummary `json:"summaries"`
	Warnings  []string               `json:"warnings,omitempty"`
}

// GenerateRequest holds the optional form fields of POST /api/statements
type GenerateRequest struct {
	CompanyName    string `form:"company_name"`
	CompanyAddress string `form:"company_address"`
	CompanyPhone   string `form:"company_phone"`
	CompanyEmail   string `form:"company_email"`
	Client         string `form:"client"`
	Archive        bool   `form:"archive"`
}

// companyOverride returns the sanitized company fields of the request
func (r GenerateRequest) companyOverride() models.CompanyProfile {
	return models.CompanyProfile{
		Name:    utils.SanitizeString(r.CompanyName),
		Address: utils.SanitizeString(r.CompanyAddress),
		Phone:   utils.SanitizeString(r.CompanyPhone),
		Email:   utils.SanitizeString(r.CompanyEmail),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version.Version,
		},
	})
}

// Format handles GET /api/format
func (h *Handlers) Format(c *gin.Context) {
	rows := invoice.SampleRows()
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: FormatResponse{
			RequiredColumns: invoice.RequiredColumns,
			OptionalColumns: invoice.OptionalColumns,
			SampleRows:      rows[1:],
		},
	})
}

// Preview handles POST /api/statements/preview
func (h *Handlers) Preview(c *gin.Context) {
	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.statementService.Preview(c.Request.Context(), upload)
	if err != nil {
		h.writeError(c, "Preview failed", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: PreviewResponse{
			RunID:     result.RunID,
			Message:   result.Message,
			Overview:  result.Overview,
			Summaries: result.Summaries,
			Warnings:  result.Warnings(),
		},
	})
}

// Generate handles POST /api/statements and answers with a PDF or zip download
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Invalid form fields", "error", err)
		status, msg := http.StatusBadRequest, "invalid form fields"
		if isTooLarge(err) {
			status, msg = http.StatusRequestEntityTooLarge, "uploaded file is too large"
		}
		c.JSON(status, Response{Success: false, Error: msg})
		return
	}

	company := req.companyOverride()
	if company.Email != "" {
		if err := utils.ValidateEmail(company.Email); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
	}

	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	artifact, err := h.statementService.Generate(c.Request.Context(), upload, service.GenerateOptions{
		Client:  strings.TrimSpace(req.Client),
		Archive: req.Archive,
		Company: company,
	})
	if err != nil {
		h.writeError(c, "Generate failed", err)
		return
	}

	warnings := artifact.Result.Warnings()
	h.logger.Info("Statements ready",
		"run_id", artifact.Result.RunID,
		"file", artifact.FileName,
		"size", len(artifact.Content),
		"warnings", len(warnings))

	c.Header("Content-Disposition", contentDisposition(artifact.FileName))
	c.Header("X-Run-Id", artifact.Result.RunID)
	c.Header("X-Skipped-Rows", strconv.Itoa(len(warnings)))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Content)
}

// contentDisposition names the download; non-ASCII names use the RFC 2231 filename* form
func contentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

// readUpload loads the multipart file; on failure the response is already written
func (h *Handlers) readUpload(c *gin.Context) (service.Upload, bool) {
	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		h.logger.Error("Missing upload", "error", err)
		status, msg := http.StatusBadRequest, "a workbook must be uploaded in the \"file\" field"
		if isTooLarge(err) {
			status, msg = http.StatusRequestEntityTooLarge, "uploaded file is too large"
		}
		c.JSON(status, Response{Success: false, Error: msg})
		return service.Upload{}, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", "error", err, "filename", fileHeader.Filename)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload"})
		return service.Upload{}, false
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("Failed to read upload", "error", err, "filename", fileHeader.Filename)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload"})
		return service.Upload{}, false
	}

	return service.Upload{FileName: fileHeader.Filename, Content: content}, true
}

// writeError maps service errors to status codes
func (h *Handlers) writeError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	h.logger.Error(msg, "error", err, "status", status)
	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidUpload):
		return http.StatusBadRequest
	case invoice.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrClientNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// isTooLarge detects the body limit; multipart parsing does not always keep the typed error
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
