package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/travel-docs/internal/model"
	"github.com/nurpe/travel-docs/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DocumentAPI interface {
	Generate(ctx context.Context, req service.DocumentRequest) (*service.GeneratedDocument, error)
	Preview(ctx context.Context, req service.DocumentRequest) (string, error)
	ExportXLSX(ctx context.Context, req service.DocumentRequest) (*service.ExportResult, error)
	SendEmail(ctx context.Context, req service.EmailRequest) (*service.EmailResult, error)
	RecentGenerations(ctx context.Context, limit int) ([]model.GenerationRecord, error)
}

type BulkEmailAPI interface {
	Send(ctx context.Context, req service.BulkEmailRequest) (*service.BulkEmailResult, error)
}

type Handler struct {
	docs DocumentAPI
	bulk BulkEmailAPI
	log  zerolog.Logger
}

func NewHandler(docs DocumentAPI, bulk BulkEmailAPI, log zerolog.Logger) *Handler {
	return &Handler{docs: docs, bulk: bulk, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	documents := router.Group("/documents")
	documents.POST("/preview", h.preview)
	documents.POST("/pdf", h.generatePDF)
	documents.POST("/xlsx", h.exportXLSX)
	documents.POST("/email", h.sendEmail)

	router.POST("/receipts/email/bulk", h.sendBulkEmail)
	router.GET("/generations", h.listGenerations)
}

type documentRequest struct {
	Kind               string   `json:"kind" binding:"required"`
	RecordID           string   `json:"record_id"`
	References         []string `json:"references"`
	SelectedPassengers []string `json:"selected_passengers"`
	Signer             string   `json:"signer"`
}

type emailRequest struct {
	documentRequest
	To      string `json:"to" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type bulkEmailRequest struct {
	ReceiptIDs []string `json:"receipt_ids" binding:"required"`
	To         string   `json:"to" binding:"required"`
	Subject    string   `json:"subject"`
	Message    string   `json:"message"`
	Signer     string   `json:"signer"`
}

func (r documentRequest) toService() (service.DocumentRequest, error) {
	kind, ok := model.ParseKind(r.Kind)
	if !ok {
		return service.DocumentRequest{}, fmt.Errorf("%w: unknown kind %q", service.ErrValidationFailed, r.Kind)
	}
	return service.DocumentRequest{
		Kind:               kind,
		RecordID:           strings.TrimSpace(r.RecordID),
		References:         r.References,
		SelectedPassengers: r.SelectedPassengers,
		Signer:             strings.TrimSpace(r.Signer),
	}, nil
}

func (h *Handler) bindDocument(c *gin.Context) (service.DocumentRequest, bool) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return service.DocumentRequest{}, false
	}
	out, err := req.toService()
	if err != nil {
		h.handleError(c, err)
		return service.DocumentRequest{}, false
	}
	return out, true
}

func (h *Handler) preview(c *gin.Context) {
	req, ok := h.bindDocument(c)
	if !ok {
		return
	}
	html, err := h.docs.Preview(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) generatePDF(c *gin.Context) {
	req, ok := h.bindDocument(c)
	if !ok {
		return
	}
	result, err := h.docs.Generate(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Header("X-Document-Pages", strconv.Itoa(result.Pages))
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportXLSX(c *gin.Context) {
	req, ok := h.bindDocument(c)
	if !ok {
		return
	}
	result, err := h.docs.ExportXLSX(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) sendEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := req.documentRequest.toService()
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.docs.SendEmail(c.Request.Context(), service.EmailRequest{
		DocumentRequest: doc,
		To:              req.To,
		Subject:         req.Subject,
		Message:         req.Message,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handler) sendBulkEmail(c *gin.Context) {
	var req bulkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bulk.Send(c.Request.Context(), service.BulkEmailRequest{
		ReceiptIDs: req.ReceiptIDs,
		To:         req.To,
		Subject:    req.Subject,
		Message:    req.Message,
		Signer:     strings.TrimSpace(req.Signer),
	})
	if err != nil {
		if result != nil {
			c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error(), "data": result})
			return
		}
		h.handleError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handler) listGenerations(c *gin.Context) {
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.docs.RecentGenerations(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	respondOK(c, records)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		respondError(c, status, "internal error")
		return
	}
	respondError(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingParameter), errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrDataFetchFailed),
		errors.Is(err, service.ErrSendFailed),
		errors.Is(err, service.ErrBatchFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrGenerationLogDisabled):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
