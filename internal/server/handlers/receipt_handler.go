package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/service/alerts"
	"github.com/ousmanedev/receiptwatch/internal/service/receipts"
)

// ReceiptHandler adapts the receipt and alert services to HTTP.
type ReceiptHandler struct {
	receipts *receipts.Service
	alerts   *alerts.Service
	logger   *zap.Logger
}

// NewReceiptHandler constructs the HTTP handler adapter.
func NewReceiptHandler(receiptSvc *receipts.Service, alertSvc *alerts.Service, logger *zap.Logger) *ReceiptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptHandler{receipts: receiptSvc, alerts: alertSvc, logger: logger}
}

// Health answers the liveness probe.
func (h *ReceiptHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "receipt service is healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// List returns all receipts, newest first.
func (h *ReceiptHandler) List(c *gin.Context) {
	records, err := h.receipts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list receipts")
		return
	}

	c.JSON(http.StatusOK, records)
}

// Create persists a new receipt from an already-extracted payload.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req models.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.receipts.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "failed to create receipt")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update applies a partial status/note/updatedBy patch.
func (h *ReceiptHandler) Update(c *gin.Context) {
	var patch models.ReceiptPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.receipts.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, "failed to update receipt")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a receipt permanently.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.receipts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "failed to delete receipt")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "receipt deleted",
		"id":      id,
	})
}

// Alerts returns the receipts currently inside the alert window.
func (h *ReceiptHandler) Alerts(c *gin.Context) {
	alertable, err := h.alerts.Scan(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to scan for alerts")
		return
	}

	c.JSON(http.StatusOK, alertable)
}

// Stats returns aggregate counts over the record set.
func (h *ReceiptHandler) Stats(c *gin.Context) {
	stats, err := h.receipts.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondError maps domain errors onto HTTP statuses. Anything unrecognized
// becomes a generic 500 so internals never leak past the message string.
func (h *ReceiptHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "record store unavailable"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
