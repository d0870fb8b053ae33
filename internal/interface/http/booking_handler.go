package http

import (
	"errors"
	"net/http"

	"massage-booking-service/internal/domain/repository"
	"massage-booking-service/internal/usecase"
	"massage-booking-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BookingHandler maps the booking lifecycle onto HTTP
type BookingHandler struct {
	service usecase.BookingUseCase
	logger  logger.Logger
}

type createBookingRequest struct {
	OfferID       string  `json:"offerId" binding:"required"`
	OfferTitle    string  `json:"offerTitle" binding:"required"`
	Duration      string  `json:"duration" binding:"required"`
	Zone          string  `json:"zone" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	Time          string  `json:"time" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Phone         string  `json:"phone" binding:"required"`
	Notes         string  `json:"notes"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaypalOrderID string  `json:"paypalOrderId"`
}

type createBookingResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	SMSSent       bool   `json:"smsSent"`
	PaypalOrderID string `json:"paypalOrderId,omitempty"`
	CancelURL     string `json:"cancelUrl,omitempty"`
	ModifyURL     string `json:"modifyUrl,omitempty"`
	Token         string `json:"token,omitempty"`
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service usecase.BookingUseCase, logger logger.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// Register mounts the booking routes on the engine
func (h *BookingHandler) Register(router *gin.Engine) {
	api := router.Group("/api/bookings")
	api.POST("", h.create)
	api.POST("/:id/cancel", h.cancel)
	api.POST("/:id/modify", h.modify)
	api.DELETE("/:id", h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.service.Create(c.Request.Context(), usecase.CreateBookingInput{
		OfferID:       req.OfferID,
		OfferTitle:    req.OfferTitle,
		Duration:      req.Duration,
		Zone:          req.Zone,
		Date:          req.Date,
		Time:          req.Time,
		Name:          req.Name,
		Phone:         req.Phone,
		Notes:         req.Notes,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaypalOrderID: req.PaypalOrderID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, createBookingResponse{
		ID:            result.ID,
		Status:        result.Status,
		SMSSent:       result.SMSSent,
		PaypalOrderID: result.PaypalOrderID,
		CancelURL:     result.CancelURL,
		ModifyURL:     result.ModifyURL,
		Token:         result.Token,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	modified, err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "modified": modified})
}

func (h *BookingHandler) modify(c *gin.Context) {
	modified, err := h.service.Modify(
		c.Request.Context(),
		c.Param("id"),
		c.Query("token"),
		c.Query("date"),
		c.Query("time"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "modified": modified})
}

func (h *BookingHandler) delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}

// respondError maps service errors onto HTTP statuses. Internal details never
// reach the response body.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrStoreUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database not configured"})
	case errors.Is(err, usecase.ErrInvalidToken):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Invalid token"})
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
