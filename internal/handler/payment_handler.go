package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-crm-api/internal/middleware"
	"github.com/noah-isme/tutor-crm-api/internal/service"
	"github.com/noah-isme/tutor-crm-api/pkg/response"
)

// PaymentHandler exposes the monthly income summary.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler constructs handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// ThisMonth godoc
// @Summary Current month income summary
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payments/this-month [get]
func (h *PaymentHandler) ThisMonth(c *gin.Context) {
	summary, err := h.service.MonthlySummary(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Export godoc
// @Summary Export the current month income summary
// @Tags Payments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Security BearerAuth
// @Router /payments/this-month/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.service.ExportMonthlySummary(c.Request.Context(), middleware.UserID(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
