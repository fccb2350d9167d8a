package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/pkg/response"
)

type deliveryService interface {
	Create(ctx context.Context, batchID string) (*dto.DeliveryJobResponse, error)
	Status(ctx context.Context, jobID string) (*dto.DeliveryStatusResponse, error)
}

// DeliveryHandler exposes bulk email delivery endpoints.
type DeliveryHandler struct {
	service deliveryService
}

// NewDeliveryHandler constructs the handler.
func NewDeliveryHandler(service deliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// Create godoc
// @Summary Queue bulk email delivery for a batch
// @Tags Delivery
// @Produce json
// @Param id path string true "Batch ID"
// @Success 202 {object} response.Envelope
// @Router /batches/{id}/delivery [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	job, err := h.service.Create(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Get delivery job status and summary
// @Tags Delivery
// @Produce json
// @Param id path string true "Delivery job ID"
// @Success 200 {object} response.Envelope
// @Router /delivery/{id} [get]
func (h *DeliveryHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
