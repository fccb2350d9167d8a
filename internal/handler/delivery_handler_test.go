package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

type deliveryServiceMock struct {
	createResp *dto.DeliveryJobResponse
	createErr  error
	statusResp *dto.DeliveryStatusResponse
	statusErr  error
}

func (m *deliveryServiceMock) Create(_ context.Context, batchID string) (*dto.DeliveryJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *deliveryServiceMock) Status(_ context.Context, jobID string) (*dto.DeliveryStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func TestDeliveryHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDeliveryHandler(&deliveryServiceMock{
		createResp: &dto.DeliveryJobResponse{ID: "job-1", BatchID: "b1", Status: models.DeliveryStatusQueued, CreatedAt: time.Now()},
	})

	c, w := newGinContext(http.MethodPost, "/batches/b1/delivery", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), "job-1")
}

func TestDeliveryHandlerCreateMissingEmails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDeliveryHandler(&deliveryServiceMock{
		createErr: appErrors.Clone(appErrors.ErrMissingEmails, "records without email address: Bob Otieno"),
	})

	c, w := newGinContext(http.MethodPost, "/batches/b1/delivery", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Create(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	require.Contains(t, w.Body.String(), "Bob Otieno")
}

func TestDeliveryHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDeliveryHandler(&deliveryServiceMock{
		statusResp: &dto.DeliveryStatusResponse{
			ID: "job-1", BatchID: "b1", Status: models.DeliveryStatusFinished,
			Summary: &models.DeliverySummary{Total: 2, Success: 2},
		},
	})

	c, w := newGinContext(http.MethodGet, "/delivery/job-1", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "finished")
}

func TestDeliveryHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDeliveryHandler(&deliveryServiceMock{statusErr: appErrors.ErrDeliveryNotFound})

	c, w := newGinContext(http.MethodGet, "/delivery/missing", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Status(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
