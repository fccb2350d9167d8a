package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/response"
)

type batchService interface {
	Upload(ctx context.Context, form dto.UploadForm, filename string, file io.Reader) (*dto.UploadResponse, error)
	Get(ctx context.Context, id string) (*models.Batch, error)
	Delete(ctx context.Context, id string) error
}

// BatchHandler manages batch upload and lifecycle endpoints.
type BatchHandler struct {
	service     batchService
	maxFileSize int64
	allowedExts map[string]struct{}
}

// NewBatchHandler constructs the handler. An empty extension list admits
// every format the ingestion layer understands.
func NewBatchHandler(service batchService, maxFileSize int64, allowedExts []string) *BatchHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	var allowed map[string]struct{}
	if len(allowedExts) > 0 {
		allowed = make(map[string]struct{}, len(allowedExts))
		for _, ext := range allowedExts {
			allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	return &BatchHandler{service: service, maxFileSize: maxFileSize, allowedExts: allowed}
}

// Upload godoc
// @Summary Upload a student spreadsheet and create a batch
// @Tags Batches
// @Accept multipart/form-data
// @Produce json
// @Param offer_date formData string true "Offer date"
// @Param start_date formData string true "Program start date"
// @Param ref_number_start formData int true "First reference number (1000..9999)"
// @Param require_email formData bool false "Require an Email column"
// @Param file formData file true "CSV or Excel file"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Upload(c *gin.Context) {
	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "offer_date, start_date and ref_number_start (1000..9999) are required"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the allowed size"))
		return
	}
	if h.allowedExts != nil {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
		if _, ok := h.allowedExts[ext]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnsupportedFile, "file type not allowed for upload"))
			return
		}
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer src.Close()

	result, err := h.service.Upload(c.Request.Context(), form, fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Get a batch with its records
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, b, nil)
}

// Delete godoc
// @Summary Delete a batch and its artifacts
// @Tags Batches
// @Param id path string true "Batch ID"
// @Success 204
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
