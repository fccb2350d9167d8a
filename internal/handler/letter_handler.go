package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/service"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/response"
)

type letterService interface {
	RenderOne(ctx context.Context, batchID string, index int) (string, []byte, error)
}

type archiveService interface {
	RenderAll(ctx context.Context, batchID string) (*dto.ArchiveResponse, error)
	ResolveDownload(token string) (*service.ArchiveDownload, error)
}

// LetterHandler exposes letter rendering and archive download endpoints.
type LetterHandler struct {
	letters  letterService
	archives archiveService
}

// NewLetterHandler constructs the handler.
func NewLetterHandler(letters letterService, archives archiveService) *LetterHandler {
	return &LetterHandler{letters: letters, archives: archives}
}

// Render godoc
// @Summary Render a single offer letter as PDF
// @Tags Letters
// @Produce application/pdf
// @Param id path string true "Batch ID"
// @Param index path int true "Record index within the batch"
// @Success 200 {file} binary
// @Router /batches/{id}/letters/{index} [get]
func (h *LetterHandler) Render(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "letter index must be an integer"))
		return
	}
	filename, data, err := h.letters.RenderOne(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Archive godoc
// @Summary Render every letter of a batch into a zip archive
// @Tags Letters
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/letters/archive [post]
func (h *LetterHandler) Archive(c *gin.Context) {
	result, err := h.archives.RenderAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a letter archive via signed token
// @Tags Letters
// @Produce application/zip
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /letters/download/{token} [get]
func (h *LetterHandler) Download(c *gin.Context) {
	result, err := h.archives.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close()

	info, err := result.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read archive"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), "application/zip", result.File, nil)
}
