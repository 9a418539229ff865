package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/dto"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
	"github.com/slutstation/slutstation-web/pkg/response"
)

type applicationService interface {
	Submit(ctx context.Context, req dto.DJApplicationRequest) (*dto.DJApplicationResponse, error)
}

// ApplicationHandler exposes the DJ application endpoint.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler builds a new handler.
func NewApplicationHandler(service applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Submit godoc
// @Summary Apply to play at an event
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body dto.DJApplicationRequest true "DJ application"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dj-applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.DJApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}
