package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/dto"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
	"github.com/slutstation/slutstation-web/pkg/response"
)

type membershipService interface {
	Register(ctx context.Context, req dto.MembershipRequest) (*dto.MembershipResponse, error)
}

// MembershipHandler exposes the membership registration endpoint.
type MembershipHandler struct {
	service membershipService
}

// NewMembershipHandler builds a new handler.
func NewMembershipHandler(service membershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// Register godoc
// @Summary Register a new member
// @Tags Membership
// @Accept json
// @Produce json
// @Param payload body dto.MembershipRequest true "Membership form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /memberships [post]
func (h *MembershipHandler) Register(c *gin.Context) {
	var req dto.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid membership payload"))
		return
	}
	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
