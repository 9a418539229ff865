package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/dto"
	"github.com/slutstation/slutstation-web/internal/models"
	"github.com/slutstation/slutstation-web/pkg/config"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

const (
	emailNotConfiguredMessage = "EmailJS is not configured."
	applicationFailedMessage  = "Failed to send application. Please try again later."
)

type emailSender interface {
	Send(ctx context.Context, req models.EmailSendRequest) error
}

// ApplicationService forwards DJ booking applications by email.
type ApplicationService struct {
	sender    emailSender
	cfg       config.EmailJSConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(sender emailSender, cfg config.EmailJSConfig, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{sender: sender, cfg: cfg, validator: validate, logger: logger}
}

// Configured reports whether applications can be sent.
func (s *ApplicationService) Configured() bool {
	return s.sender != nil && s.cfg.Configured()
}

// Submit validates the application and sends it to the booking inbox.
func (s *ApplicationService) Submit(ctx context.Context, req dto.DJApplicationRequest) (*dto.DJApplicationResponse, error) {
	if !s.Configured() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, emailNotConfiguredMessage)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid application payload")
	}

	send := models.EmailSendRequest{
		ServiceID:   s.cfg.ServiceID,
		TemplateID:  s.cfg.TemplateID,
		UserID:      s.cfg.PublicKey,
		AccessToken: s.cfg.AccessToken,
		TemplateParams: models.DJApplicationParams{
			ToEmail:     s.cfg.Recipient,
			FromName:    strings.TrimSpace(req.ArtistName),
			FromEmail:   strings.TrimSpace(req.Email),
			Genre:       strings.TrimSpace(req.Genre),
			SocialMedia: strings.TrimSpace(req.SocialMedia),
			SetLink:     strings.TrimSpace(req.SetLink),
			Message:     req.About,
		},
	}

	if err := s.sender.Send(ctx, send); err != nil {
		s.logger.Warn("dj application email failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, applicationFailedMessage)
	}

	s.logger.Info("dj application sent", zap.String("genre", send.TemplateParams.Genre))
	return &dto.DJApplicationResponse{Sent: true}, nil
}
