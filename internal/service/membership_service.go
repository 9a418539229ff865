package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/dto"
	"github.com/slutstation/slutstation-web/internal/models"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

const (
	termsNotAcceptedMessage   = "You must accept the Bylaws & Personal Data Handling Policy."
	registrationFailedMessage = "Registration failed."
	defaultGenderID           = "3"
)

var genderIDs = map[string]string{
	"female":            "1",
	"male":              "2",
	"other":             "3",
	"prefer-not-to-say": "3",
}

type membershipRegistry interface {
	Submit(ctx context.Context, submission models.MembershipSubmission) (models.MembershipResult, error)
}

// MembershipService registers members with the external membership registry.
type MembershipService struct {
	registry  membershipRegistry
	apiKey    string
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMembershipService constructs the service. An empty apiKey leaves
// registration unavailable.
func NewMembershipService(registry membershipRegistry, apiKey string, validate *validator.Validate, logger *zap.Logger) *MembershipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MembershipService{registry: registry, apiKey: apiKey, validator: validate, logger: logger, now: time.Now}
	svc.validator.RegisterValidation("day_of_month", func(fl validator.FieldLevel) bool {
		_, ok := parseDatePart(fl.Field().String(), 1, 31)
		return ok
	})
	svc.validator.RegisterValidation("month_of_year", func(fl validator.FieldLevel) bool {
		_, ok := parseDatePart(fl.Field().String(), 1, 12)
		return ok
	})
	svc.validator.RegisterStructValidation(validateBirthDate, dto.MembershipRequest{})
	return svc
}

// Configured reports whether registrations can be forwarded.
func (s *MembershipService) Configured() bool {
	return s.apiKey != "" && s.registry != nil
}

// Register validates the form and submits it to the registry.
func (s *MembershipService) Register(ctx context.Context, req dto.MembershipRequest) (*dto.MembershipResponse, error) {
	if !s.Configured() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "membership registration is not configured")
	}
	if !req.AcceptTerms {
		return nil, appErrors.Clone(appErrors.ErrValidation, termsNotAcceptedMessage)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid membership payload")
	}

	submission := models.MembershipSubmission{
		APIKey: s.apiKey,
		Member: s.memberRecord(req),
	}

	result, err := s.registry.Submit(ctx, submission)
	if err != nil {
		s.logger.Warn("membership registry unreachable", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("Network error: %v", err))
	}

	if result.StatusCode >= 200 && result.StatusCode < 300 && result.StoredMember {
		s.logger.Info("member registered", zap.String("city", submission.Member.City))
		return &dto.MembershipResponse{Stored: true}, nil
	}

	message := registrationFailureMessage(result)
	s.logger.Info("membership registry rejected registration",
		zap.Int("status", result.StatusCode),
		zap.String("reason", message),
	)
	return nil, appErrors.Clone(appErrors.ErrValidation, message)
}

func (s *MembershipService) memberRecord(req dto.MembershipRequest) models.MemberRecord {
	genderID, ok := genderIDs[req.Gender]
	if !ok {
		genderID = defaultGenderID
	}
	day, _ := parseDatePart(req.BirthDay, 1, 31)
	month, _ := parseDatePart(req.BirthMonth, 1, 12)
	return models.MemberRecord{
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		GenderID:             genderID,
		SocialSecurityNumber: fmt.Sprintf("%s%02d%02d", strings.TrimSpace(req.BirthYear), month, day),
		Email:                strings.TrimSpace(req.Email),
		Phone:                strings.TrimSpace(req.Phone),
		Street:               strings.TrimSpace(req.Street),
		ZipCode:              strings.TrimSpace(req.Zip),
		City:                 strings.TrimSpace(req.City),
		Renewed:              s.now().Format("2006-01-02"),
	}
}

// registrationFailureMessage flattens registry errors, then warnings, into one line.
func registrationFailureMessage(result models.MembershipResult) string {
	if len(result.MemberErrors) > 0 {
		fields := make([]string, 0, len(result.MemberErrors))
		for field := range result.MemberErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		messages := make([]string, 0, len(fields))
		for _, field := range fields {
			messages = append(messages, result.MemberErrors[field]...)
		}
		return "Error: " + strings.Join(messages, ", ")
	}
	if len(result.MemberWarnings) > 0 {
		return "Warning: " + strings.Join(result.MemberWarnings, ", ")
	}
	return registrationFailedMessage
}

// validateBirthDate rejects calendar dates that do not exist, such as 31 April.
// Malformed parts are left to their field tags.
func validateBirthDate(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(dto.MembershipRequest)
	if !ok {
		return
	}
	day, dayOK := parseDatePart(req.BirthDay, 1, 31)
	month, monthOK := parseDatePart(req.BirthMonth, 1, 12)
	year, yearOK := parseDatePart(req.BirthYear, 1, 9999)
	if !dayOK || !monthOK || !yearOK {
		return
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		sl.ReportError(req.BirthDay, "BirthDay", "BirthDay", "birth_date", "")
	}
}

// parseDatePart accepts unsigned decimal digits only, so the value can be
// re-rendered at a fixed width.
func parseDatePart(raw string, lo, hi int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 4 {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil && n >= lo && n <= hi
}
