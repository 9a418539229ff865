package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

const adminTokenIssuer = "slutstation-web"

// AuthService issues and validates the bearer tokens guarding maintenance routes.
type AuthService struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService constructs the service. An empty secret disables admin access.
func NewAuthService(secret string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{secret: []byte(secret), logger: logger, now: time.Now}
}

// Enabled reports whether a signing secret is configured.
func (s *AuthService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// IssueAdminToken signs an admin token valid for ttl.
func (s *AuthService) IssueAdminToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrNotConfigured, "admin access is not configured")
	}
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(ttl)
	claims := &models.AdminClaims{
		Role: models.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    adminTokenIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses an admin token and checks its role.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "admin access is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role != models.AdminRole {
		s.logger.Warn("token without admin role rejected", zap.String("subject", claims.Subject))
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	return claims, nil
}
