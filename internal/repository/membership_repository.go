package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
)

const maxRegistryResponseBytes = 1 << 20

// MembershipRepository posts member records to the membership registry.
type MembershipRepository struct {
	endpoint string
	client   *http.Client
	metrics  UpstreamObserver
	logger   *zap.Logger
}

// NewMembershipRepository constructs the registry client.
func NewMembershipRepository(endpoint string, client *http.Client, metrics UpstreamObserver, logger *zap.Logger) *MembershipRepository {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipRepository{endpoint: endpoint, client: client, metrics: metrics, logger: logger}
}

// Submit sends one registration. A non-nil error means no usable answer was
// received; registry-side rejections come back in the result.
func (r *MembershipRepository) Submit(ctx context.Context, submission models.MembershipSubmission) (models.MembershipResult, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return models.MembershipResult{}, fmt.Errorf("marshal membership submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.MembershipResult{}, fmt.Errorf("build membership request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(0, duration)
		return models.MembershipResult{}, fmt.Errorf("post membership: %w", err)
	}
	defer resp.Body.Close()
	r.observe(resp.StatusCode, duration)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistryResponseBytes))
	if err != nil {
		return models.MembershipResult{}, fmt.Errorf("read membership response: %w", err)
	}

	var result models.MembershipResult
	if err := json.Unmarshal(body, &result); err != nil {
		return models.MembershipResult{}, fmt.Errorf("decode membership response (status %d): %w", resp.StatusCode, err)
	}
	result.StatusCode = resp.StatusCode

	r.logger.Info("membership registry answered",
		zap.Int("status", resp.StatusCode),
		zap.Bool("stored", result.StoredMember),
	)
	return result, nil
}

func (r *MembershipRepository) observe(status int, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveUpstreamRequest("membership_registry", status, duration)
	}
}
