package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
)

// EmailRepository sends template emails through the transactional email REST API.
type EmailRepository struct {
	endpoint string
	client   *http.Client
	metrics  UpstreamObserver
	logger   *zap.Logger
}

// NewEmailRepository constructs the email client.
func NewEmailRepository(endpoint string, client *http.Client, metrics UpstreamObserver, logger *zap.Logger) *EmailRepository {
	if client == nil {
		client = NewHTTPClient(15 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailRepository{endpoint: endpoint, client: client, metrics: metrics, logger: logger}
}

// Send posts the request and succeeds only on a 2xx answer.
func (r *EmailRepository) Send(ctx context.Context, send models.EmailSendRequest) error {
	payload, err := json.Marshal(send)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(0, duration)
		return fmt.Errorf("post email: %w", err)
	}
	defer resp.Body.Close()
	r.observe(resp.StatusCode, duration)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	r.logger.Info("email sent", zap.String("template_id", send.TemplateID))
	return nil
}

func (r *EmailRepository) observe(status int, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveUpstreamRequest("email", status, duration)
	}
}
