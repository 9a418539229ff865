package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
	"github.com/slutstation/slutstation-web/pkg/config"
)

const (
	activeEventsPath    = "/organiser/events?state=active"
	completedEventsPath = "/organiser/events?state=completed&starts_after=2021-02-10T23%3A00%3A00.000Z"
	publicEventPath     = "/public/events/"

	maxEventPayloadBytes = 8 << 20
)

type completedEventsCache interface {
	ReadIfFresh(ctx context.Context) ([]models.RemoteEvent, bool)
	Store(ctx context.Context, events []models.RemoteEvent)
}

// EventSourceRepository reads events from the ticketing API. Failures are
// logged and reported through the Available flag of the result; nothing
// is retried.
type EventSourceRepository struct {
	cfg     config.BillettoConfig
	client  *http.Client
	cache   completedEventsCache
	metrics UpstreamObserver
	logger  *zap.Logger
}

// NewEventSourceRepository constructs the ticketing client. A nil client gets
// one with the configured timeout.
func NewEventSourceRepository(cfg config.BillettoConfig, client *http.Client, cache completedEventsCache, metrics UpstreamObserver, logger *zap.Logger) *EventSourceRepository {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = NewHTTPClient(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventSourceRepository{cfg: cfg, client: client, cache: cache, metrics: metrics, logger: logger}
}

// IsConfigured reports whether both credential values are present.
func (r *EventSourceRepository) IsConfigured() bool {
	return r.cfg.Configured()
}

type eventListEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

type eventEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// FetchActiveEvents lists events that have not completed yet.
func (r *EventSourceRepository) FetchActiveEvents(ctx context.Context) models.SourceResult {
	return r.fetchList(ctx, "billetto_active", activeEventsPath)
}

// FetchCompletedEvents lists completed events, served from the cache while it is fresh.
func (r *EventSourceRepository) FetchCompletedEvents(ctx context.Context) models.SourceResult {
	if r.cache != nil {
		if events, ok := r.cache.ReadIfFresh(ctx); ok {
			r.logger.Debug("completed events served from cache", zap.Int("count", len(events)))
			return models.SourceResult{Events: events, Available: true}
		}
	}

	result := r.fetchList(ctx, "billetto_completed", completedEventsPath)
	if result.Available && r.cache != nil {
		r.cache.Store(ctx, result.Events)
	}
	return result
}

// FetchEventByID looks up one event on the public endpoint.
func (r *EventSourceRepository) FetchEventByID(ctx context.Context, id string) models.SourceRecord {
	if id == "" {
		return models.SourceRecord{}
	}
	body, ok := r.get(ctx, "billetto_event", publicEventPath+url.PathEscape(id))
	if !ok {
		return models.SourceRecord{}
	}

	raw := body
	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		trimmed := bytes.TrimSpace(envelope.Data)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			raw = trimmed
		}
	}

	var event models.RemoteEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		r.logger.Warn("ticketing event decode failed", zap.String("event_id", id), zap.Error(err))
		return models.SourceRecord{}
	}
	if event.ID == "" {
		r.logger.Warn("ticketing event without id", zap.String("event_id", id))
		return models.SourceRecord{}
	}
	return models.SourceRecord{Event: event, Available: true}
}

func (r *EventSourceRepository) fetchList(ctx context.Context, target, path string) models.SourceResult {
	body, ok := r.get(ctx, target, path)
	if !ok {
		return models.SourceResult{}
	}

	var envelope eventListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		r.logger.Warn("ticketing list decode failed", zap.String("target", target), zap.Error(err))
		return models.SourceResult{}
	}

	events := make([]models.RemoteEvent, 0, len(envelope.Data))
	skipped := 0
	for i, raw := range envelope.Data {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		var event models.RemoteEvent
		if err := json.Unmarshal(trimmed, &event); err != nil {
			skipped++
			r.logger.Warn("ticketing record skipped", zap.String("target", target), zap.Int("position", i), zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	r.logger.Info("ticketing events loaded",
		zap.String("target", target),
		zap.Int("count", len(events)),
		zap.Int("skipped", skipped),
	)
	return models.SourceResult{Events: events, Available: true}
}

// get performs one authenticated GET and returns the body of a 2xx response.
func (r *EventSourceRepository) get(ctx context.Context, target, path string) ([]byte, bool) {
	endpoint := r.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		r.logger.Warn("ticketing request build failed", zap.String("target", target), zap.Error(err))
		return nil, false
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Api-Keypair", fmt.Sprintf("%s:%s", r.cfg.APIKey, r.cfg.ClientSecret))
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(target, 0, duration)
		r.logger.Warn("ticketing request failed", zap.String("target", target), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()
	r.observe(target, resp.StatusCode, duration)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxEventPayloadBytes))
		r.logger.Warn("ticketing request rejected",
			zap.String("target", target),
			zap.Int("status", resp.StatusCode),
		)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEventPayloadBytes))
	if err != nil {
		r.logger.Warn("ticketing response read failed", zap.String("target", target), zap.Error(err))
		return nil, false
	}
	return body, true
}

func (r *EventSourceRepository) observe(target string, status int, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveUpstreamRequest(target, status, duration)
	}
}
