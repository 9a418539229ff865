package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slutstation/slutstation-web/internal/models"
	"github.com/slutstation/slutstation-web/internal/repository"
	"github.com/slutstation/slutstation-web/pkg/config"
)

const (
	maxProxyBodyBytes = 8 << 20

	proxyTargetTicketing  = "proxy_ticketing"
	proxyTargetMembership = "proxy_membership"

	invalidEndpointMessage = "Invalid endpoint. It must be a path starting with /"
)

// ProxyService relays browser calls to third-party APIs that do not send CORS
// headers. Every outcome, including local rejections, is a relayable result.
type ProxyService struct {
	cfg     config.ProxyConfig
	client  *http.Client
	metrics *MetricsService
	logger  *zap.Logger
}

// NewProxyService constructs a ProxyService with sane defaults.
func NewProxyService(cfg config.ProxyConfig, client *http.Client, metrics *MetricsService, logger *zap.Logger) *ProxyService {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = repository.NewHTTPClient(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyService{cfg: cfg, client: client, metrics: metrics, logger: logger}
}

// ForwardTicketing relays a GET or POST to the ticketing API path given in endpoint.
func (s *ProxyService) ForwardTicketing(ctx context.Context, method, endpoint, authorization string, body []byte) models.ProxyResult {
	if method != http.MethodGet && method != http.MethodPost {
		return proxyError(http.StatusMethodNotAllowed, "Method not allowed", "")
	}
	if endpoint == "" {
		return proxyError(http.StatusBadRequest, "No endpoint specified. Usage: billetto-proxy.php?endpoint=/events", "")
	}
	if authorization == "" {
		return proxyError(http.StatusUnauthorized, "No authorization header provided", "")
	}

	target, ok := s.ticketingTarget(endpoint)
	if !ok {
		return proxyError(http.StatusBadRequest, invalidEndpointMessage, "")
	}
	var payload io.Reader
	if method == http.MethodPost {
		payload = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return proxyError(http.StatusBadGateway, "Proxy error: "+err.Error(), target)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	result, err := s.do(req, proxyTargetTicketing)
	if err != nil {
		return proxyError(http.StatusBadGateway, "Proxy error: "+err.Error(), target)
	}
	return result
}

// ForwardMembership relays a registration body to the membership registry.
func (s *ProxyService) ForwardMembership(ctx context.Context, method string, body []byte) models.ProxyResult {
	if method != http.MethodPost {
		return proxyError(http.StatusMethodNotAllowed, "Method not allowed", "")
	}
	if len(body) == 0 {
		return proxyError(http.StatusBadRequest, "No data received", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.MembershipUpstream, bytes.NewReader(body))
	if err != nil {
		return proxyError(http.StatusBadGateway, "Proxy error: "+err.Error(), "")
	}
	req.Header.Set("Content-Type", "application/json")

	result, err := s.do(req, proxyTargetMembership)
	if err != nil {
		return proxyError(http.StatusBadGateway, "Proxy error: "+err.Error(), "")
	}
	return result
}

// ticketingTarget appends endpoint to the upstream. The result must stay on
// the upstream host so credentials are never sent elsewhere.
func (s *ProxyService) ticketingTarget(endpoint string) (string, bool) {
	if !strings.HasPrefix(endpoint, "/") {
		return "", false
	}
	upstream, err := url.Parse(s.cfg.TicketingUpstream)
	if err != nil {
		return "", false
	}
	target := s.cfg.TicketingUpstream + endpoint
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host != upstream.Host || parsed.Scheme != upstream.Scheme {
		return "", false
	}
	return target, true
}

func (s *ProxyService) do(req *http.Request, target string) (models.ProxyResult, error) {
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveUpstreamRequest(target, 0, time.Since(start))
		s.logger.Warn("proxy upstream failed", zap.String("target", target), zap.Error(err))
		return models.ProxyResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBodyBytes))
	s.metrics.ObserveUpstreamRequest(target, resp.StatusCode, time.Since(start))
	if err != nil {
		s.logger.Warn("proxy upstream read failed", zap.String("target", target), zap.Error(err))
		return models.ProxyResult{}, err
	}

	s.logger.Debug("proxy relayed", zap.String("target", target), zap.Int("status", resp.StatusCode))
	return models.ProxyResult{Status: resp.StatusCode, Body: body}, nil
}

type proxyErrorBody struct {
	Error    string `json:"error"`
	Endpoint string `json:"endpoint,omitempty"`
}

func proxyError(status int, message, endpoint string) models.ProxyResult {
	body, err := json.Marshal(proxyErrorBody{Error: message, Endpoint: endpoint})
	if err != nil {
		body = []byte(`{"error":"Proxy error"}`)
	}
	return models.ProxyResult{Status: status, Body: body}
}
