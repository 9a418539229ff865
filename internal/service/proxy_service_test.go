package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slutstation/slutstation-web/pkg/config"
)

func TestProxyServiceForwardTicketing(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAgent, gotMethod, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"upstream":true}`))
	}))
	defer upstream.Close()

	svc := NewProxyService(config.ProxyConfig{TicketingUpstream: upstream.URL}, upstream.Client(), nil, nil)

	result := svc.ForwardTicketing(context.Background(), http.MethodPost, "/events?page=2", "Bearer abc", []byte(`{"q":1}`))
	assert.Equal(t, http.StatusTeapot, result.Status)
	assert.JSONEq(t, `{"upstream":true}`, string(result.Body))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/events", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "Mozilla/5.0", gotAgent)
	assert.Equal(t, `{"q":1}`, gotBody)

	svc.ForwardTicketing(context.Background(), http.MethodGet, "/events", "Bearer abc", []byte("ignored"))
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Empty(t, gotBody)
}

func TestProxyServiceTicketingRejections(t *testing.T) {
	svc := NewProxyService(config.ProxyConfig{TicketingUpstream: "http://127.0.0.1:1"}, nil, nil, nil)
	ctx := context.Background()

	methodRes := svc.ForwardTicketing(ctx, http.MethodDelete, "/events", "Bearer abc", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, methodRes.Status)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, string(methodRes.Body))

	endpointRes := svc.ForwardTicketing(ctx, http.MethodGet, "", "Bearer abc", nil)
	assert.Equal(t, http.StatusBadRequest, endpointRes.Status)
	assert.JSONEq(t, `{"error":"No endpoint specified. Usage: billetto-proxy.php?endpoint=/events"}`, string(endpointRes.Body))

	authRes := svc.ForwardTicketing(ctx, http.MethodGet, "/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, authRes.Status)
	assert.JSONEq(t, `{"error":"No authorization header provided"}`, string(authRes.Body))
}

func TestProxyServiceTicketingKeepsUpstreamHost(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	svc := NewProxyService(config.ProxyConfig{TicketingUpstream: upstream.URL}, upstream.Client(), nil, nil)
	for _, endpoint := range []string{".evil.com/events", "@evil.com/events", "events", "http://evil.com/events"} {
		result := svc.ForwardTicketing(context.Background(), http.MethodGet, endpoint, "Bearer abc", nil)
		assert.Equal(t, http.StatusBadRequest, result.Status, endpoint)
		assert.JSONEq(t, `{"error":"Invalid endpoint. It must be a path starting with /"}`, string(result.Body), endpoint)
	}
	assert.Zero(t, calls)

	ok := svc.ForwardTicketing(context.Background(), http.MethodGet, "//events", "Bearer abc", nil)
	assert.Equal(t, http.StatusOK, ok.Status)
	assert.Equal(t, 1, calls)
}

func TestProxyServiceDefaultClientIsTuned(t *testing.T) {
	svc := NewProxyService(config.ProxyConfig{Timeout: 7 * time.Second}, nil, nil, nil)

	assert.Equal(t, 7*time.Second, svc.client.Timeout)
	transport, ok := svc.client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, transport.TLSHandshakeTimeout)
}

func TestProxyServiceTicketingTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := upstream.URL
	upstream.Close()

	svc := NewProxyService(config.ProxyConfig{TicketingUpstream: base}, nil, NewMetricsService(), nil)
	result := svc.ForwardTicketing(context.Background(), http.MethodGet, "/events", "Bearer abc", nil)

	require.Equal(t, http.StatusBadGateway, result.Status)
	assert.Contains(t, string(result.Body), `"error":"Proxy error: `)
	assert.Contains(t, string(result.Body), `"endpoint":"`+base+`/events"`)
}

func TestProxyServiceForwardMembership(t *testing.T) {
	var gotBody, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"stored_member":true}`))
	}))
	defer upstream.Close()

	svc := NewProxyService(config.ProxyConfig{MembershipUpstream: upstream.URL}, upstream.Client(), nil, nil)
	result := svc.ForwardMembership(context.Background(), http.MethodPost, []byte(`{"api_key":"k"}`))

	assert.Equal(t, http.StatusOK, result.Status)
	assert.JSONEq(t, `{"stored_member":true}`, string(result.Body))
	assert.Equal(t, `{"api_key":"k"}`, gotBody)
	assert.Equal(t, "application/json", gotType)
}

func TestProxyServiceMembershipRejections(t *testing.T) {
	svc := NewProxyService(config.ProxyConfig{MembershipUpstream: "http://127.0.0.1:1"}, nil, nil, nil)
	ctx := context.Background()

	methodRes := svc.ForwardMembership(ctx, http.MethodGet, []byte("x"))
	assert.Equal(t, http.StatusMethodNotAllowed, methodRes.Status)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, string(methodRes.Body))

	emptyRes := svc.ForwardMembership(ctx, http.MethodPost, nil)
	assert.Equal(t, http.StatusBadRequest, emptyRes.Status)
	assert.JSONEq(t, `{"error":"No data received"}`, string(emptyRes.Body))

	failed := svc.ForwardMembership(ctx, http.MethodPost, []byte(`{}`))
	assert.Equal(t, http.StatusBadGateway, failed.Status)
	assert.NotContains(t, string(failed.Body), "endpoint")
}
