package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slutstation/slutstation-web/internal/models"
)

type proxyServiceMock struct {
	method        string
	endpoint      string
	authorization string
	body          string
	calls         int
	result        models.ProxyResult
}

func (m *proxyServiceMock) ForwardTicketing(_ context.Context, method, endpoint, authorization string, body []byte) models.ProxyResult {
	m.calls++
	m.method, m.endpoint, m.authorization, m.body = method, endpoint, authorization, string(body)
	return m.result
}

func (m *proxyServiceMock) ForwardMembership(_ context.Context, method string, body []byte) models.ProxyResult {
	m.calls++
	m.method, m.body = method, string(body)
	return m.result
}

func newProxyRouter(svc proxyService) *gin.Engine {
	handler := NewProxyHandler(svc)
	router := gin.New()
	router.Any("/proxy/ticketing", handler.Ticketing)
	router.Any("/proxy/membership", handler.Membership)
	return router
}

func TestProxyHandlerTicketingForwards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &proxyServiceMock{result: models.ProxyResult{Status: http.StatusOK, Body: []byte(`{"data":[]}`)}}
	router := newProxyRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/proxy/ticketing?endpoint=/organiser/events", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":[]}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "/organiser/events", svc.endpoint)
	assert.Equal(t, "Basic abc", svc.authorization)
	assert.Empty(t, svc.body)
}

func TestProxyHandlerPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &proxyServiceMock{}
	router := newProxyRouter(svc)

	for _, target := range []string{"/proxy/ticketing", "/proxy/membership"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, target, nil))
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), target)
	}
	assert.Zero(t, svc.calls)
}

func TestProxyHandlerMembershipBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &proxyServiceMock{result: models.ProxyResult{Status: http.StatusCreated, Body: []byte(`{"stored_member":true}`)}}
	router := newProxyRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/proxy/membership", strings.NewReader(`{"api_key":"k"}`)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, `{"api_key":"k"}`, svc.body)
}

func TestProxyHandlerZeroStatusIsBadGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newProxyRouter(&proxyServiceMock{result: models.ProxyResult{Body: []byte(`{"error":"Proxy error"}`)}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/membership", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
