package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/models"
)

const maxProxyRequestBytes = 1 << 20

type proxyService interface {
	ForwardTicketing(ctx context.Context, method, endpoint, authorization string, body []byte) models.ProxyResult
	ForwardMembership(ctx context.Context, method string, body []byte) models.ProxyResult
}

// ProxyHandler serves the open CORS forwarders used by the browser build.
// Responses are relayed without the API envelope.
type ProxyHandler struct {
	service proxyService
}

// NewProxyHandler builds a new handler.
func NewProxyHandler(service proxyService) *ProxyHandler {
	return &ProxyHandler{service: service}
}

// Ticketing godoc
// @Summary Forward a call to the ticketing API
// @Tags Proxy
// @Produce json
// @Param endpoint query string true "Ticketing API path, e.g. /events"
// @Param Authorization header string true "Credentials passed through to the ticketing API"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 401 {object} object
// @Failure 502 {object} object
// @Router /proxy/ticketing [get]
func (h *ProxyHandler) Ticketing(c *gin.Context) {
	setProxyHeaders(c, "GET, POST, OPTIONS", "Content-Type, Authorization, X-Requested-With")
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}

	var body []byte
	if c.Request.Method == http.MethodPost {
		body = readProxyBody(c)
	}
	result := h.service.ForwardTicketing(c.Request.Context(), c.Request.Method, c.Query("endpoint"), c.GetHeader("Authorization"), body)
	writeProxyResult(c, result)
}

// Membership godoc
// @Summary Forward a registration to the membership registry
// @Tags Proxy
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 502 {object} object
// @Router /proxy/membership [post]
func (h *ProxyHandler) Membership(c *gin.Context) {
	setProxyHeaders(c, "POST, OPTIONS", "Content-Type")
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}

	var body []byte
	if c.Request.Method == http.MethodPost {
		body = readProxyBody(c)
	}
	writeProxyResult(c, h.service.ForwardMembership(c.Request.Context(), c.Request.Method, body))
}

func setProxyHeaders(c *gin.Context, methods, headers string) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", methods)
	c.Header("Access-Control-Allow-Headers", headers)
	c.Header("Content-Type", "application/json")
}

func readProxyBody(c *gin.Context) []byte {
	if c.Request.Body == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProxyRequestBytes))
	if err != nil {
		_ = c.Error(err)
		return nil
	}
	return body
}

func writeProxyResult(c *gin.Context, result models.ProxyResult) {
	status := result.Status
	if status == 0 {
		status = http.StatusBadGateway
	}
	c.Data(status, "application/json", result.Body)
}
