package repository

import (
	"net"
	"net/http"
	"time"
)

// CacheObserver receives cache lookup outcomes.
type CacheObserver interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// UpstreamObserver receives the outcome of every outbound call. Status is 0
// when no response was received.
type UpstreamObserver interface {
	ObserveUpstreamRequest(target string, status int, duration time.Duration)
}

// NewHTTPClient returns the client used for outbound calls to third-party APIs.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
