package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slutstation/slutstation-web/pkg/config"
)

type upstreamObserverStub struct {
	targets  []string
	statuses []int
}

func (s *upstreamObserverStub) ObserveUpstreamRequest(target string, status int, _ time.Duration) {
	s.targets = append(s.targets, target)
	s.statuses = append(s.statuses, status)
}

func testBillettoConfig(baseURL string) config.BillettoConfig {
	return config.BillettoConfig{BaseURL: baseURL, APIKey: "key-id", ClientSecret: "secret", OrganizerID: "4429536"}
}

func TestEventSourceRepositorySendsCredentialHeaders(t *testing.T) {
	var gotPath, gotQuery, gotKeypair, gotRequestedWith, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKeypair = r.Header.Get("Api-Keypair")
		gotRequestedWith = r.Header.Get("X-Requested-With")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":42,"name":"Fredagen"}],"has_more":false}`))
	}))
	defer server.Close()

	metrics := &upstreamObserverStub{}
	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, metrics, nil)
	result := repo.FetchActiveEvents(context.Background())

	require.True(t, result.Available)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "42", result.Events[0].ID.String())
	assert.Equal(t, "/organiser/events", gotPath)
	assert.Equal(t, "state=active", gotQuery)
	assert.Equal(t, "key-id:secret", gotKeypair)
	assert.Equal(t, "XMLHttpRequest", gotRequestedWith)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, []string{"billetto_active"}, metrics.targets)
	assert.Equal(t, []int{http.StatusOK}, metrics.statuses)
}

func TestEventSourceRepositoryUnavailableOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad keypair"}`))
	}))
	defer server.Close()

	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, nil, nil)
	result := repo.FetchActiveEvents(context.Background())
	assert.False(t, result.Available)
	assert.Empty(t, result.Events)
}

func TestEventSourceRepositoryUnavailableOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	metrics := &upstreamObserverStub{}
	repo := NewEventSourceRepository(testBillettoConfig(baseURL), nil, nil, metrics, nil)
	result := repo.FetchActiveEvents(context.Background())
	assert.False(t, result.Available)
	assert.Equal(t, []int{0}, metrics.statuses)
}

func TestEventSourceRepositoryUnavailableOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, nil, nil)
	assert.False(t, repo.FetchActiveEvents(context.Background()).Available)
}

func TestEventSourceRepositoryMissingDataIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list"}`))
	}))
	defer server.Close()

	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, nil, nil)
	result := repo.FetchActiveEvents(context.Background())
	assert.True(t, result.Available)
	assert.NotNil(t, result.Events)
	assert.Empty(t, result.Events)
}

func TestEventSourceRepositoryCompletedEventsAreCached(t *testing.T) {
	var calls int32
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[{"id":"7","name":"Lastpath","starts_at":"2024-03-01T22:00:00Z"}]}`))
	}))
	defer server.Close()

	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	cache := NewEventCache(NewMemoryCacheRepository(), 5*time.Minute, nil, clock.Now, nil)
	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), cache, nil, nil)
	ctx := context.Background()

	first := repo.FetchCompletedEvents(ctx)
	clock.Advance(2 * time.Minute)
	second := repo.FetchCompletedEvents(ctx)

	require.True(t, first.Available)
	require.True(t, second.Available)
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "state=completed&starts_after=2021-02-10T23%3A00%3A00.000Z", gotQuery)

	clock.Advance(3 * time.Minute)
	third := repo.FetchCompletedEvents(ctx)
	require.True(t, third.Available)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEventSourceRepositoryFailedCompletedFetchIsNotCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	cache := NewEventCache(NewMemoryCacheRepository(), time.Minute, nil, nil, nil)
	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), cache, nil, nil)

	assert.False(t, repo.FetchCompletedEvents(context.Background()).Available)
	assert.True(t, repo.FetchCompletedEvents(context.Background()).Available)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEventSourceRepositoryFetchEventByID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		switch r.URL.Path {
		case "/public/events/42":
			_, _ = w.Write([]byte(`{"data":{"id":"42","name":"Storsta","location":"loc-1"}}`))
		case "/public/events/43":
			_, _ = w.Write([]byte(`{"id":43,"name":"Bare"}`))
		case "/public/events/44":
			_, _ = w.Write([]byte(`{"data":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, nil, nil)
	ctx := context.Background()

	wrapped := repo.FetchEventByID(ctx, "42")
	require.True(t, wrapped.Available)
	assert.Equal(t, "Storsta", wrapped.Event.Name)
	require.NotNil(t, wrapped.Event.Location)
	assert.Equal(t, "loc-1", wrapped.Event.Location.Ref)

	bare := repo.FetchEventByID(ctx, "43")
	require.True(t, bare.Available)
	assert.Equal(t, "43", bare.Event.ID.String())

	assert.False(t, repo.FetchEventByID(ctx, "44").Available)
	assert.False(t, repo.FetchEventByID(ctx, "missing").Available)
	assert.False(t, repo.FetchEventByID(ctx, "").Available)

	repo.FetchEventByID(ctx, "a/b")
	assert.Equal(t, "/public/events/a%2Fb", gotPath)
}

func TestEventSourceRepositoryIsConfigured(t *testing.T) {
	assert.True(t, NewEventSourceRepository(testBillettoConfig("http://x"), nil, nil, nil, nil).IsConfigured())
	assert.False(t, NewEventSourceRepository(config.BillettoConfig{APIKey: "k", OrganizerID: "1"}, nil, nil, nil, nil).IsConfigured())
	assert.True(t, NewEventSourceRepository(config.BillettoConfig{APIKey: "k", ClientSecret: "s"}, nil, nil, nil, nil).IsConfigured())
}

func TestEventSourceRepositoryOddRecordKeepsListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"1","name":"Fredagen"},
			{"id":"2","ticket_types":[{"price":{"amount":100}}]},
			{"id":"3","location":true},
			{"id":"4","name":42},
			"not-an-event",
			null
		]}`))
	}))
	defer server.Close()

	repo := NewEventSourceRepository(testBillettoConfig(server.URL), server.Client(), nil, nil, nil)
	result := repo.FetchActiveEvents(context.Background())

	require.True(t, result.Available)
	require.Len(t, result.Events, 4)
	assert.Equal(t, "Fredagen", result.Events[0].Name)
	assert.Equal(t, "2", result.Events[1].ID.String())
	require.Len(t, result.Events[1].TicketTypes, 1)
	assert.Empty(t, result.Events[1].TicketTypes[0].Price)
	require.NotNil(t, result.Events[2].Location)
	assert.False(t, result.Events[2].Location.Structured)
	assert.Equal(t, "42", result.Events[3].Name)
}
