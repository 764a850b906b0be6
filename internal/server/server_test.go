package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/server"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/tournevent/booking/pkg/booking/memory"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, store booking.Store) *httptest.Server {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	srv, err := server.New(server.Config{Port: 0, PlaygroundEnabled: true, SaltRounds: bcrypt.MinCost}, store, &actor.Default{}, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type gqlResponse struct {
	Data   map[string]any   `json:"data"`
	Errors []map[string]any `json:"errors"`
}

func postGraphQL(t *testing.T, ts *httptest.Server, query string, vars map[string]any) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/graphql", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, memory.New())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

type unreachableStore struct{ booking.Store }

func (unreachableStore) Ping(context.Context) error {
	return booking.StoreFailure("ping", errors.New("connection refused"))
}

func TestServer_Health_StoreDown(t *testing.T) {
	ts := newTestServer(t, unreachableStore{memory.New()})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_RequestIDPropagated(t *testing.T) {
	ts := newTestServer(t, memory.New())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}

func TestServer_GraphQL_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, memory.New())

	resp, err := http.Get(ts.URL + "/graphql")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Errors, 1)
}

func TestServer_GraphQL_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, memory.New())

	resp, err := http.Post(ts.URL+"/graphql", "application/json", strings.NewReader("invalid json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Playground(t *testing.T) {
	ts := newTestServer(t, memory.New())

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, memory.New())
	postGraphQL(t, ts, `{ events { _id } }`, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `booking_operations_total{operation="events",status="success"} 1`)
}

func TestServer_EndToEnd(t *testing.T) {
	ts := newTestServer(t, memory.New())

	out := postGraphQL(t, ts, `mutation { createUser(userInput: {email: "a@x.com", password: "pw"}) { _id email password } }`, nil)
	require.Empty(t, out.Errors)
	assert.Nil(t, out.Data["createUser"].(map[string]any)["password"])

	out = postGraphQL(t, ts, `mutation($in: EventInput) { createEvent(eventInput: $in) { _id } }`, map[string]any{
		"in": map[string]any{"title": "T", "description": "D", "price": 9.99, "date": "2026-05-01T19:00:00Z"},
	})
	require.Empty(t, out.Errors)

	out = postGraphQL(t, ts, `{ events { _id title creator { email } } }`, nil)
	require.Empty(t, out.Errors)
	events := out.Data["events"].([]any)
	require.Len(t, events, 1)
	event := events[0].(map[string]any)
	assert.Equal(t, "a@x.com", event["creator"].(map[string]any)["email"])

	out = postGraphQL(t, ts, `mutation($id: ID!) { bookEvent(eventId: $id) { _id } }`, map[string]any{"id": event["_id"]})
	require.Empty(t, out.Errors)

	out = postGraphQL(t, ts, `{ bookings { _id event { title } } }`, nil)
	require.Empty(t, out.Errors)
	bookings := out.Data["bookings"].([]any)
	require.Len(t, bookings, 1)
	b := bookings[0].(map[string]any)
	assert.Equal(t, "T", b["event"].(map[string]any)["title"])

	out = postGraphQL(t, ts, `mutation($id: ID!) { cancelBooking(bookingId: $id) { title } }`, map[string]any{"id": b["_id"]})
	require.Empty(t, out.Errors)
	assert.Equal(t, "T", out.Data["cancelBooking"].(map[string]any)["title"])

	out = postGraphQL(t, ts, `{ bookings { _id } }`, nil)
	require.Empty(t, out.Errors)
	assert.Empty(t, out.Data["bookings"])
}
