package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luckybot/adminview/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestClientCall(t *testing.T) {
	var gotRequestID, gotToken, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		gotToken = r.URL.Query().Get("token")
		gotPath = r.URL.Path

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{"echo": body["name"]})
	}))
	defer server.Close()

	gen := NewGenerator(server.URL)
	resp, err := gen.New("/api/lottery/%s", "abc123").
		Body(JSON{"name": "Mug"}).
		POST(context.Background(), EditToken("tok"))

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "/api/lottery/abc123", gotPath)
	require.Equal(t, "tok", gotToken)
	require.NotEmpty(t, gotRequestID)

	echo, err := resp.Body.(JSON).GetString("echo")
	require.NoError(t, err)
	require.Equal(t, "Mug", echo)
}

func TestClientFailover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	dead := httptest.NewServer(http.HandlerFunc(nil))
	dead.Close()

	gen := NewGenerator(dead.URL, server.URL)
	resp, err := gen.New("/api/stats").GET(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestClientAllEndpointsDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(nil))
	dead.Close()

	gen := NewGenerator(dead.URL)
	_, err := gen.New("/api/stats").GET(context.Background())
	require.Error(t, err)
}

func TestClientAbortDoesNotFailOver(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator(server.URL, server.URL)
	_, err := gen.New("/api/stats").GET(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, calls)
}

func TestClientTimeoutNotSwallowed(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()

	var fallbackCalls int
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackCalls++
		w.Write([]byte(`{}`))
	}))
	defer fast.Close()

	ctx := xcontext.WithHTTPClient(context.Background(),
		&http.Client{Timeout: 20 * time.Millisecond})

	gen := NewGenerator(slow.URL, fast.URL)
	_, err := gen.New("/api/stats").GET(ctx)

	// The timeout comes back as-is for classification instead of
	// dissolving into the generic endpoints failure.
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	require.True(t, ne.Timeout())
	require.Equal(t, 0, fallbackCalls)
}

func TestParameterEncode(t *testing.T) {
	p := Parameter{"b": "2", "a": "x y"}
	require.Equal(t, "a=x%20y&b=2", p.Encode())
}

func TestResponseDecode(t *testing.T) {
	type Meta struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	type outer struct {
		Meta
		Count int       `json:"count"`
		At    time.Time `json:"at"`
	}

	resp := &Response{Body: JSON{
		"id":    "abc123",
		"title": "Launch party",
		"count": float64(3),
		"at":    "2024-06-01T12:00:00Z",
	}}

	out := outer{}
	require.NoError(t, resp.Decode(&out))
	require.Equal(t, "abc123", out.ID, "embedded fields decode from the flat body")
	require.Equal(t, "Launch party", out.Title)
	require.Equal(t, 3, out.Count)
	require.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), out.At)
}

func TestResponseDecodeArray(t *testing.T) {
	type row struct {
		UserID int64 `json:"user_id"`
	}

	resp := &Response{Body: Array{
		map[string]any{"user_id": float64(7)},
		map[string]any{"user_id": float64(8)},
	}}

	var rows []row
	require.NoError(t, resp.Decode(&rows))
	require.Len(t, rows, 2)
	require.Equal(t, int64(8), rows[1].UserID)
}
