// FilePath: internal/edge/connector_test.go
package edge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeHub mimics the hub's ingestion endpoints: connect validates identity,
// update_count records the report and can hand out one reset acknowledgment.
type fakeHub struct {
	mu         sync.Mutex
	key        string
	name       string
	reports    []int
	images     []string
	sendReset  bool
	rejectNext bool
}

func (h *fakeHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["key"] != h.key || req["name"] != h.name {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": "Invalid key or name"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
	})
	mux.HandleFunc("/update_count", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.rejectNext {
			h.rejectNext = false
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": "Client not connected"})
			return
		}
		var req struct {
			Count int    `json:"people_count"`
			Image string `json:"image"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		h.reports = append(h.reports, req.Count)
		h.images = append(h.images, req.Image)

		resp := map[string]string{"status": "OK"}
		if h.sendReset {
			h.sendReset = false
			resp["action"] = "Reset Counter"
		}
		json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func TestConnect(t *testing.T) {
	hub := &fakeHub{key: "unit-key", name: "gate-a"}
	srv := httptest.NewServer(hub.handler())
	defer srv.Close()

	c := NewConnector(srv.URL, "unit-key", "gate-a")
	require.NoError(t, c.Connect(context.Background()))
	require.True(t, c.Connected())
}

func TestConnectRejected(t *testing.T) {
	hub := &fakeHub{key: "unit-key", name: "gate-a"}
	srv := httptest.NewServer(hub.handler())
	defer srv.Close()

	c := NewConnector(srv.URL, "wrong-key", "gate-a")
	err := c.Connect(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid key or name")
	require.False(t, c.Connected())
}

func TestReportAndResetAck(t *testing.T) {
	hub := &fakeHub{key: "unit-key", name: "gate-a", sendReset: true}
	srv := httptest.NewServer(hub.handler())
	defer srv.Close()

	c := NewConnector(srv.URL, "unit-key", "gate-a")
	require.NoError(t, c.Connect(context.Background()))

	reset, err := c.Report(context.Background(), 4, "frame-1")
	require.NoError(t, err)
	require.True(t, reset)

	reset, err = c.Report(context.Background(), 5, "")
	require.NoError(t, err)
	require.False(t, reset)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Equal(t, []int{4, 5}, hub.reports)
	require.Equal(t, []string{"frame-1", ""}, hub.images)
}

func TestFailedReportMarksDisconnected(t *testing.T) {
	hub := &fakeHub{key: "unit-key", name: "gate-a", rejectNext: true}
	srv := httptest.NewServer(hub.handler())
	defer srv.Close()

	c := NewConnector(srv.URL, "unit-key", "gate-a")
	require.NoError(t, c.Connect(context.Background()))

	_, err := c.Report(context.Background(), 2, "")
	require.Error(t, err)
	require.False(t, c.Connected(), "a rejected report forces a re-announce")

	// After reconnecting, reporting works again.
	require.NoError(t, c.Connect(context.Background()))
	_, err = c.Report(context.Background(), 3, "")
	require.NoError(t, err)
}

func TestServerUnreachable(t *testing.T) {
	c := NewConnector("http://127.0.0.1:1", "unit-key", "gate-a")
	require.Error(t, c.Connect(context.Background()))
	require.False(t, c.Connected())
}
