// FilePath: internal/edge/connector.go
//
// The edge connector is the hub-facing half of an edge unit. It announces the
// unit, ships periodic occupancy reports and applies the hub's one-shot reset
// acknowledgment to the local counter. Reports are fire-and-forget: a failed
// delivery marks the connector disconnected and the unit keeps counting, there
// is no replay of missed reports.
package edge

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	nuts "github.com/vaudience/go-nuts"
)

// CountSource is the local people counter the connector reports from.
type CountSource interface {
	Count() int
	Reset()
}

// ImageSource returns the latest camera frame as a base64 data URL, or ""
// when no frame is available.
type ImageSource func() string

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Connector maintains the unit's session with the hub.
type Connector struct {
	client *resty.Client
	key    string
	name   string

	mu        sync.Mutex
	connected bool
}

// NewConnector creates a connector for the unit identified by key and name.
func NewConnector(serverURL, key, name string) *Connector {
	client := resty.New().
		SetBaseURL(serverURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Connector{
		client: client,
		key:    key,
		name:   name,
	}
}

// Connect announces the unit to the hub. The hub resets the unit's live state
// on every announce, so reconnecting after a gap starts from a clean slate.
func (c *Connector) Connect(ctx context.Context) error {
	var result apiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"key": c.key, "name": c.name}).
		SetResult(&result).
		SetError(&result).
		Post("/connect")
	if err != nil {
		c.setConnected(false)
		return fmt.Errorf("connect request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.setConnected(false)
		return fmt.Errorf("connect rejected: %s", result.Message)
	}

	c.setConnected(true)
	nuts.L.Infof("[Edge] Connected as %s_%s", c.key, c.name)
	return nil
}

// Report sends one occupancy report. It returns true when the hub requests a
// counter reset; the caller applies it to the local counter.
func (c *Connector) Report(ctx context.Context, count int, image string) (bool, error) {
	body := map[string]any{
		"key":          c.key,
		"name":         c.name,
		"people_count": count,
	}
	if image != "" {
		body["image"] = image
	}

	var result apiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post("/update_count")
	if err != nil {
		c.setConnected(false)
		return false, fmt.Errorf("report request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.setConnected(false)
		return false, fmt.Errorf("report rejected: %s", result.Message)
	}

	return result.Action == "Reset Counter", nil
}

// Connected reports whether the last hub exchange succeeded.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Connector) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Run reports from source every interval until ctx is done. A frame from
// images (when set) is attached to every imageEvery-th report. Failed reports
// are logged and dropped; the connector re-announces before the next report.
func (c *Connector) Run(ctx context.Context, source CountSource, images ImageSource, interval time.Duration, imageEvery int) error {
	if imageEvery < 1 {
		imageEvery = 1
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !c.Connected() {
			if err := c.Connect(ctx); err != nil {
				nuts.L.Errorf("[Edge] Reconnect failed: %v", err)
				continue
			}
		}

		tick++
		image := ""
		if images != nil && tick%imageEvery == 0 {
			image = images()
		}

		resetRequested, err := c.Report(ctx, source.Count(), image)
		if err != nil {
			nuts.L.Errorf("[Edge] Report failed: %v", err)
			continue
		}
		if resetRequested {
			nuts.L.Infof("[Edge] Hub requested counter reset")
			source.Reset()
		}
	}
}
