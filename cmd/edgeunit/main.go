// FilePath: cmd/edgeunit/main.go
//
// edgeunit runs the hub-facing side of a camera unit. It reads tracker
// observations as NDJSON from stdin (one {"track_id","x","y","boundary"?}
// object per line), feeds them through the boundary-crossing counter and
// reports the running count to the hub on the configured interval.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartflowpark/hub/internal/config"
	"github.com/smartflowpark/hub/internal/counter"
	"github.com/smartflowpark/hub/internal/edge"
	nuts "github.com/vaudience/go-nuts"
)

type observation struct {
	TrackID  int     `json:"track_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Boundary *struct {
		A counter.Point `json:"a"`
		B counter.Point `json:"b"`
	} `json:"boundary"`
	ClearBoundary bool `json:"clear_boundary"`
}

func main() {
	nuts.InitVersion()
	nuts.L.Infof("[EdgeUnit] Starting SmartFlowPark edge unit v%s", nuts.GetVersion())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Edge.Key == "" || cfg.Edge.Name == "" {
		log.Fatalf("edge key and name are required (SFP_EDGE__KEY, SFP_EDGE__NAME)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	cnt := counter.New(counter.LeftToRight)
	connector := edge.NewConnector(cfg.Edge.ServerURL, cfg.Edge.Key, cfg.Edge.Name)

	if err := connector.Connect(ctx); err != nil {
		nuts.L.Errorf("[EdgeUnit] Initial connect failed, will retry: %v", err)
	}

	go func() {
		// Every 10th report carries a frame in deployments with a camera
		// attached; this binary has no camera, so images stays nil.
		err := connector.Run(ctx, cnt, nil, cfg.Edge.ReportInterval, 10)
		if err != nil && err != context.Canceled {
			nuts.L.Errorf("[EdgeUnit] Report loop stopped: %v", err)
		}
	}()

	consumeObservations(ctx, cnt)
	nuts.L.Infof("[EdgeUnit] Shutting down")
}

// consumeObservations reads tracker output line by line until stdin closes or
// ctx is done. Malformed lines are logged and skipped.
func consumeObservations(ctx context.Context, cnt *counter.Counter) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var obs observation
		if err := json.Unmarshal(line, &obs); err != nil {
			nuts.L.Errorf("[EdgeUnit] Dropping malformed observation: %v", err)
			continue
		}

		if obs.ClearBoundary {
			cnt.ClearBoundary()
			continue
		}
		if obs.Boundary != nil {
			cnt.SetBoundary(obs.Boundary.A, obs.Boundary.B)
			continue
		}

		cnt.Observe(obs.TrackID, counter.Point{X: obs.X, Y: obs.Y})
	}

	if err := scanner.Err(); err != nil {
		nuts.L.Errorf("[EdgeUnit] Observation stream error: %v", err)
	}
}
