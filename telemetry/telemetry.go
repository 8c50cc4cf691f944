// Package telemetry optionally serves a live statsview dashboard over the
// core's runtime, using github.com/go-echarts/statsview. The teacher
// carries statsview (and its github.com/go-echarts/go-echarts/v2
// dependency) in its go.mod but never actually wires it into any running
// code; this package is its first real consumer in this codebase.
//
// Off by default (spec section 6's ambient-telemetry Non-goal still
// excludes any built-in observability layer from the hart's own
// semantics); when config.Telemetry enables it, the dashboard listens on
// config.TelemetryListen, falling back to the loopback address
// 127.0.0.1:18080 when that is empty. It serves statsview's stock viewer;
// no core counters are published to it.
package telemetry

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/hdl2go/rv32pipe/config"
)

// Dashboard is a running statsview server. A nil *Dashboard is valid and
// Stop is a no-op on it, so callers can unconditionally defer Stop()
// regardless of whether telemetry was enabled.
type Dashboard struct {
	v *statsview.Viewer
}

// Start launches the dashboard if cfg.Telemetry is set, returning nil
// otherwise.
func Start(cfg config.Config) *Dashboard {
	if !cfg.Telemetry {
		return nil
	}

	addr := cfg.TelemetryListen
	if addr == "" {
		addr = "127.0.0.1:18080"
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	v := statsview.New()
	go v.Start()

	return &Dashboard{v: v}
}

// Stop shuts the dashboard down, if one is running.
func (d *Dashboard) Stop() {
	if d == nil || d.v == nil {
		return
	}
	d.v.Stop()
}
