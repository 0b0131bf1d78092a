package checker

import (
	"context"

	"github.com/khanhnv2901/relay-diag/internal/console"
	"github.com/khanhnv2901/relay-diag/internal/probe"
	"go.uber.org/zap"
)

// GatewayResult records whether the gateway answered.
type GatewayResult struct {
	OK      bool              `json:"ok"`
	Status  int               `json:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// GatewayChecker probes the relay gateway URL.
type GatewayChecker struct {
	base
}

// NewGatewayChecker wires a GatewayChecker.
func NewGatewayChecker(prober Prober, printer console.Printer, logger *zap.SugaredLogger) *GatewayChecker {
	return &GatewayChecker{base{Prober: prober, Printer: printer, Logger: logger}}
}

// Check probes url once. A response with any status is reachable.
func (g *GatewayChecker) Check(ctx context.Context, url string) GatewayResult {
	printer := g.printer()
	printer.Headingf("Checking gateway URL reachability: %s", url)

	r := g.Prober.Head(ctx, url)
	if r.Failed() {
		printer.Errorf("  Gateway not reachable: %s", r.ErrorMessage())
		g.debugw("gateway unreachable", "check", g.Name(), "url", url, "error", r.Err)
		return GatewayResult{OK: false, Error: r.ErrorMessage()}
	}

	printer.Successf("  Gateway reachable. status= %d", r.Status)
	g.debugw("gateway reachable", "check", g.Name(), "url", url, "status", r.Status)

	return GatewayResult{OK: true, Status: r.Status, Headers: r.Headers}
}

// Name returns the name of this checker
func (g *GatewayChecker) Name() string {
	return "check gateway"
}

var _ Prober = (*probe.Prober)(nil)
