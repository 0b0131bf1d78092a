// Package relay runs the relay diagnostics in order and records the outcome.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/khanhnv2901/relay-diag/internal/checker"
	"github.com/khanhnv2901/relay-diag/internal/console"
	"github.com/khanhnv2901/relay-diag/internal/manifest"
	"github.com/khanhnv2901/relay-diag/internal/probe"
	"github.com/khanhnv2901/relay-diag/internal/report"
	"go.uber.org/zap"
)

// Options is the resolved configuration of a single run.
type Options struct {
	ManifestPath string
	GatewayURL   string
	// TestURL is optional; empty skips the CSP check.
	TestURL string
	Timeout time.Duration

	OutputPath   string
	MarkdownPath string
}

// Orchestrator coordinates the checks of one diagnostics run. Each step
// finishes before the next starts, so at most one request is in flight.
type Orchestrator struct {
	prober  checker.Prober
	printer console.Printer
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewOrchestrator creates an orchestrator whose probes are bounded by timeout.
func NewOrchestrator(timeout time.Duration, printer console.Printer, logger *zap.SugaredLogger) *Orchestrator {
	return NewOrchestratorWithProber(probe.NewProber(timeout, logger), printer, logger)
}

// NewOrchestratorWithProber creates an orchestrator around an existing prober.
func NewOrchestratorWithProber(prober checker.Prober, printer console.Printer, logger *zap.SugaredLogger) *Orchestrator {
	if printer == nil {
		printer = console.Discard()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		prober:  prober,
		printer: printer,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the manifest, gateway and CSP checks and returns the report.
// A failing step never prevents later steps from running.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *report.Report {
	manifestChecker := &manifest.Checker{Printer: o.printer, Logger: o.logger}
	manifestResult := manifestChecker.Check(opts.ManifestPath)

	gatewayResult := checker.NewGatewayChecker(o.prober, o.printer, o.logger).Check(ctx, opts.GatewayURL)

	var cspResult *checker.CSPResult
	if r := checker.NewCSPChecker(o.prober, o.printer, o.logger).Check(ctx, opts.TestURL); r.Applicable() {
		cspResult = &r
	}

	rep := report.New(o.now(), report.Target{
		ManifestPath: opts.ManifestPath,
		GatewayURL:   opts.GatewayURL,
		TestURL:      opts.TestURL,
	})
	rep.Manifest = manifestResult
	rep.Gateway = gatewayResult
	rep.CSP = cspResult

	o.logger.Debugw("diagnostics complete",
		"manifest_ok", manifestResult.OK,
		"gateway_ok", gatewayResult.OK,
		"csp_checked", cspResult != nil,
	)

	return rep
}

// Publish writes the JSON report, and the Markdown summary when requested,
// then tells the operator where the JSON went.
func (o *Orchestrator) Publish(rep *report.Report, opts Options) error {
	if err := report.WriteFile(opts.OutputPath, rep, report.NewJSONWriter); err != nil {
		return fmt.Errorf("write JSON report %s: %w", opts.OutputPath, err)
	}
	o.logger.Debugw("report written", "path", opts.OutputPath)

	if opts.MarkdownPath != "" {
		if err := report.WriteFile(opts.MarkdownPath, rep, report.NewMarkdownWriter); err != nil {
			return fmt.Errorf("write Markdown report %s: %w", opts.MarkdownPath, err)
		}
		o.logger.Debugw("markdown summary written", "path", opts.MarkdownPath)
	}

	o.printer.Infof("\nResult written to %s", opts.OutputPath)
	if opts.MarkdownPath != "" {
		o.printer.Infof("Summary written to %s", opts.MarkdownPath)
	}
	return nil
}
