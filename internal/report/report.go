package report

import (
	"time"

	"github.com/khanhnv2901/relay-diag/internal/checker"
	"github.com/khanhnv2901/relay-diag/internal/manifest"
)

// TimeLayout renders report timestamps in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Report is the outcome of one diagnostics run. CSP is nil when no test
// URL was configured and is then omitted from the JSON entirely.
type Report struct {
	Time     string                `json:"time"`
	Manifest manifest.Result       `json:"manifest"`
	Gateway  checker.GatewayResult `json:"gateway"`
	CSP      *checker.CSPResult    `json:"csp,omitempty"`

	Target Target `json:"-"`
}

// Target records what a run was pointed at, for human-readable output.
type Target struct {
	ManifestPath string
	GatewayURL   string
	TestURL      string
}

// New returns an empty report stamped with now.
func New(now time.Time, target Target) *Report {
	return &Report{
		Time:   FormatTime(now),
		Target: target,
	}
}

// FormatTime renders t the way reports store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ManifestFailed reports whether the manifest could not be read or parsed.
func (r *Report) ManifestFailed() bool {
	return !r.Manifest.OK
}

// GatewayFailed reports whether the gateway could not be reached.
func (r *Report) GatewayFailed() bool {
	return !r.Gateway.OK
}

// Failed reports whether the run should end with a non-zero exit code.
// CSP results never fail a run.
func (r *Report) Failed() bool {
	return r.ManifestFailed() || r.GatewayFailed()
}
