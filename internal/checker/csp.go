package checker

import (
	"context"

	"github.com/khanhnv2901/relay-diag/internal/console"
	"go.uber.org/zap"
)

const (
	// HeaderCSP is the enforcing Content-Security-Policy header.
	HeaderCSP = "content-security-policy"
	// HeaderCSPReportOnly is consulted when HeaderCSP is absent.
	HeaderCSPReportOnly = "content-security-policy-report-only"
)

// CSPResult records the policy found on the test URL. OK is nil when no
// test URL was configured, false when the request failed or carried no
// policy, and true when a policy header was found.
type CSPResult struct {
	OK     *bool    `json:"ok"`
	CSP    string   `json:"csp,omitempty"`
	Header string   `json:"header,omitempty"`
	Issues []string `json:"issues,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Applicable reports whether a test URL was checked.
func (r CSPResult) Applicable() bool {
	return r.OK != nil
}

// Found reports whether a policy header was present.
func (r CSPResult) Found() bool {
	return r.OK != nil && *r.OK
}

// CSPChecker looks for a Content-Security-Policy on a test URL.
type CSPChecker struct {
	base
}

// NewCSPChecker wires a CSPChecker.
func NewCSPChecker(prober Prober, printer console.Printer, logger *zap.SugaredLogger) *CSPChecker {
	return &CSPChecker{base{Prober: prober, Printer: printer, Logger: logger}}
}

// Check probes testURL and extracts its policy. An empty testURL yields a
// not-applicable result without touching the network.
func (c *CSPChecker) Check(ctx context.Context, testURL string) CSPResult {
	if testURL == "" {
		return CSPResult{}
	}

	printer := c.printer()
	printer.Headingf("Checking CSP headers for: %s", testURL)

	r := c.Prober.Head(ctx, testURL)
	if r.Failed() {
		printer.Errorf("  Request failed: %s", r.ErrorMessage())
		c.debugw("csp request failed", "check", c.Name(), "url", testURL, "error", r.Err)
		return CSPResult{OK: boolPtr(false), Error: r.ErrorMessage()}
	}

	header := HeaderCSP
	policy := r.Header(HeaderCSP)
	if policy == "" {
		header = HeaderCSPReportOnly
		policy = r.Header(HeaderCSPReportOnly)
	}

	if policy == "" {
		printer.Warnf("  No CSP header detected (might still have CSP via meta tag).")
		c.debugw("csp header absent", "check", c.Name(), "url", testURL, "status", r.Status)
		return CSPResult{OK: boolPtr(false)}
	}

	printer.Successf("  CSP found: %s", policy)
	analysis := AnalyzeCSP(policy)
	for _, issue := range analysis.Issues {
		printer.Warnf("    - %s", issue)
	}
	c.debugw("csp header found", "check", c.Name(), "url", testURL, "header", header, "score", analysis.Score)

	return CSPResult{
		OK:     boolPtr(true),
		CSP:    policy,
		Header: header,
		Issues: analysis.Issues,
	}
}

// Name returns the name of this checker
func (c *CSPChecker) Name() string {
	return "check csp"
}

func boolPtr(v bool) *bool {
	return &v
}
