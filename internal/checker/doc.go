// Package checker holds the reachability and header checks run by relay-diag.
//
// Architecture overview:
//
//   - GatewayChecker probes the relay gateway with a single HEAD request and
//     classifies it as reachable or not. Any HTTP status counts as reachable.
//   - CSPChecker probes an optional test URL and extracts its
//     Content-Security-Policy, falling back to the report-only variant.
//   - AnalyzeCSP scores a policy value and lists weaknesses so operators see
//     more than presence or absence.
//
// Both checkers take a Prober, so tests can substitute canned probe.Result
// values, and report through a console.Printer rather than returning errors.
package checker
