package cmd

import "strings"

// DiagnosticsFailedError signals that a check the exit code depends on failed.
type DiagnosticsFailedError struct {
	Manifest bool
	Gateway  bool
}

func (e *DiagnosticsFailedError) Error() string {
	var failed []string
	if e.Manifest {
		failed = append(failed, "manifest")
	}
	if e.Gateway {
		failed = append(failed, "gateway")
	}
	if len(failed) == 0 {
		return "diagnostics failed"
	}
	return strings.Join(failed, " and ") + " check failed"
}
