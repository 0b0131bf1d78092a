// Package probe issues single bounded HEAD requests used to inspect
// reachability and response headers of a URL.
//
// A probe never returns an error to its caller. Every outcome, including a
// malformed URL, a refused connection or an expired deadline, is folded into
// a Result so callers branch on Result.Failed instead of error values.
package probe
