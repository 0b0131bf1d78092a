// Package constants centralizes defaults shared across the CLI.
//
// Manifest and gateway defaults, the report path, probe timeout and exit codes
// live here so cmd/ and internal/ agree on them without import cycles.
package constants
