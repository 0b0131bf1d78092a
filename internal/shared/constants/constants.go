package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// AppName names the binary, the config directory and the env prefix.
	AppName = "relay-diag"
	// EnvPrefix is prepended to config keys when read from the environment.
	EnvPrefix = "RELAY_DIAG"
)

const (
	// DefaultManifestPath is the extension manifest checked when --manifest is omitted.
	DefaultManifestPath = "./manifest.json"
	// DefaultGatewayURL points at the local relay process.
	DefaultGatewayURL = "http://127.0.0.1:9229"
	// DefaultOutputPath is where the JSON report is written, relative to the working directory.
	DefaultOutputPath = "./diagnostics-relay-output.json"
	// DefaultTimeoutMillis bounds every probe.
	DefaultTimeoutMillis = 3000
	// DefaultTimeout is DefaultTimeoutMillis as a duration.
	DefaultTimeout = DefaultTimeoutMillis * time.Millisecond
)

const (
	// ExitDiagnosticsFailed is returned when the manifest or gateway check failed.
	ExitDiagnosticsFailed = 2
	// ExitError is returned for usage errors and fatal I/O errors.
	ExitError = 1
)
