package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/khanhnv2901/relay-diag/internal/application/relay"
	consts "github.com/khanhnv2901/relay-diag/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config keys recognised in the config file and as RELAY_DIAG_* variables.
const (
	keyManifest = "manifest"
	keyGateway  = "gateway"
	keyTestURL  = "test_url"
	keyTimeout  = "timeout_ms"
	keyOutput   = "output"
	keyMarkdown = "markdown"
)

// CLIConfig captures runtime configuration for a single invocation.
type CLIConfig struct {
	CfgFile string
	Verbose bool
	NoColor bool
	Check   CheckRuntimeConfig

	Logger *zap.SugaredLogger
	viper  *viper.Viper
}

// CheckRuntimeConfig consolidates flag-driven settings for the diagnostics run.
type CheckRuntimeConfig struct {
	ManifestPath  string
	GatewayURL    string
	TestURL       string
	TimeoutMillis int
	OutputPath    string
	MarkdownPath  string
}

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Check: CheckRuntimeConfig{
			ManifestPath:  consts.DefaultManifestPath,
			GatewayURL:    consts.DefaultGatewayURL,
			TimeoutMillis: consts.DefaultTimeoutMillis,
			OutputPath:    consts.DefaultOutputPath,
		},
		viper: viper.New(),
	}
}

// bindFlags registers the diagnostics flags on cmd, backed by cfg.
func bindFlags(cmd *cobra.Command, cfg *CLIConfig) {
	persistent := cmd.PersistentFlags()
	persistent.StringVar(&cfg.CfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/relay-diag/relay-diag.yaml or $HOME/.relay-diag.yaml)")
	persistent.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging on stderr")
	persistent.BoolVar(&cfg.NoColor, "no-color", false, "disable coloured output")

	flags := cmd.Flags()
	flags.StringVar(&cfg.Check.ManifestPath, "manifest", cfg.Check.ManifestPath, "path to the extension manifest.json")
	flags.StringVar(&cfg.Check.GatewayURL, "gateway", cfg.Check.GatewayURL, "relay gateway URL to probe")
	flags.StringVar(&cfg.Check.TestURL, "test-url", cfg.Check.TestURL, "page URL whose Content-Security-Policy is inspected (optional)")
	flags.IntVar(&cfg.Check.TimeoutMillis, "timeout", cfg.Check.TimeoutMillis, "probe timeout in milliseconds")
	flags.StringVar(&cfg.Check.OutputPath, "output", cfg.Check.OutputPath, "where the JSON report is written")
	flags.StringVar(&cfg.Check.MarkdownPath, "markdown", cfg.Check.MarkdownPath, "also write a Markdown summary to this path")
}

// loadConfigFile reads the config file into cfg.viper. A missing default
// config file is not an error; a missing explicit --config file is.
func (cfg *CLIConfig) loadConfigFile() error {
	v := cfg.viper
	v.SetEnvPrefix(consts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	path := cfg.CfgFile
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfg.CfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first default config file that exists.
func findConfigFile() string {
	if path, err := xdg.SearchConfigFile(filepath.Join(consts.AppName, consts.AppName+".yaml")); err == nil {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, "."+consts.AppName+".yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyConfigDefaults merges config file and environment values into the
// runtime config when the user did not explicitly set the corresponding flag.
func (cfg *CLIConfig) applyConfigDefaults(flags *pflag.FlagSet) {
	v := cfg.viper

	stringKeys := []struct {
		key, flag string
		target    *string
	}{
		{keyManifest, "manifest", &cfg.Check.ManifestPath},
		{keyGateway, "gateway", &cfg.Check.GatewayURL},
		{keyTestURL, "test-url", &cfg.Check.TestURL},
		{keyOutput, "output", &cfg.Check.OutputPath},
		{keyMarkdown, "markdown", &cfg.Check.MarkdownPath},
	}
	for _, k := range stringKeys {
		if !v.IsSet(k.key) {
			continue
		}
		target := k.target
		applyStringDefault(flags, k.flag, v.GetString(k.key), func(s string) {
			*target = s
		})
	}

	if v.IsSet(keyTimeout) {
		applyIntDefault(flags, "timeout", v.GetInt(keyTimeout), func(ms int) {
			cfg.Check.TimeoutMillis = ms
		})
	}
}

// options resolves the run options. A non-positive timeout falls back to
// the default so a probe can never wait forever.
func (cfg *CLIConfig) options() relay.Options {
	timeoutMillis := cfg.Check.TimeoutMillis
	if timeoutMillis <= 0 {
		if cfg.Logger != nil {
			cfg.Logger.Warnw("non-positive timeout, using default", "timeout_ms", timeoutMillis, "default_ms", consts.DefaultTimeoutMillis)
		}
		timeoutMillis = consts.DefaultTimeoutMillis
	}

	return relay.Options{
		ManifestPath: cfg.Check.ManifestPath,
		GatewayURL:   cfg.Check.GatewayURL,
		TestURL:      strings.TrimSpace(cfg.Check.TestURL),
		Timeout:      time.Duration(timeoutMillis) * time.Millisecond,
		OutputPath:   cfg.Check.OutputPath,
		MarkdownPath: cfg.Check.MarkdownPath,
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
