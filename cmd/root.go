package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/khanhnv2901/relay-diag/internal/application/relay"
	"github.com/khanhnv2901/relay-diag/internal/console"
	"github.com/khanhnv2901/relay-diag/internal/report"
	consts "github.com/khanhnv2901/relay-diag/internal/shared/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cfg := newCLIConfig()

	cmd := &cobra.Command{
		Use:   consts.AppName,
		Short: "Validate a browser-extension manifest and probe the relay gateway",
		Long: `relay-diag checks that the extension manifest parses, that the relay gateway
answers HTTP, and optionally which Content-Security-Policy a test page sends.

Results are printed and written to ./diagnostics-relay-output.json. The exit
code is 2 when the manifest or gateway check fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.NoColor {
				color.NoColor = true
			}

			cfg.Logger = newLogger(cfg.Verbose)

			if err := cfg.loadConfigFile(); err != nil {
				return err
			}
			if used := cfg.viper.ConfigFileUsed(); used != "" {
				cfg.Logger.Debugw("config loaded", "path", used)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.applyConfigDefaults(cmd.Flags())
			return runDiagnostics(cmd, cfg)
		},
	}

	bindFlags(cmd, cfg)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// runDiagnostics flushes the logger on every return path; cobra skips
// post-run hooks once RunE has failed.
func runDiagnostics(cmd *cobra.Command, cfg *CLIConfig) error {
	defer func() {
		_ = cfg.Logger.Sync()
	}()

	opts := cfg.options()
	cfg.Logger.Debugw("starting diagnostics",
		"manifest", opts.ManifestPath,
		"gateway", opts.GatewayURL,
		"test_url", opts.TestURL,
		"timeout", opts.Timeout,
	)

	printer := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	orchestrator := relay.NewOrchestrator(opts.Timeout, printer, cfg.Logger)

	rep := orchestrator.Run(cmd.Context(), opts)
	if err := orchestrator.Publish(rep, opts); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), rep)

	if rep.Failed() {
		return &DiagnosticsFailedError{
			Manifest: rep.ManifestFailed(),
			Gateway:  rep.GatewayFailed(),
		}
	}
	return nil
}

func printSummary(w io.Writer, rep *report.Report) {
	csp := "skipped"
	if rep.CSP != nil {
		csp = "missing"
		if rep.CSP.Found() {
			csp = "ok"
		} else if rep.CSP.Error != "" {
			csp = "error"
		}
	}
	fmt.Fprintf(w, "manifest=%s gateway=%s csp=%s\n",
		console.Status(statusWord(rep.Manifest.OK)),
		console.Status(statusWord(rep.Gateway.OK)),
		console.Status(csp),
	)
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func newLogger(verbose bool) *zap.SugaredLogger {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *DiagnosticsFailedError
	if errors.As(err, &failed) {
		return consts.ExitDiagnosticsFailed
	}
	return consts.ExitError
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	code := exitCode(err)
	if code == consts.ExitError {
		console.New(os.Stdout, os.Stderr).Errorf("Error: %v", err)
	}
	if code != 0 {
		os.Exit(code)
	}
}
