// Package commands implements the splice CLI subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/splice/pkg/config"
	"github.com/Sumatoshi-tech/splice/pkg/observability"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/version"
)

// Persistent flag names.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// NewRootCommand creates the splice root command with every subcommand
// except version registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splice",
		Short: "Splice - structural code rewriting",
		Long: `Splice rewrites source code with tree-sitter query rules.

Commands:
  apply     Rewrite files with a rule file
  check     Report pending rewrites without touching files
  parse     Print the syntax tree of a file
  mcp       Serve splice tools over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: .splice.yaml)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(NewApplyCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewParseCommand())
	rootCmd.AddCommand(NewMCPCommand())

	return rootCmd
}

// flagValue returns the value of a local or inherited flag, or "" when
// the command tree does not define it.
func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}

	return ""
}

// session bundles what a command needs for one run.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	engine    *rewrite.Engine
}

// openSession loads the config, initializes observability and builds the
// engine. tune runs last over the observability config.
func openSession(
	ctx context.Context, cmd *cobra.Command, mode observability.AppMode, tune ...func(*observability.Config),
) (*session, error) {
	cfg, err := config.LoadConfig(flagValue(cmd, flagConfig))
	if err != nil {
		return nil, err
	}

	obsCfg := observabilityConfig(cfg, mode)

	switch {
	case flagValue(cmd, flagVerbose) == "true":
		obsCfg.LogLevel = slog.LevelDebug
	case flagValue(cmd, flagQuiet) == "true":
		obsCfg.LogLevel = slog.LevelError
	}

	for _, fn := range tune {
		fn(&obsCfg)
	}

	providers, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return nil, err
	}

	engine := rewrite.NewEngine(
		rewrite.WithLogger(providers.Logger),
		rewrite.WithTracer(providers.Tracer),
		rewrite.WithMetrics(providers.Rewrite),
	)

	return &session{cfg: cfg, providers: providers, engine: engine}, nil
}

func (s *session) close() {
	err := s.providers.Shutdown(context.Background())
	if err != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// endSpan ends span, marking it failed when err is set.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	tel := cfg.Telemetry

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = tel.Environment
	obsCfg.OTLPEndpoint = tel.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(tel.OTLPHeaders)
	obsCfg.OTLPInsecure = tel.OTLPInsecure
	obsCfg.SampleRatio = tel.SampleRatio
	obsCfg.TraceVerbose = tel.TraceVerbose
	obsCfg.DebugTrace = tel.DebugTrace
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON() || mode == observability.ModeMCP

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
		obsCfg.OTLPInsecure = obsCfg.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	}

	return obsCfg
}
