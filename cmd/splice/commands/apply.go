package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/observability"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/textutil"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

const defaultMaxSize = "1MiB"

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

type applyOptions struct {
	rules   string
	format  string
	maxSize string
	workers int
	dryRun  bool
	diff    bool
	noColor bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply [paths...]",
		Short: "Rewrite files with a rule file",
		Long: `Apply rewrite rules to source files in place.

Directories are walked recursively; only files in a language some rule
targets are considered. Matches covered by a "splice-ignore" comment are
reported but left untouched.

Examples:
  splice apply                          # Rewrite the working tree with .splice-rules.yaml
  splice apply -r rules.yaml ./pkg      # Use another rule file
  splice apply --dry-run --diff         # Show what would change
  splice apply --format json main.go    # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rules, "rules", "r", "", "rule file (default: rewrite.rules from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().StringVar(&opts.maxSize, "max-size", defaultMaxSize, "skip files larger than this (e.g. 512KiB, 2MB; 0 disables)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of parallel workers (default: rewrite.workers, then number of CPUs)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "report changes without writing files")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff of every changed file")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

// fileReport is the JSON form of one file's result.
type fileReport struct {
	Path        string            `json:"path"`
	Language    string            `json:"language"`
	Changed     bool              `json:"changed"`
	Matches     []rewrite.Match   `json:"matches"`
	Diagnostics []analysislog.Log `json:"diagnostics,omitempty"`
	Diff        string            `json:"diff,omitempty"`
}

type applyReport struct {
	DryRun bool         `json:"dry_run"`
	Files  []fileReport `json:"files"`
}

func runApply(cmd *cobra.Command, paths []string, opts applyOptions) (err error) {
	if opts.format != formatText && opts.format != formatJSON {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.format)
	}

	if opts.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	maxSize, err := parseMaxSize(opts.maxSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	sess, err := openSession(ctx, cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close()

	rwCfg := sess.cfg.Rewrite
	dryRun := opts.dryRun || rwCfg.DryRun

	rulesPath := opts.rules
	if rulesPath == "" {
		rulesPath = rwCfg.Rules
	}

	workers := opts.workers
	if workers == 0 {
		workers = rwCfg.Workers
	}

	ctx, span := sess.providers.Tracer.Start(ctx, "splice.apply")
	finish := sess.providers.RED.Track(ctx, "apply")

	defer func() {
		finish(err)
		endSpan(span, err)
	}()

	rules, err := rewrite.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	files, err := collectFiles(paths, rwCfg.Exclude, rules)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int("splice.files", len(files)), attribute.Int("splice.rules", len(rules)))

	sess.providers.Logger.DebugContext(ctx, "applying rules",
		"rules", rulesPath, "files", len(files), "workers", workers, "dry_run", dryRun)

	results, err := applyFiles(ctx, sess.engine, files, rules, workers, maxSize)
	if err != nil {
		return err
	}

	if !dryRun {
		err = writeResults(results)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()

	if opts.format == formatJSON {
		return writeJSONReport(out, results, dryRun, rwCfg.DiffContext)
	}

	if flagValue(cmd, flagQuiet) == "true" {
		return nil
	}

	writeTextReport(out, results, dryRun, opts.diff, rwCfg.DiffContext)

	return nil
}

func parseMaxSize(raw string) (uint64, error) {
	if raw == "" || raw == "0" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-size %q: %w", raw, err)
	}

	return size, nil
}

func writeJSONReport(w io.Writer, results []*rewrite.Result, dryRun bool, diffContext int) error {
	report := applyReport{DryRun: dryRun, Files: make([]fileReport, 0, len(results))}

	for _, res := range results {
		if res == nil || (len(res.Matches) == 0 && len(res.Logs) == 0) {
			continue
		}

		report.Files = append(report.Files, fileReport{
			Path:        res.Path,
			Language:    res.Language,
			Changed:     res.Changed(),
			Matches:     res.Matches,
			Diagnostics: res.Logs,
			Diff:        rewrite.FormatDiff(res.Path, res.Diff(), diffContext),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

func writeTextReport(w io.Writer, results []*rewrite.Result, dryRun, showDiff bool, diffContext int) {
	var (
		scanned, lines, changed, matches, suppressed int
		delta                                        int64
	)

	verb := "rewrote"
	if dryRun {
		verb = "would rewrite"
	}

	warn := color.New(color.FgYellow)

	for _, res := range results {
		if res == nil {
			continue
		}

		scanned++
		lines += textutil.CountLines(res.Original)
		matches += len(res.Matches)
		suppressed += res.Suppressed()

		for _, entry := range res.Logs {
			warn.Fprintf(w, "warning: %s: %s\n", res.Path, entry.Message)
		}

		if !res.Changed() {
			continue
		}

		changed++
		delta += int64(len(res.Rewritten) - len(res.Original))

		fmt.Fprintf(w, "%s %s (%d matches)\n", verb, res.Path, res.Applied())

		if showDiff {
			writeColoredDiff(w, rewrite.FormatDiff(res.Path, res.Diff(), diffContext))
		}
	}

	fmt.Fprintf(w, "%s files (%s lines) scanned, %s changed, %s matches (%s suppressed), %s\n",
		humanize.Comma(int64(scanned)),
		humanize.Comma(int64(lines)),
		humanize.Comma(int64(changed)),
		humanize.Comma(int64(matches)),
		humanize.Comma(int64(suppressed)),
		byteDelta(delta),
	)
}

func writeColoredDiff(w io.Writer, diff string) {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			add.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			del.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// byteDelta renders a signed size change, e.g. "+1.2 kB" or "-12 B".
func byteDelta(delta int64) string {
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}

	return sign + humanize.Bytes(uint64(delta))
}
