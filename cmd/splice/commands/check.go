package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/splice/pkg/observability"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/textutil"
)

// ErrPendingRewrites is returned by check when any match is not
// suppressed, so the process exits non-zero.
var ErrPendingRewrites = errors.New("pending rewrites")

// matchTextWidth caps the TEXT column.
const matchTextWidth = 60

const (
	statusPending    = "pending"
	statusSuppressed = "suppressed"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var (
		rules   string
		maxSize string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report pending rewrites without touching files",
		Long: `Run the rules and print a table of every match.

Exits with an error when a match is not covered by a "splice-ignore"
comment, which makes check suitable as a CI gate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, rules, maxSize, workers)
		},
	}

	cmd.Flags().StringVarP(&rules, "rules", "r", "", "rule file (default: rewrite.rules from config)")
	cmd.Flags().StringVar(&maxSize, "max-size", defaultMaxSize, "skip files larger than this (0 disables)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of parallel workers (default: rewrite.workers, then number of CPUs)")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, rulesPath, rawMaxSize string, workers int) (err error) {
	maxSize, err := parseMaxSize(rawMaxSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	sess, err := openSession(ctx, cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close()

	if rulesPath == "" {
		rulesPath = sess.cfg.Rewrite.Rules
	}

	if workers == 0 {
		workers = sess.cfg.Rewrite.Workers
	}

	ctx, span := sess.providers.Tracer.Start(ctx, "splice.check")
	finish := sess.providers.RED.Track(ctx, "check")

	defer func() {
		finish(err)
		endSpan(span, err)
	}()

	rules, err := rewrite.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	files, err := collectFiles(paths, sess.cfg.Rewrite.Exclude, rules)
	if err != nil {
		return err
	}

	results, err := applyFiles(ctx, sess.engine, files, rules, workers, maxSize)
	if err != nil {
		return err
	}

	pending := renderMatchTable(cmd.OutOrStdout(), results)
	if pending > 0 {
		return fmt.Errorf("%w: %d", ErrPendingRewrites, pending)
	}

	return nil
}

// renderMatchTable writes one row per match and returns the number of
// unsuppressed matches.
func renderMatchTable(w io.Writer, results []*rewrite.Result) int {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"File", "Line", "Rule", "Action", "Status", "Text"})

	var total, pending int

	for _, res := range results {
		if res == nil {
			continue
		}

		for _, m := range res.Matches {
			total++

			status := statusSuppressed
			if !m.Suppressed {
				status = statusPending
				pending++
			}

			tbl.AppendRow(table.Row{
				res.Path,
				strconv.Itoa(m.Range.Start.Line),
				m.Rule,
				string(m.Action),
				status,
				text.Snip(textutil.FirstLine(m.Text), matchTextWidth, "…"),
			})
		}
	}

	if total == 0 {
		fmt.Fprintln(w, "no matches")

		return 0
	}

	tbl.AppendFooter(table.Row{
		"", "", "", "",
		humanize.Comma(int64(pending)) + " " + statusPending,
		humanize.Comma(int64(total)) + " total",
	})

	fmt.Fprintln(w, tbl.Render())

	return pending
}
