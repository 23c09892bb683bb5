// Package rewrite applies query-driven rules to source files. Each rule
// query match yields bindings; the rule's target binding gets one effect
// and the file root is linearized to produce the rewritten text.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/effect"
	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/observability"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

const tracerName = "splice.rewrite"

var errNoTarget = errors.New("target capture not bound")

// Match is one rule match in a file.
type Match struct {
	Rule       string       `json:"rule"`
	Action     Action       `json:"action"`
	Range      syntax.Range `json:"range"`
	Text       string       `json:"text"`
	Suppressed bool         `json:"suppressed,omitempty"`
}

// Result is the outcome of applying rules to one file.
type Result struct {
	Path         string                   `json:"path"`
	Language     string                   `json:"language"`
	Original     string                   `json:"-"`
	Rewritten    string                   `json:"-"`
	Matches      []Match                  `json:"matches"`
	Replacements []effect.ReplacementInfo `json:"replacements"`
	Logs         []analysislog.Log        `json:"logs,omitempty"`
}

// Changed reports whether applying the rules altered the file.
func (r *Result) Changed() bool { return r.Original != r.Rewritten }

// Applied returns the number of matches that produced an effect.
func (r *Result) Applied() int {
	n := 0

	for _, m := range r.Matches {
		if !m.Suppressed {
			n++
		}
	}

	return n
}

// Suppressed returns the number of matches silenced by an ignore comment.
func (r *Result) Suppressed() int { return len(r.Matches) - r.Applied() }

// Diff returns the line diff between the original and rewritten text.
func (r *Result) Diff() []DiffLine { return LineDiff(r.Original, r.Rewritten) }

// Engine applies rules. It is safe for concurrent use; every Apply call
// owns its tree, memo and logs.
type Engine struct {
	parser  *syntax.Parser
	queries *syntax.QueryCache
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.RewriteMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTracer sets the tracer used for per-file spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithMetrics records per-file statistics.
func WithMetrics(m *observability.RewriteMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		parser:  syntax.NewParser(),
		queries: syntax.NewQueryCache(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// QueryStats returns query cache hits and misses.
func (e *Engine) QueryStats() (hits, misses int64) { return e.queries.Stats() }

// Apply detects the language of path and applies the rules written for it.
func (e *Engine) Apply(ctx context.Context, path string, content []byte, rules []*Rule) (*Result, error) {
	lang, err := language.ForPath(path, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return e.ApplyLanguage(ctx, lang, path, content, rules)
}

// ApplyLanguage applies the rules written for lang to content.
func (e *Engine) ApplyLanguage(
	ctx context.Context, lang *language.Language, path string, content []byte, rules []*Rule,
) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "splice.rewrite.file",
		trace.WithAttributes(
			attribute.String("splice.language", lang.Name()),
			attribute.Int("splice.rules", len(rules)),
		))
	defer span.End()

	start := time.Now()

	res, err := e.apply(ctx, lang, path, content, rules)

	stats := observability.RewriteStats{Language: lang.Name(), Duration: time.Since(start), Failed: err != nil}

	if res != nil {
		stats.Matches = len(res.Matches)
		stats.Applied = res.Applied()
		stats.Suppressed = res.Suppressed()
		stats.Diagnostics = len(res.Logs)

		span.SetAttributes(
			attribute.Int("splice.matches", stats.Matches),
			attribute.Int("splice.suppressed", stats.Suppressed),
		)
	}

	e.metrics.RecordFile(ctx, stats)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	return res, nil
}

func (e *Engine) apply(
	ctx context.Context, lang *language.Language, path string, content []byte, rules []*Rule,
) (*Result, error) {
	tree, err := e.parser.Parse(ctx, lang.Grammar(), path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	res := &Result{Path: path, Language: lang.Name(), Original: tree.Source, Rewritten: tree.Source}

	var effects []effect.Effect

	for _, rule := range rules {
		if !rule.AppliesTo(lang) {
			continue
		}

		ruleEffects, matches, ruleErr := e.evaluate(tree, lang, rule, path)
		if ruleErr != nil {
			return nil, fmt.Errorf("%s: rule %s: %w", path, rule.Name, ruleErr)
		}

		effects = append(effects, ruleEffects...)
		res.Matches = append(res.Matches, matches...)
	}

	if len(effects) == 0 {
		return res, nil
	}

	var logs analysislog.Logs

	root := tree.Root()
	lin := effect.NewLinearizer(lang, effects, effect.NewFileRegistry(path), &logs)

	var indent *int
	if lang.ShouldPadSnippet() {
		indent = new(int)
	}

	out, err := lin.Linearize(root, root.CodeRange(), indent)
	if err != nil {
		return nil, fmt.Errorf("linearize %s: %w", path, err)
	}

	src := tree.Source
	res.Rewritten = src[:root.StartByte()] + out.Text + src[root.EndByte():]
	res.Replacements = out.Replacements
	res.Logs = logs.Entries()

	logs.Emit(ctx, e.logger.With("file", path))

	e.logger.DebugContext(ctx, "rewrite applied",
		"file", path,
		"effects", len(effects),
		"replacements", len(out.Replacements),
	)

	return res, nil
}

// evaluate runs one rule's query over tree and turns every satisfied,
// unsuppressed match into an effect on the rule's target.
func (e *Engine) evaluate(
	tree *syntax.Tree, lang *language.Language, rule *Rule, path string,
) ([]effect.Effect, []Match, error) {
	q, err := e.queries.Compile(lang.Grammar(), rule.Query)
	if err != nil {
		return nil, nil, err
	}

	found, err := tree.Matches(q)
	if err != nil {
		return nil, nil, err
	}

	var (
		effects []effect.Effect
		matches []Match
	)

	for _, m := range found {
		env := newEnvironment(m, path)

		if !rule.satisfied(env, lang) {
			continue
		}

		target, err := rule.targetBinding(env)
		if err != nil {
			e.logger.Debug("match skipped", "rule", rule.Name, "file", path, "error", err)

			continue
		}

		rec := describeMatch(rule, target, lang)

		if target.IsSuppressed(lang, rule.Name) {
			rec.Suppressed = true
			matches = append(matches, rec)

			continue
		}

		matches = append(matches, rec)
		effects = append(effects, effect.Effect{
			Binding: target,
			Kind:    rule.Action.Kind(),
			Pattern: rule.replacement.Pattern(env),
		})
	}

	return effects, matches, nil
}

func (r *Rule) targetBinding(env *Environment) (binding.Binding, error) {
	if _, ok := env.Lookup(r.target.Capture); !ok {
		return nil, fmt.Errorf("%w: %s", errNoTarget, r.target.Capture)
	}

	b := env.Resolve(r.target)
	if _, isConst := binding.AsConstant(b); isConst {
		return nil, fmt.Errorf("%w: %s", errNoTarget, r.target)
	}

	return b, nil
}

func (r *Rule) satisfied(env *Environment, lang *language.Language) bool {
	for _, c := range r.Where {
		if !c.holds(env, lang) {
			return false
		}
	}

	return true
}

func (c Constraint) holds(env *Environment, lang *language.Language) bool {
	if len(c.Equivalent) > 0 {
		first, ok := env.Lookup(c.Equivalent[0])
		if !ok {
			return false
		}

		for _, name := range c.Equivalent[1:] {
			other, ok := env.Lookup(name)
			if !ok || !first.IsEquivalentTo(other, lang) {
				return false
			}
		}
	}

	if c.Capture == "" {
		return true
	}

	b, ok := env.Lookup(c.Capture)
	if !ok {
		return false
	}

	if c.Equals == "" && c.matcher == nil {
		return b.IsTruthy()
	}

	text, err := b.Text(lang)
	if err != nil {
		return false
	}

	if c.Equals != "" && text != c.Equals {
		return false
	}

	return c.matcher == nil || c.matcher.MatchString(text)
}

func describeMatch(rule *Rule, target binding.Binding, lang *language.Language) Match {
	rec := Match{Rule: rule.Name, Action: rule.Action}

	if rng, ok := target.Position(lang); ok {
		rec.Range = rng
	} else if parent, ok := target.ParentNode(); ok {
		rec.Range = parent.Range()
	}

	if text, err := target.Text(lang); err == nil {
		rec.Text = text
	}

	return rec
}
