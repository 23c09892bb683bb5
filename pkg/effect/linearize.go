package effect

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/splice/pkg/analysislog"
	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Sentinel errors for linearization.
var (
	ErrNoPosition       = errors.New("binding has no position")
	ErrRangeOutOfBounds = errors.New("range out of bounds")
	ErrOverlappingEdits = errors.New("overlapping edits")
	ErrUnknownBinding   = errors.New("unknown binding variant")
	ErrUnknownKind      = errors.New("unknown effect kind")
	errForeignCodeRange = errors.New("code range does not belong to source")
)

// Output is the linearized text of an anchor range.
type Output struct {
	Text         string
	Offset       int
	Ranges       []syntax.ByteRange // output spans of the applied replacements
	Replacements []ReplacementInfo
}

// Linearizer resolves effects for one run. It owns the memo for that run
// and is not safe for concurrent use.
type Linearizer struct {
	Lang    Language
	Effects []Effect
	Files   *FileRegistry
	Memo    *Memo
	Logs    *analysislog.Logs

	descents int
}

// NewLinearizer creates a Linearizer with a fresh memo.
func NewLinearizer(lang Language, effects []Effect, files *FileRegistry, logs *analysislog.Logs) *Linearizer {
	return &Linearizer{Lang: lang, Effects: effects, Files: files, Memo: NewMemo(), Logs: logs}
}

// Descents returns how many anchors were actually resolved, as opposed to
// served from the memo.
func (l *Linearizer) Descents() int { return l.descents }

// LinearizeBinding is the one-shot form of Linearizer.Linearize.
func LinearizeBinding(
	lang Language,
	effects []Effect,
	files *FileRegistry,
	memo *Memo,
	source *syntax.Node,
	rng syntax.CodeRange,
	indent *int,
	logs *analysislog.Logs,
) (Output, error) {
	l := &Linearizer{Lang: lang, Effects: effects, Files: files, Memo: memo, Logs: logs}

	return l.Linearize(source, rng, indent)
}

type pending struct {
	kind Kind
	rng  syntax.ByteRange
	text string
}

// Linearize returns the text of rng within source's file with every
// applicable effect applied. indent, when set, is the column the result
// will be placed at.
func (l *Linearizer) Linearize(source *syntax.Node, rng syntax.CodeRange, indent *int) (Output, error) {
	if out, ok := l.Memo.Output(rng); ok {
		return out, nil
	}

	if state, text := l.Memo.Get(rng); state == Resolved {
		return Output{Text: text, Offset: rng.ByteRange().Start}, nil
	}

	src := source.Source()
	if !rng.AppliesTo(src) {
		return Output{}, fmt.Errorf("%w: %w %s", ErrRangeOutOfBounds, errForeignCodeRange, rng)
	}

	anchor := rng.ByteRange()
	if anchor.End > len(src) || anchor.Start > anchor.End {
		return Output{}, fmt.Errorf("%w: %s in %d bytes", ErrRangeOutOfBounds, anchor, len(src))
	}

	l.descents++

	var edits []pending

	for _, e := range TopLevel(l.Effects, l.Memo, rng, l.Lang) {
		p, ok, err := l.resolve(e, indent)
		if err != nil {
			return Output{}, err
		}

		if ok {
			edits = append(edits, p)
		}
	}

	reps := make([]Replacement, 0, len(edits))
	for _, p := range edits {
		reps = append(reps, NewReplacement(p.kind, p.rng, p.text))
	}

	text, reps := AlignPadding(src, anchor.Slice(src), anchor.Start, l.Lang.SkipPaddingRanges(source), indent, reps)

	out, ranges, infos, err := Splice(text, anchor.Start, reps, indent != nil)
	if err != nil {
		return Output{}, fmt.Errorf("splice %s: %w", anchor, err)
	}

	res := Output{Text: out, Offset: anchor.Start, Ranges: ranges, Replacements: infos}
	l.Memo.ResolveOutput(rng, res)

	return res, nil
}

// resolve computes the text one top-level effect contributes. It reports
// false when the effect's binding has no range to edit.
func (l *Linearizer) resolve(e Effect, indent *int) (pending, bool, error) {
	cr, ok := e.Binding.CodeRange(l.Lang)
	if !ok {
		if err := e.Binding.LogEmptyFieldRewriteError(l.Lang, l.Logs); err != nil {
			return pending{}, false, fmt.Errorf("log empty field: %w", err)
		}

		return pending{}, false, nil
	}

	br, ok := e.Binding.ByteRange(l.Lang)
	if !ok {
		return pending{}, false, fmt.Errorf("%w: %s", ErrNoPosition, cr)
	}

	shouldPad := indent != nil

	switch e.Kind {
	case Rewrite:
		state, memoText := l.Memo.Get(cr)

		switch state {
		case Resolved:
			return pending{kind: Rewrite, rng: br, text: memoText}, true, nil
		case InProgress:
			return pending{kind: Rewrite, rng: br, text: l.alignedSource(e.Binding, cr, indent)}, true, nil
		case Unseen:
		}

		l.Memo.MarkInProgress(cr)

		text, err := e.Pattern.LinearizedText(l, shouldPad)
		if err != nil {
			return pending{}, false, fmt.Errorf("rewrite %s: %w", br, err)
		}

		l.Memo.Resolve(cr, text)

		return pending{kind: Rewrite, rng: br, text: text}, true, nil
	case Insert:
		text, err := e.Pattern.LinearizedText(l, shouldPad)
		if err != nil {
			return pending{}, false, fmt.Errorf("insert at %s: %w", br, err)
		}

		if pad, ok := e.Binding.InsertionPadding(text, false, l.Lang); ok {
			text = pad + text
		}

		return pending{kind: Insert, rng: br, text: text}, true, nil
	}

	return pending{}, false, fmt.Errorf("%w: %s", ErrUnknownKind, e.Kind)
}

// alignedSource is the binding's own text re-indented to indent, used when
// the binding is already being rewritten further up the stack.
func (l *Linearizer) alignedSource(b binding.Binding, cr syntax.CodeRange, indent *int) string {
	src, _ := b.Source()
	br := cr.ByteRange()

	var skip []syntax.CodeRange
	if n, ok := binding.AsNode(b); ok {
		skip = l.Lang.SkipPaddingRanges(n)
	}

	text, _ := AlignPadding(src, br.Slice(src), br.Start, skip, indent, nil)

	return text
}

// LinearizedText returns the text of b with nested effects applied.
func (l *Linearizer) LinearizedText(b binding.Binding, indent *int) (string, error) {
	switch v := b.(type) {
	case binding.Empty:
		return "", nil
	case binding.Node:
		out, err := l.Linearize(v.Node(), v.Node().CodeRange(), indent)
		if err != nil {
			return "", err
		}

		return out.Text, nil
	case binding.List:
		cr, ok := v.CodeRange(l.Lang)
		if !ok {
			return "", nil
		}

		out, err := l.Linearize(v.Parent(), cr, indent)
		if err != nil {
			return "", err
		}

		return out.Text, nil
	case binding.Slice, binding.FileName, binding.ConstantRef:
		text, err := v.Text(l.Lang)
		if err != nil {
			return "", fmt.Errorf("binding text: %w", err)
		}

		return text, nil
	}

	return "", fmt.Errorf("%w: %T", ErrUnknownBinding, b)
}
