package effect

import (
	"sort"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// EffectRange is the span an effect touches in the original source.
type EffectRange struct {
	Kind  Kind
	Range syntax.ByteRange
}

// Effective returns the interval the edit occupies when spliced: an insert
// is a zero-width edit at the end of its binding.
func (r EffectRange) Effective() syntax.ByteRange {
	if r.Kind == Insert {
		return syntax.NewByteRange(r.Range.End, r.Range.End)
	}

	return r.Range
}

// located is an effect with the range it is filed under. Effects whose
// binding has no range of its own are filed under the binding's parent.
type located struct {
	effect    Effect
	effective syntax.ByteRange
	ranged    bool
}

// TopLevel selects the effects to apply directly inside anchor: those
// inside it and not nested inside another selected effect. Effects on the
// anchor itself are left out while the anchor is being resolved further up
// the stack; other in-progress ranges stay and are rendered from source.
// The result is ordered by position.
func TopLevel(effects []Effect, memo *Memo, anchor syntax.CodeRange, lang Language) []Effect {
	candidates := make([]located, 0, len(effects))
	anchorBusy := memo.State(anchor) == InProgress

	for _, e := range effects {
		loc, cr, ok := locate(e, lang)
		if !ok || !anchor.Contains(cr) || (anchorBusy && cr == anchor) {
			continue
		}

		candidates = append(candidates, loc)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].effective, candidates[j].effective
		if a.Start != b.Start {
			return a.Start < b.Start
		}

		if a.IsEmpty() != b.IsEmpty() {
			return a.IsEmpty()
		}

		return a.End > b.End
	})

	out := make([]Effect, 0, len(candidates))
	lastEnd := -1

	for _, c := range candidates {
		if c.effective.Start < lastEnd {
			continue
		}

		out = append(out, c.effect)

		if c.ranged && c.effective.End > lastEnd {
			lastEnd = c.effective.End
		}
	}

	return out
}

func locate(e Effect, lang Language) (located, syntax.CodeRange, bool) {
	if cr, ok := e.Binding.CodeRange(lang); ok {
		eff := EffectRange{Kind: e.Kind, Range: cr.ByteRange()}.Effective()

		return located{effect: e, effective: eff, ranged: true}, cr, true
	}

	parent, ok := e.Binding.ParentNode()
	if !ok {
		return located{}, syntax.CodeRange{}, false
	}

	cr := parent.CodeRange()

	return located{effect: e, effective: cr.ByteRange()}, cr, true
}
