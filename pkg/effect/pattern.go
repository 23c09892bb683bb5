package effect

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/binding"
)

// Pattern produces the text an effect splices in. shouldPad is set for
// indentation-sensitive languages, where bound text is re-indented to the
// column it ends up at.
type Pattern interface {
	LinearizedText(l *Linearizer, shouldPad bool) (string, error)
}

// Text is literal text.
type Text string

// LinearizedText implements Pattern.
func (t Text) LinearizedText(*Linearizer, bool) (string, error) {
	return string(t), nil
}

// Ref is the text of a binding after its own nested effects are applied.
type Ref struct {
	Binding binding.Binding
}

// LinearizedText implements Pattern.
func (r Ref) LinearizedText(l *Linearizer, shouldPad bool) (string, error) {
	var indent *int

	if shouldPad {
		indent = new(int)
	}

	return l.LinearizedText(r.Binding, indent)
}

// Snippet concatenates patterns.
type Snippet []Pattern

// LinearizedText implements Pattern. In padded mode every Ref is aligned to
// the column the snippet has reached when the Ref is appended.
func (s Snippet) LinearizedText(l *Linearizer, shouldPad bool) (string, error) {
	var sb strings.Builder

	for i, part := range s {
		var (
			text string
			err  error
		)

		if ref, ok := part.(Ref); ok && shouldPad {
			col := column(sb.String())
			text, err = l.LinearizedText(ref.Binding, &col)
		} else {
			text, err = part.LinearizedText(l, shouldPad)
		}

		if err != nil {
			return "", fmt.Errorf("snippet part %d: %w", i, err)
		}

		sb.WriteString(text)
	}

	return sb.String(), nil
}

// CurrentFile is the path of the file being rewritten.
type CurrentFile struct{}

// LinearizedText implements Pattern.
func (CurrentFile) LinearizedText(l *Linearizer, _ bool) (string, error) {
	return l.Files.Current(), nil
}

// column returns the byte column after the last newline of text.
func column(text string) int {
	return len(text) - (strings.LastIndexByte(text, '\n') + 1)
}
