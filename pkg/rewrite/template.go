package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/effect"
)

// ErrTemplateSyntax is returned for a malformed replacement template.
var ErrTemplateSyntax = errors.New("template syntax")

// fileNameCapture is the reserved variable for the current file path.
const fileNameCapture = "filename"

// Reference names a capture, or a field of the captured node.
type Reference struct {
	Capture string
	Field   string
}

func (r Reference) String() string {
	if r.Field == "" {
		return r.Capture
	}

	return r.Capture + "." + r.Field
}

func parseReference(s string) (Reference, bool) {
	capture, field, hasField := strings.Cut(s, ".")
	if !isIdentifier(capture) || (hasField && !isIdentifier(field)) {
		return Reference{}, false
	}

	return Reference{Capture: capture, Field: field}, true
}

type segment struct {
	literal string
	ref     *Reference
}

// Template is a parsed replacement: literal text interleaved with
// $capture, $capture.field and $filename references. $$ is a literal $.
type Template struct {
	source   string
	segments []segment
}

// ParseTemplate parses a replacement template.
func ParseTemplate(src string) (Template, error) {
	var (
		segments []segment
		lit      strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		if src[i] != '$' {
			lit.WriteByte(src[i])
			i++

			continue
		}

		if i+1 < len(src) && src[i+1] == '$' {
			lit.WriteByte('$')
			i += 2

			continue
		}

		name := scanIdentifier(src, i+1)
		if name == "" {
			return Template{}, fmt.Errorf("%w: dangling $ at offset %d in %q", ErrTemplateSyntax, i, src)
		}

		ref := Reference{Capture: name}
		i += 1 + len(name)

		if name != fileNameCapture && i < len(src) && src[i] == '.' {
			if field := scanIdentifier(src, i+1); field != "" {
				ref.Field = field
				i += 1 + len(field)
			}
		}

		flush()

		segments = append(segments, segment{ref: &ref})
	}

	flush()

	return Template{source: src, segments: segments}, nil
}

// String returns the template source.
func (t Template) String() string { return t.source }

// References returns every capture reference in order of appearance.
func (t Template) References() []Reference {
	var out []Reference

	for _, s := range t.segments {
		if s.ref != nil {
			out = append(out, *s.ref)
		}
	}

	return out
}

// Pattern instantiates the template against the bindings of one match.
func (t Template) Pattern(env *Environment) effect.Pattern {
	snippet := make(effect.Snippet, 0, len(t.segments))

	for _, s := range t.segments {
		switch {
		case s.ref == nil:
			snippet = append(snippet, effect.Text(s.literal))
		case s.ref.Capture == fileNameCapture && s.ref.Field == "":
			snippet = append(snippet, effect.CurrentFile{})
		default:
			snippet = append(snippet, effect.Ref{Binding: env.Resolve(*s.ref)})
		}
	}

	return snippet
}

// Environment holds the bindings of one query match.
type Environment struct {
	captures map[string]binding.Binding
}

// Resolve returns the binding for ref. A capture the match did not bind
// resolves to the undefined constant, which renders as nothing.
func (e *Environment) Resolve(ref Reference) binding.Binding {
	b, ok := e.captures[ref.Capture]
	if !ok {
		return binding.FromConstant(binding.Undefined())
	}

	if ref.Field == "" {
		return b
	}

	node, ok := b.Singleton()
	if !ok {
		return binding.FromConstant(binding.Undefined())
	}

	return fieldBinding(node, ref.Field)
}

// Lookup returns the binding of a capture.
func (e *Environment) Lookup(capture string) (binding.Binding, bool) {
	b, ok := e.captures[capture]

	return b, ok
}

func isIdentifier(s string) bool {
	return s != "" && scanIdentifier(s, 0) == s
}

func scanIdentifier(s string, from int) string {
	end := from

	for end < len(s) {
		c := s[end]

		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if !isLetter && !(isDigit && end > from) {
			break
		}

		end++
	}

	return s[from:end]
}
