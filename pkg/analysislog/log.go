// Package analysislog collects non-fatal diagnostics produced while matching
// and rewriting, so they can be reported per file instead of aborting a run.
package analysislog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// Diagnostic levels. Anything at or above LevelWarn is surfaced as a warning.
const (
	LevelInfo              uint16 = 200
	LevelWarn              uint16 = 400
	LevelEmptyFieldRewrite uint16 = 441
	LevelError             uint16 = 500
)

var errMissingMessage = errors.New("analysis log requires a message")

// Log is one diagnostic entry.
type Log struct {
	Level    uint16           `json:"level"`
	Message  string           `json:"message"`
	File     string           `json:"file,omitempty"`
	Source   string           `json:"-"`
	Position *syntax.Position `json:"position,omitempty"`
	Range    *syntax.Range    `json:"range,omitempty"`
	SExp     string           `json:"syntax_tree,omitempty"`
}

func (l Log) String() string {
	if l.Position != nil {
		return fmt.Sprintf("%s:%d:%d: %s", l.File, l.Position.Line, l.Position.Column, l.Message)
	}

	if l.File != "" {
		return l.File + ": " + l.Message
	}

	return l.Message
}

// Builder assembles a Log field by field.
type Builder struct {
	log Log
}

// NewBuilder starts a Log at the given level.
func NewBuilder(level uint16) *Builder {
	return &Builder{log: Log{Level: level}}
}

// Message sets the message.
func (b *Builder) Message(msg string) *Builder {
	b.log.Message = msg

	return b
}

// File sets the file name.
func (b *Builder) File(name string) *Builder {
	b.log.File = name

	return b
}

// Source attaches the source text the log refers to.
func (b *Builder) Source(src string) *Builder {
	b.log.Source = src

	return b
}

// Position sets the start position.
func (b *Builder) Position(pos syntax.Position) *Builder {
	b.log.Position = &pos

	return b
}

// Range sets the full range.
func (b *Builder) Range(r syntax.Range) *Builder {
	b.log.Range = &r

	return b
}

// SyntaxTree attaches an s-expression dump.
func (b *Builder) SyntaxTree(sexp string) *Builder {
	b.log.SExp = sexp

	return b
}

// Build returns the assembled Log.
func (b *Builder) Build() (Log, error) {
	if b.log.Message == "" {
		return Log{}, errMissingMessage
	}

	return b.log, nil
}

// Logs is an append-only diagnostic sink owned by one rewrite invocation.
// It is not safe for concurrent use.
type Logs struct {
	entries []Log
}

// Push appends a log.
func (l *Logs) Push(entry Log) {
	l.entries = append(l.entries, entry)
}

// Len returns the number of collected logs.
func (l *Logs) Len() int {
	if l == nil {
		return 0
	}

	return len(l.entries)
}

// Entries returns the collected logs in push order.
func (l *Logs) Entries() []Log {
	if l == nil {
		return nil
	}

	return l.entries
}

// Emit writes every log through logger. Levels at or above LevelWarn are
// logged as warnings, the rest as info.
func (l *Logs) Emit(ctx context.Context, logger *slog.Logger) {
	if l == nil || logger == nil {
		return
	}

	for _, entry := range l.entries {
		level := slog.LevelInfo
		if entry.Level >= LevelWarn {
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{slog.Int("code", int(entry.Level))}
		if entry.File != "" {
			attrs = append(attrs, slog.String("file", entry.File))
		}

		if entry.Position != nil {
			attrs = append(attrs, slog.Int("line", entry.Position.Line), slog.Int("column", entry.Position.Column))
		}

		logger.LogAttrs(ctx, level, entry.Message, attrs...)
	}
}
