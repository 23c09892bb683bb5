package analysislog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	log, err := NewBuilder(LevelEmptyFieldRewrite).
		Message("cannot rewrite").
		File("main.go").
		Position(syntax.NewPosition(3, 7)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, uint16(441), log.Level)
	assert.Equal(t, "main.go:3:7: cannot rewrite", log.String())

	_, err = NewBuilder(LevelInfo).Build()
	require.ErrorIs(t, err, errMissingMessage)
}

func TestLogs_Emit(t *testing.T) {
	t.Parallel()

	var logs Logs

	info, err := NewBuilder(LevelInfo).Message("note").Build()
	require.NoError(t, err)

	warn, err := NewBuilder(LevelEmptyFieldRewrite).Message("empty field").File("a.go").Build()
	require.NoError(t, err)

	logs.Push(info)
	logs.Push(warn)
	assert.Equal(t, 2, logs.Len())

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logs.Emit(context.Background(), logger)

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=note")
	assert.Contains(t, out, `level=WARN msg="empty field" code=441 file=a.go`)
}

func TestLogs_Nil(t *testing.T) {
	t.Parallel()

	var logs *Logs

	assert.Zero(t, logs.Len())
	assert.Nil(t, logs.Entries())
	logs.Emit(context.Background(), slog.Default())
}
