package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_Stamped(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date

	t.Cleanup(func() {
		Version, Commit, Date = oldVersion, oldCommit, oldDate
	})

	Version, Commit, Date = "v1.2.3", "abc1234", "2026-01-02"

	assert.Equal(t, "v1.2.3 (commit: abc1234, built: 2026-01-02)", String())
}

func TestString_Defaults(t *testing.T) {
	t.Parallel()

	assert.Contains(t, String(), "(commit: none, built: unknown)")
}
