package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	info := Info{Version: "0.3.1"}

	ok, err := info.Satisfies(">= 0.1, < 1.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = info.Satisfies(">= 1.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Info{Version: "dev"}.Satisfies(">= 0.1")
	assert.Error(t, err)

	_, err = info.Satisfies("???")
	assert.Error(t, err)
}

func TestStrings(t *testing.T) {
	info := Get()
	assert.Contains(t, info.String(), "pgops version "+Version)
	assert.Contains(t, info.FullString(), "Git Commit: "+GitCommit)
}
