package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionvision/orion/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.True(t, IsValidOutputFormat("JSON"))
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	params, err := parseParams([]string{
		"filename=/tmp/out.txt",
		"retry_count=3",
		"overwrite=true",
		"content=a=b",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out.txt", params["filename"])
	assert.Equal(t, 3, params["retry_count"])
	assert.Equal(t, true, params["overwrite"])
	assert.Equal(t, "a=b", params["content"])
}

func TestParseParamsEmpty(t *testing.T) {
	t.Parallel()

	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestParseParamsMalformed(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"novalue", "=value"} {
		_, err := parseParams([]string{bad})
		assert.ErrorIs(t, err, errors.ErrInvalidParameter, bad)
	}
}

func TestMergeParamsOverridesWin(t *testing.T) {
	t.Parallel()

	base := map[string]any{"filename": "a.txt", "expected_content": "x"}
	merged := mergeParams(base, map[string]any{"filename": "b.txt"})

	assert.Equal(t, "b.txt", merged["filename"])
	assert.Equal(t, "x", merged["expected_content"])
	assert.Equal(t, "a.txt", base["filename"])
}
