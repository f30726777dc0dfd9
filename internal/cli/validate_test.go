package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionvision/orion/internal/errors"
)

func TestValidateListsCriteria(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	out, err := executeCLI(t, "validate")
	require.NoError(t, err)

	assert.Contains(t, out, "file_creation")
	assert.Contains(t, out, "command_output")
	assert.Contains(t, out, "performance")
}

func TestValidateFileCreationPasses(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	target := filepath.Join(t.TempDir(), "exists.txt")
	require.NoError(t, os.WriteFile(target, []byte("expected payload"), 0o600))

	out, err := executeCLI(t, "validate", "file_creation",
		"--param", "filename="+target,
		"--param", "expected_content=expected payload")
	require.NoError(t, err)
	assert.Contains(t, out, "pass")
	assert.NotContains(t, out, "FAIL")
}

func TestValidateFileCreationFails(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	out, err := executeCLI(t, "validate", "file_creation",
		"--param", "filename="+filepath.Join(t.TempDir(), "ghost.txt"))
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
	assert.Contains(t, out, "FAIL")
}

func TestValidateUnknownCriteria(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	_, err := executeCLI(t, "validate", "telemetry")
	assert.ErrorIs(t, err, errors.ErrCriteriaNotFound)
}
