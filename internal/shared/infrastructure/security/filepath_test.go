package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects dangerous shell characters", func(t *testing.T) {
		for _, char := range dangerousChars {
			_, err := ValidateFilePath("/tmp/test" + char + "file")
			assert.Error(t, err, "expected error for character %q", char)
		}
	})

	t.Run("converts relative path to absolute", func(t *testing.T) {
		result, err := ValidateFilePath("intakes.ics")
		assert.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		tmpDir := t.TempDir()
		realFile := filepath.Join(tmpDir, "real.ics")
		require.NoError(t, os.WriteFile(realFile, []byte("test"), 0o644))
		linkFile := filepath.Join(tmpDir, "link.ics")
		require.NoError(t, os.Symlink(realFile, linkFile))

		result, err := ValidateFilePath(linkFile)
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(realFile)
		assert.Equal(t, expected, result)
	})

	t.Run("cleans path traversal", func(t *testing.T) {
		tmpDir := t.TempDir()
		result, err := ValidateFilePath(filepath.Join(tmpDir, "subdir", "..", "test.ics"))
		require.NoError(t, err)
		assert.NotContains(t, result, "..")
	})
}

func TestValidateOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ValidateOutputPath(filepath.Join(tmpDir, "intakes.ICS"), ".ics")
	assert.NoError(t, err)

	_, err = ValidateOutputPath(filepath.Join(tmpDir, "intakes.txt"), ".ics")
	assert.Error(t, err)

	_, err = ValidateOutputPath(tmpDir)
	assert.Error(t, err, "directories are not writable targets")
}

func TestSafeCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ics")

	f, err := SafeCreate(path, ".ics")
	require.NoError(t, err)
	_, err = f.WriteString("BEGIN:VCALENDAR")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(data))
}
