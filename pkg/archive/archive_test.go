package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/histbin/bvget/pkg/archive"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtractAll_WritesEntriesInOrder(t *testing.T) {
	entries := map[string]string{
		"BTCUSDT-1m-2023-01-01.csv": "open,high,low,close",
		"nested/metadata.txt":       "exchange info",
	}
	archivePath := writeArchive(t, testutil.ZipBytes(t, entries))
	destDir := filepath.Join(t.TempDir(), "out")

	extracted, err := archive.NewManager().ExtractAll(context.Background(), archivePath, destDir)
	require.NoError(t, err)
	require.Len(t, extracted, 2)
	assert.Equal(t, filepath.Join(destDir, "BTCUSDT-1m-2023-01-01.csv"), extracted[0])
	assert.Equal(t, filepath.Join(destDir, "nested", "metadata.txt"), extracted[1])

	for name, content := range entries {
		data, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	}
}

func TestExtractAll_RejectsTraversalEntry(t *testing.T) {
	archivePath := writeArchive(t, testutil.TraversalZipBytes(t))
	parent := t.TempDir()
	destDir := filepath.Join(parent, "out")

	_, err := archive.NewManager().ExtractAll(context.Background(), archivePath, destDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsecureArchivePath))

	// Nothing was written: the target directory was never even created, and
	// the smuggled path does not exist outside it.
	_, statErr := os.Stat(destDir)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(parent, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractAll_CorruptArchiveFails(t *testing.T) {
	archivePath := writeArchive(t, []byte("this is not a zip file"))
	destDir := filepath.Join(t.TempDir(), "out")

	_, err := archive.NewManager().ExtractAll(context.Background(), archivePath, destDir)
	assert.Error(t, err)
}

func TestExtractAll_MissingArchiveFails(t *testing.T) {
	_, err := archive.NewManager().ExtractAll(context.Background(), filepath.Join(t.TempDir(), "absent.zip"), t.TempDir())
	assert.Error(t, err)
}
