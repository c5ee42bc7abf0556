package testutil

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// ZipBytes builds a ZIP archive containing the given entries, written in
// sorted name order so tests can assert extraction order.
func ZipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range names {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

// TraversalZipBytes builds a ZIP archive whose single entry escapes the
// extraction directory.
func TraversalZipBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.CreateHeader(&zip.FileHeader{Name: "../evil.txt", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = entry.Write([]byte("smuggled"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

// DigestLine produces the conventional "<hex digest>  <filename>" checksum
// line for data using SHA-256.
func DigestLine(data []byte, filename string) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), filename)
}
