package checksum

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/histbin/bvget/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.zip")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sha256Line(content, filename string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:]) + "  " + filename
}

func TestVerify_Match(t *testing.T) {
	path := writeFixture(t, "candle data")
	match, err := Verify(path, sha256Line("candle data", "fixture.zip"))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerify_MatchIsCaseInsensitive(t *testing.T) {
	path := writeFixture(t, "candle data")
	match, err := Verify(path, strings.ToUpper(sha256Line("candle data", "fixture.zip")))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerify_Mismatch(t *testing.T) {
	path := writeFixture(t, "candle data")
	match, err := Verify(path, sha256Line("different bytes", "fixture.zip"))
	require.NoError(t, err)
	assert.False(t, match)
}

func TestVerify_MD5AndSHA1Inferred(t *testing.T) {
	path := writeFixture(t, "legacy archive")

	md5sum := md5.Sum([]byte("legacy archive")) //nolint:gosec
	match, err := Verify(path, hex.EncodeToString(md5sum[:]))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerify_DigestWithoutFilenameField(t *testing.T) {
	path := writeFixture(t, "candle data")
	sum := sha256.Sum256([]byte("candle data"))
	match, err := Verify(path, hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerify_UnrecognizableDigestIsError(t *testing.T) {
	path := writeFixture(t, "candle data")

	for _, line := range []string{
		"",
		"   ",
		"zzzz  fixture.zip",
		"abcd  fixture.zip", // valid hex, unsupported length
	} {
		_, err := Verify(path, line)
		require.Error(t, err, "line %q", line)
		assert.True(t, errors.Is(err, errors.ErrChecksumFormat), "line %q", line)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	_, err := Verify(filepath.Join(t.TempDir(), "absent"), sha256Line("x", "absent"))
	assert.Error(t, err)
}

func TestParseDigestLine(t *testing.T) {
	digest, err := ParseDigestLine("ABCDEF0123456789abcdef0123456789  name.zip\n")
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123456789abcdef0123456789", digest)

	_, err = ParseDigestLine("not-hex  name.zip")
	assert.Error(t, err)
}
