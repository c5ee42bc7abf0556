// Package checksum verifies downloaded files against the digest line served
// by their checksum sibling object.
package checksum

import (
	"crypto/md5"  //nolint:gosec // legacy checksum objects use MD5
	"crypto/sha1" //nolint:gosec // legacy checksum objects use SHA-1
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/histbin/bvget/pkg/errors"
)

// Hex digest lengths used to infer the algorithm; the checksum object names
// no algorithm itself.
const (
	hexLenMD5    = 32
	hexLenSHA1   = 40
	hexLenSHA256 = 64
)

// ParseDigestLine extracts the digest token from the conventional
// "<hex digest>  <filename>" line. The filename field is informational and
// may be absent. The digest is returned lowercased.
func ParseDigestLine(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", errors.Wrap(errors.ErrChecksumFormat, "empty digest line")
	}
	digest := strings.ToLower(fields[0])
	if _, err := hex.DecodeString(digest); err != nil {
		return "", errors.Wrapf(errors.ErrChecksumFormat, "digest %q is not hexadecimal", fields[0])
	}
	if _, err := hasherFor(digest); err != nil {
		return "", err
	}
	return digest, nil
}

// Verify recomputes the digest of the file at path and compares it against
// the digest parsed from expectedLine, case-insensitively. The file is read
// as a stream, never loaded whole. It returns true on match, false on
// mismatch; an error means verification could not be carried out.
func Verify(path, expectedLine string) (bool, error) {
	expected, err := ParseDigestLine(expectedLine)
	if err != nil {
		return false, err
	}

	hasher, err := hasherFor(expected)
	if err != nil {
		return false, err
	}

	file, err := os.Open(path)
	if err != nil {
		return false, errors.Wrap(err, "open for checksum")
	}
	defer func() { _ = file.Close() }()

	if _, err := io.Copy(hasher, file); err != nil {
		return false, errors.Wrap(err, "hashing")
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	return actual == expected, nil
}

// hasherFor picks the digest algorithm implied by the hex digest length.
func hasherFor(digest string) (hash.Hash, error) {
	switch len(digest) {
	case hexLenMD5:
		return md5.New(), nil //nolint:gosec
	case hexLenSHA1:
		return sha1.New(), nil //nolint:gosec
	case hexLenSHA256:
		return sha256.New(), nil
	default:
		return nil, errors.Wrapf(errors.ErrChecksumFormat, "unsupported digest length %d", len(digest))
	}
}
