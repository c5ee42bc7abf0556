// Package archive expands downloaded ZIP archives. Entry paths are validated
// before anything is written: an archive carrying a traversal entry fails as
// a whole and leaves the target directory untouched.
package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/fsutil"
	"github.com/mholt/archives"
)

// Manager handles archive extraction operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll extracts every entry of the ZIP at archivePath into destDir,
// creating intermediate directories as needed, and returns the extracted
// file paths in archive order. The archive is scanned in full before the
// first write, so a rejected entry means no partial extraction.
func (m *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) ([]string, error) {
	if err := m.scan(ctx, archivePath); err != nil {
		return nil, err
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return nil, errors.Wrap(err, "could not create extraction directory")
	}

	var extracted []string
	err := m.walk(ctx, archivePath, func(_ context.Context, info archives.FileInfo) error {
		targetPath := filepath.Join(destDir, filepath.FromSlash(info.NameInArchive))
		if info.IsDir() {
			return fsutil.EnsureDir(targetPath)
		}
		if err := m.writeEntry(info, targetPath); err != nil {
			return err
		}
		extracted = append(extracted, targetPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return extracted, nil
}

// scan validates every entry path without writing anything.
func (m *Manager) scan(ctx context.Context, archivePath string) error {
	return m.walk(ctx, archivePath, func(_ context.Context, info archives.FileInfo) error {
		name := filepath.FromSlash(info.NameInArchive)
		if filepath.IsAbs(name) || !filepath.IsLocal(name) {
			return errors.Wrapf(errors.ErrInsecureArchivePath, "entry %q in %s", info.NameInArchive, archivePath)
		}
		return nil
	})
}

// walk runs handle over each entry of the ZIP at archivePath.
func (m *Manager) walk(ctx context.Context, archivePath string, handle archives.FileHandler) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive file")
	}
	defer func() { _ = file.Close() }()

	if err := (archives.Zip{}).Extract(ctx, file, handle); err != nil {
		// Surface the sentinel unobscured when an entry was rejected.
		if errors.Is(err, errors.ErrInsecureArchivePath) {
			return err
		}
		return errors.Wrapf(err, "failed to extract %s", archivePath)
	}
	return nil
}

// writeEntry copies one archive entry to targetPath.
func (m *Manager) writeEntry(info archives.FileInfo, targetPath string) error {
	src, err := info.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open entry %s", info.NameInArchive)
	}
	defer func() { _ = src.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for %s", targetPath)
	}

	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", targetPath)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "failed to write %s", targetPath)
	}
	return nil
}
