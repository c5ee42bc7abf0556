//go:build integration

package main

import (
	"path/filepath"
	"testing"

	"github.com/histbin/bvget/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLs_RootListsCategories(t *testing.T) {
	bucket, _ := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, filepath.Join(tempDir, "out"))

	output, err := runCommand(t, "", "--config", cfgPath, "ls")
	require.NoError(t, err)

	assert.Contains(t, output, "spot/")
	assert.Contains(t, output, "futures/")
}

func TestLs_FilePrefixLongFormat(t *testing.T) {
	bucket, _ := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, filepath.Join(tempDir, "out"))

	output, err := runCommand(t, "", "--config", cfgPath, "ls", klinesPrefix, "--long")
	require.NoError(t, err)

	assert.Contains(t, output, "BTCUSDT-1m-2023-01-01.zip")
	assert.Contains(t, output, "BTCUSDT-1m-2023-01-01.zip.CHECKSUM")
	assert.Contains(t, output, " B  ", "size column is rendered")
}

func TestLs_PaginatedListingIsComplete(t *testing.T) {
	bucket, keys := seedBucket(t)
	bucket.PageSize = 2
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, filepath.Join(tempDir, "out"))

	output, err := runCommand(t, "", "--config", cfgPath, "ls", klinesPrefix)
	require.NoError(t, err)

	for _, key := range keys {
		assert.Contains(t, output, filepath.Base(key))
	}
}

func TestLs_ServerDownReportsListingError(t *testing.T) {
	bucket, _ := seedBucket(t)
	server := bucket.Start(t)
	server.Close()

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, filepath.Join(tempDir, "out"))

	_, err := runCommand(t, "", "--config", cfgPath, "ls")
	assert.ErrorIs(t, err, errors.ErrListing)
}
