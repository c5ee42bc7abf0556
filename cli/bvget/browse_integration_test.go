//go:build integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowse_SeededDrilldownDownloads(t *testing.T) {
	bucket, keys := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	outDir := filepath.Join(tempDir, "out")
	writeTempConfig(t, cfgPath, server.URL, outDir)

	// Seeds answer every navigation level; the remaining prompts are the
	// date range (skipped twice) and the download confirmation.
	stdin := "\n\ny\n"
	_, err := runCommand(t, stdin, "--config", cfgPath, "browse",
		"--category", "spot", "--granularity", "daily", "--kind", "klines",
		"--symbol", "BTCUSDT", "--interval", "1m", "--no-verify")
	require.NoError(t, err)

	for _, key := range keys {
		assert.FileExists(t, filepath.Join(outDir, filepath.FromSlash(key)))
	}
}

func TestBrowse_MenuNavigation(t *testing.T) {
	bucket, keys := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	outDir := filepath.Join(tempDir, "out")
	writeTempConfig(t, cfgPath, server.URL, outDir)

	// Navigate all five levels by menu: spot is option 1 at the root and
	// each deeper level has exactly one container. Then skip both dates
	// and confirm.
	stdin := "1\n1\n1\n1\n1\n\n\ny\n"
	output, err := runCommand(t, stdin, "--config", cfgPath, "browse", "--no-verify")
	require.NoError(t, err)

	assert.Contains(t, output, "1) spot")
	assert.FileExists(t, filepath.Join(outDir, filepath.FromSlash(keys[0])))
}

func TestBrowse_DeclinedConfirmationAborts(t *testing.T) {
	bucket, _ := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	outDir := filepath.Join(tempDir, "out")
	writeTempConfig(t, cfgPath, server.URL, outDir)

	stdin := "\n\nn\n"
	output, err := runCommand(t, stdin, "--config", cfgPath, "browse",
		"--category", "spot", "--granularity", "daily", "--kind", "klines",
		"--symbol", "BTCUSDT", "--interval", "1m")
	require.NoError(t, err)

	assert.Contains(t, output, "Aborted.")
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBrowse_UnknownSeedFails(t *testing.T) {
	bucket, _ := seedBucket(t)
	server := bucket.Start(t)

	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, filepath.Join(tempDir, "out"))

	_, err := runCommand(t, "", "--config", cfgPath, "browse", "--category", "margin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"margin"`)
}
