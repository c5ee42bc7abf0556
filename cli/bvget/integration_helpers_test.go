//go:build integration

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/histbin/bvget/pkg/fsutil"
	"github.com/histbin/bvget/test/testutil"
	"github.com/stretchr/testify/require"
)

const klinesPrefix = "data/spot/daily/klines/BTCUSDT/1m/"

// seedBucket populates a bucket with a realistic two-category hierarchy and
// returns the archive keys under the klines prefix, in listing order.
func seedBucket(t *testing.T) (*testutil.Bucket, []string) {
	t.Helper()
	bucket := testutil.NewBucket()

	var keys []string
	for day := 1; day <= 3; day++ {
		name := fmt.Sprintf("BTCUSDT-1m-2023-01-%02d.zip", day)
		key := klinesPrefix + name
		data := testutil.ZipBytes(t, map[string]string{
			fmt.Sprintf("BTCUSDT-1m-2023-01-%02d.csv", day): "open,high,low,close",
		})
		bucket.PutObject(key, data)
		bucket.PutObject(key+".CHECKSUM", []byte(testutil.DigestLine(data, name)))
		keys = append(keys, key)
	}

	// A sibling category so the root listing has more than one container.
	bucket.PutObject("data/futures/um/daily/klines/BTCUSDT/1m/BTCUSDT-1m-2023-01-01.zip",
		testutil.ZipBytes(t, map[string]string{"BTCUSDT-1m-2023-01-01.csv": "o,h,l,c"}))

	return bucket, keys
}

// writeTempConfig writes a config file pointing both endpoints at serverURL.
func writeTempConfig(t *testing.T, cfgPath, serverURL, outDir string) {
	t.Helper()
	content := fmt.Sprintf(`settings:
  listing_url: %s
  download_url: %s
  output_dir: %s
  concurrency: 2
  retries: 1
`, serverURL, serverURL, outDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), fsutil.DirModeDefault))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), fsutil.FileModeDefault))
}

// runCommand executes the root command with args and optional scripted stdin,
// returning the combined command output.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
