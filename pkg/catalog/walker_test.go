package catalog_test

import (
	"context"
	"testing"

	"github.com/histbin/bvget/pkg/catalog"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/remote"
	"github.com/histbin/bvget/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBucket(bucket *testutil.Bucket) {
	bucket.PutObject("data/spot/daily/klines/BTCUSDT/1m/BTCUSDT-1m-2023-01-01.zip", []byte("a"))
	bucket.PutObject("data/spot/daily/klines/BTCUSDT/1m/BTCUSDT-1m-2023-01-02.zip", []byte("b"))
	bucket.PutObject("data/spot/daily/klines/BTCUSDT/1m/BTCUSDT-1m-2023-01-03.zip", []byte("c"))
	bucket.PutObject("data/spot/daily/klines/ETHUSDT/1m/ETHUSDT-1m-2023-01-01.zip", []byte("d"))
	bucket.PutObject("data/futures/monthly/trades/BTCUSDT/BTCUSDT-trades-2023-01.zip", []byte("e"))
}

func newWalker(t *testing.T, bucket *testutil.Bucket, retries int) *catalog.Walker {
	t.Helper()
	server := bucket.Start(t)
	client := remote.New(remote.Options{ListingURL: server.URL, DownloadURL: server.URL})
	return catalog.NewWalker(client, retries)
}

func TestListChildren_SeparatesContainersAndFiles(t *testing.T) {
	bucket := testutil.NewBucket()
	seedBucket(bucket)
	walker := newWalker(t, bucket, 0)

	children, err := walker.ListChildren(context.Background(), "data/")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "data/spot/", children[0].Key)
	assert.Equal(t, "data/futures/", children[1].Key)
	for _, child := range children {
		assert.Equal(t, catalog.KindContainer, child.Kind)
	}

	files, err := walker.ListChildren(context.Background(), "data/spot/daily/klines/BTCUSDT/1m/")
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, file := range files {
		assert.Equal(t, catalog.KindFile, file.Kind)
		assert.EqualValues(t, 1, file.Size)
		assert.False(t, file.LastModified.IsZero())
	}
}

func TestListChildren_PageSizeIndependence(t *testing.T) {
	baseline := func() []catalog.Node {
		bucket := testutil.NewBucket()
		seedBucket(bucket)
		walker := newWalker(t, bucket, 0)
		children, err := walker.ListChildren(context.Background(), "data/spot/daily/klines/BTCUSDT/1m/")
		require.NoError(t, err)
		return children
	}()

	for _, pageSize := range []int{1, 2, 3, 100} {
		bucket := testutil.NewBucket()
		seedBucket(bucket)
		bucket.PageSize = pageSize
		walker := newWalker(t, bucket, 0)

		children, err := walker.ListChildren(context.Background(), "data/spot/daily/klines/BTCUSDT/1m/")
		require.NoError(t, err, "page size %d", pageSize)
		require.Len(t, children, len(baseline), "page size %d", pageSize)
		for i, child := range children {
			assert.Equal(t, baseline[i].Key, child.Key, "page size %d", pageSize)
		}
	}
}

func TestListChildren_EmptyContainerIsValid(t *testing.T) {
	bucket := testutil.NewBucket()
	seedBucket(bucket)
	walker := newWalker(t, bucket, 0)

	children, err := walker.ListChildren(context.Background(), "data/empty/")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestListChildren_MemoizesExpansion(t *testing.T) {
	bucket := testutil.NewBucket()
	seedBucket(bucket)
	walker := newWalker(t, bucket, 0)

	first, err := walker.ListChildren(context.Background(), "data/")
	require.NoError(t, err)

	// New objects appearing after expansion are not re-fetched within the
	// same traversal session.
	bucket.PutObject("data/options/daily/x/file.zip", []byte("f"))
	second, err := walker.ListChildren(context.Background(), "data/")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListChildren_NodeKindIsStable(t *testing.T) {
	bucket := testutil.NewBucket()
	seedBucket(bucket)
	walker := newWalker(t, bucket, 0)

	_, err := walker.ListChildren(context.Background(), "data/")
	require.NoError(t, err)

	node, ok := walker.Store().Get("data/spot/")
	require.True(t, ok)
	assert.True(t, node.IsContainer())
}

func TestListChildren_ListingFailureSurfacesWalkerError(t *testing.T) {
	bucket := testutil.NewBucket()
	server := bucket.Start(t)
	server.Close() // force connection errors

	client := remote.New(remote.Options{ListingURL: server.URL, DownloadURL: server.URL})
	walker := catalog.NewWalker(client, 0)

	_, err := walker.ListChildren(context.Background(), "data/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrListing))
}
