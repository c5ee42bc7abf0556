//go:generate mockgen -destination=./mocks/catalog.go . Lister

package catalog

import (
	"context"

	"github.com/histbin/bvget/internal/logger"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/remote"
)

// Lister is the catalog operation the CLI layer consumes.
type Lister interface {
	// ListChildren returns every immediate child of prefix, following the
	// listing protocol's pagination to exhaustion.
	ListChildren(ctx context.Context, prefix string) ([]Node, error)
}

// listClient is the slice of remote.Client the walker needs.
type listClient interface {
	List(ctx context.Context, params map[string]string) ([]byte, error)
}

// Walker expands bucket prefixes into catalog nodes. Expansion results are
// memoized per prefix in the node store, so repeated navigation over the same
// container costs one round of requests.
type Walker struct {
	client  listClient
	store   *Store
	retries int
}

// NewWalker creates a Walker issuing listings through client, retrying each
// page request up to retries additional times.
func NewWalker(client listClient, retries int) *Walker {
	return &Walker{
		client:  client,
		store:   NewStore(),
		retries: retries,
	}
}

// Store exposes the node arena backing the walker.
func (w *Walker) Store() *Store { return w.store }

// ListChildren implements Lister. Children are returned in discovery order,
// containers and files interleaved as the listing reports them, deduplicated
// across page boundaries. An empty result for a well-formed container is
// valid, not an error.
func (w *Walker) ListChildren(ctx context.Context, prefix string) ([]Node, error) {
	if nodes, ok := w.store.childrenOf(prefix); ok {
		return nodes, nil
	}

	var (
		keys  []string
		seen  = make(map[string]bool)
		token string
	)

	for {
		page, err := w.fetchPage(ctx, prefix, token)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrListing, "prefix %q: %v", prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			if cp.Prefix == "" || seen[cp.Prefix] {
				continue
			}
			seen[cp.Prefix] = true
			keys = append(keys, cp.Prefix)
			w.store.put(Node{Key: cp.Prefix, Kind: KindContainer})
		}
		for _, obj := range page.Contents {
			if obj.Key == "" || obj.Key == prefix || seen[obj.Key] {
				continue
			}
			seen[obj.Key] = true
			keys = append(keys, obj.Key)
			w.store.put(Node{
				Key:          obj.Key,
				Kind:         KindFile,
				Size:         obj.Size,
				LastModified: obj.LastModified.Time,
			})
		}

		if !page.IsTruncated || page.NextContinuationToken == "" {
			break
		}
		token = page.NextContinuationToken
	}

	w.store.setChildren(prefix, keys)
	nodes, _ := w.store.childrenOf(prefix)
	logger.Debug("listed prefix", logger.Fields{"prefix": prefix, "children": len(nodes)})
	return nodes, nil
}

// fetchPage requests and parses one listing page under the shared retry
// policy. A parse failure counts as a failed request and is retried; a page
// that parses but carries no recognizable elements is an empty page.
func (w *Walker) fetchPage(ctx context.Context, prefix, token string) (*listBucketResult, error) {
	params := map[string]string{
		"list-type": "2",
		"delimiter": "/",
		"prefix":    prefix,
	}
	if token != "" {
		params["continuation-token"] = token
	}

	var page *listBucketResult
	_, err := remote.Do(ctx, w.retries, func(ctx context.Context) error {
		body, err := w.client.List(ctx, params)
		if err != nil {
			return err
		}
		parsed, err := parseListing(body)
		if err != nil {
			return errors.Wrap(err, "malformed listing page")
		}
		page = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
