// Package catalog turns the bucket's flat, paginated key listing into a
// navigable tree of containers and files. Children are discovered lazily: a
// prefix is listed only when it is expanded, and the results are memoized in
// a node store for the lifetime of the walker.
package catalog

import (
	"strings"
	"time"
)

// Kind distinguishes folder-like prefixes from downloadable objects.
type Kind int

const (
	// KindContainer is a common prefix: it has children, fetched on demand.
	KindContainer Kind = iota
	// KindFile is a listed object and can be downloaded.
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "container"
}

// Node is one path segment in the bucket's virtual filesystem. A node's kind
// is fixed by the listing that revealed it; Size and LastModified are only
// meaningful for KindFile.
type Node struct {
	Key          string
	Kind         Kind
	Size         int64
	LastModified time.Time
}

// Name returns the last path segment of the node's key, without the trailing
// slash containers carry.
func (n Node) Name() string {
	key := strings.TrimSuffix(n.Key, "/")
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// IsContainer reports whether the node can be expanded further.
func (n Node) IsContainer() bool { return n.Kind == KindContainer }
