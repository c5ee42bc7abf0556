// Package testutil hosts the in-process bucket simulator and archive fixture
// builders the network-facing tests run against.
package testutil

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Bucket simulates an S3-style object store: a keyed object corpus served
// over HTTP with the paginated V2 listing protocol on the root path and
// object GETs on key paths. Per-key status scripts let tests exercise the
// retry policy, and an in-flight high-water counter observes the concurrency
// bound.
type Bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	order   []string

	// PageSize bounds the number of entries per listing page; 0 means
	// everything on one page.
	PageSize int

	// Latency is added to every object GET so transfers overlap.
	Latency time.Duration

	statusScripts map[string][]int

	inFlight    int
	maxInFlight int
}

// NewBucket creates an empty bucket simulator.
func NewBucket() *Bucket {
	return &Bucket{
		objects:       make(map[string][]byte),
		statusScripts: make(map[string][]int),
	}
}

// PutObject stores an object. Listing order follows insertion order.
func (b *Bucket) PutObject(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.objects[key]; !exists {
		b.order = append(b.order, key)
	}
	b.objects[key] = data
}

// ScriptStatus queues status codes for the next GETs of key; once the queue
// drains, requests are served normally.
func (b *Bucket) ScriptStatus(key string, codes ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusScripts[key] = append(b.statusScripts[key], codes...)
}

// MaxInFlight returns the high-water mark of concurrent object GETs.
func (b *Bucket) MaxInFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxInFlight
}

// Start serves the bucket from an httptest server torn down with the test.
func (b *Bucket) Start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)
	return server
}

// ServeHTTP implements http.Handler.
func (b *Bucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("list-type") != "" || r.URL.Query().Has("prefix") {
		b.serveListing(w, r)
		return
	}
	b.serveObject(w, r)
}

type xmlListing struct {
	XMLName               xml.Name          `xml:"ListBucketResult"`
	IsTruncated           bool              `xml:"IsTruncated"`
	NextContinuationToken string            `xml:"NextContinuationToken,omitempty"`
	CommonPrefixes        []xmlCommonPrefix `xml:"CommonPrefixes"`
	Contents              []xmlContents     `xml:"Contents"`
}

type xmlCommonPrefix struct {
	Prefix string `xml:"Prefix"`
}

type xmlContents struct {
	Key          string `xml:"Key"`
	Size         int    `xml:"Size"`
	LastModified string `xml:"LastModified"`
}

// listEntry is one child of the listed prefix, container or object.
type listEntry struct {
	key       string
	container bool
	size      int
}

func (b *Bucket) serveListing(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	token := r.URL.Query().Get("continuation-token")

	entries := b.childrenOf(prefix)

	start := 0
	if token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil {
			http.Error(w, "bad continuation token", http.StatusBadRequest)
			return
		}
		start = parsed
	}

	end := len(entries)
	truncated := false
	if b.PageSize > 0 && start+b.PageSize < len(entries) {
		end = start + b.PageSize
		truncated = true
	}

	listing := xmlListing{IsTruncated: truncated}
	if truncated {
		listing.NextContinuationToken = strconv.Itoa(end)
	}
	for _, entry := range entries[start:end] {
		if entry.container {
			listing.CommonPrefixes = append(listing.CommonPrefixes, xmlCommonPrefix{Prefix: entry.key})
		} else {
			listing.Contents = append(listing.Contents, xmlContents{
				Key:          entry.key,
				Size:         entry.size,
				LastModified: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	body, err := xml.Marshal(listing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Fprint(w, xml.Header)
	_, _ = w.Write(body)
}

// childrenOf computes the immediate children of prefix under delimiter "/",
// sub-prefixes first, in stable insertion order.
func (b *Bucket) childrenOf(prefix string) []listEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var containers, files []listEntry
	seen := make(map[string]bool)
	for _, key := range b.order {
		if !strings.HasPrefix(key, prefix) || key == prefix {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if idx := strings.Index(rest, "/"); idx >= 0 {
			sub := prefix + rest[:idx+1]
			if !seen[sub] {
				seen[sub] = true
				containers = append(containers, listEntry{key: sub, container: true})
			}
			continue
		}
		files = append(files, listEntry{key: key, size: len(b.objects[key])})
	}
	return append(containers, files...)
}

func (b *Bucket) serveObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	b.mu.Lock()
	if script := b.statusScripts[key]; len(script) > 0 {
		code := script[0]
		b.statusScripts[key] = script[1:]
		b.mu.Unlock()
		if code != http.StatusOK {
			http.Error(w, http.StatusText(code), code)
			return
		}
	} else {
		b.mu.Unlock()
	}

	b.enterObjectGet()
	defer b.leaveObjectGet()
	if b.Latency > 0 {
		time.Sleep(b.Latency)
	}

	b.mu.Lock()
	data, ok := b.objects[key]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(data)
}

func (b *Bucket) enterObjectGet() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
}

func (b *Bucket) leaveObjectGet() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
}

// Keys returns the stored keys in sorted order, for assertions.
func (b *Bucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, len(b.order))
	copy(keys, b.order)
	sort.Strings(keys)
	return keys
}
