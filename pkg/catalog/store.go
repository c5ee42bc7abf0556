package catalog

import "sync"

// Store is the node arena: every node discovered during a traversal session
// lives here, indexed by key, and container children are recorded as key
// lists rather than object references. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]Node
	children map[string][]string
}

// NewStore creates an empty node arena.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[string]Node),
		children: make(map[string][]string),
	}
}

// Get returns the node for key if it has been discovered.
func (s *Store) Get(key string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[key]
	return node, ok
}

// put records a node, keeping the first observed kind for a key. Listings
// never report a path as both container and file, so a repeat is always the
// same node seen on another page.
func (s *Store) put(node Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[node.Key]; !exists {
		s.nodes[node.Key] = node
	}
}

// setChildren memoizes the fully-paginated child list of a container.
func (s *Store) setChildren(prefix string, keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[prefix] = keys
}

// childrenOf returns the memoized child nodes of prefix, in discovery order.
// The second result is false when the prefix has not been expanded yet.
func (s *Store) childrenOf(prefix string) ([]Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys, ok := s.children[prefix]
	if !ok {
		return nil, false
	}
	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		if node, exists := s.nodes[key]; exists {
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}
