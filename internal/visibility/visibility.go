// Package visibility tracks which collectibles have been found and persists the set
// through a kv.Store. The in-memory slice is authoritative; every mutation is followed by
// an explicit full-set save.
package visibility

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"explore-engine/internal/kv"
)

// DefaultKey is the fixed storage key for the discovered set.
const DefaultKey = "stoneVisibility"

const payloadVersion = 1

// payload is the persisted document. Foreign ids (collectibles no longer in the dataset)
// are carried through saves so progress survives a temporarily trimmed dataset.
type payload struct {
	Version    int   `json:"version"`
	Discovered []int `json:"discovered"`
}

// Store is the discovered flag per collectible, in dataset order.
type Store struct {
	backend    kv.Store
	key        string
	ids        []int
	position   map[int]int
	discovered []bool
	foreign    []int
	log        *slog.Logger
}

// New returns a store for the collectibles ids (dataset order). Nothing is discovered
// until Load hydrates it.
func New(backend kv.Store, key string, ids []int, log *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		backend:    backend,
		key:        key,
		ids:        append([]int(nil), ids...),
		position:   make(map[int]int, len(ids)),
		discovered: make([]bool, len(ids)),
		log:        log.With("component", "visibility"),
	}
	for i, id := range ids {
		s.position[id] = i
	}
	return s
}

// Load hydrates the store. A missing document starts fresh and writes the fresh state; so
// does a document that cannot be parsed. Only backend I/O failures are returned, and the
// store is left fresh in memory in that case.
func (s *Store) Load(ctx context.Context) error {
	s.clear()
	if s.backend == nil {
		return nil
	}
	raw, ok, err := s.backend.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load visibility: %w", err)
	}
	if !ok {
		return s.Save(ctx)
	}
	if err := s.merge(raw); err != nil {
		s.log.Warn("discarding unreadable visibility state", "key", s.key, "error", err)
		s.clear()
		return s.Save(ctx)
	}
	return nil
}

func (s *Store) clear() {
	for i := range s.discovered {
		s.discovered[i] = false
	}
	s.foreign = nil
}

// merge applies a stored document onto the current dataset. Two layouts are understood:
// the versioned id list written by Save, and the legacy positional array of "still
// visible" flags.
func (s *Store) merge(raw []byte) error {
	var legacy []bool
	if err := json.Unmarshal(raw, &legacy); err == nil {
		for i, visible := range legacy {
			if i < len(s.discovered) {
				s.discovered[i] = !visible
			}
		}
		return nil
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.Version != payloadVersion {
		return fmt.Errorf("unsupported version %d", p.Version)
	}
	for _, id := range p.Discovered {
		if i, ok := s.position[id]; ok {
			s.discovered[i] = true
			continue
		}
		s.foreign = append(s.foreign, id)
	}
	return nil
}

// Len returns the number of tracked collectibles.
func (s *Store) Len() int {
	return len(s.discovered)
}

// Discovered reports whether the i-th collectible has been found.
func (s *Store) Discovered(i int) bool {
	if i < 0 || i >= len(s.discovered) {
		return false
	}
	return s.discovered[i]
}

// Count returns how many collectibles have been found.
func (s *Store) Count() int {
	n := 0
	for _, d := range s.discovered {
		if d {
			n++
		}
	}
	return n
}

// DiscoveredIDs returns the found collectible ids, sorted, including carried foreign ids.
func (s *Store) DiscoveredIDs() []int {
	out := make([]int, 0, len(s.foreign)+len(s.discovered))
	out = append(out, s.foreign...)
	for i, d := range s.discovered {
		if d {
			out = append(out, s.ids[i])
		}
	}
	sort.Ints(out)
	return out
}

// Discover marks the i-th collectible found and persists the whole set. changed is false
// when it was already found (nothing is written). The flag flips even if the save fails;
// the next save writes it.
func (s *Store) Discover(ctx context.Context, i int) (changed bool, err error) {
	if i < 0 || i >= len(s.discovered) || s.discovered[i] {
		return false, nil
	}
	s.discovered[i] = true
	return true, s.Save(ctx)
}

// Reset forgets every discovery and persists the empty set.
func (s *Store) Reset(ctx context.Context) error {
	s.clear()
	return s.Save(ctx)
}

// Save writes the full discovered set.
func (s *Store) Save(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	data, err := json.Marshal(payload{Version: payloadVersion, Discovered: s.DiscoveredIDs()})
	if err != nil {
		return fmt.Errorf("encode visibility: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save visibility: %w", err)
	}
	return nil
}
