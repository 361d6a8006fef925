package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dshills/snipmatch-mcp/pkg/types"
)

// History is the in-memory selection history: an insertion-ordered mapping
// of normalized query to per-snippet selection counts. Insertion order is
// the eviction order; updating an existing key does not refresh its
// position (strict FIFO, see DESIGN.md).
type History struct {
	entries *orderedmap.OrderedMap[string, map[string]int]
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{entries: orderedmap.New[string, map[string]int]()}
}

// Len returns the number of distinct queries recorded
func (h *History) Len() int {
	return h.entries.Len()
}

// Counts returns the selection counts for a normalized query, or nil when
// the query has no history
func (h *History) Counts(query string) map[string]int {
	counts, ok := h.entries.Get(query)
	if !ok {
		return nil
	}
	return counts
}

// Keys returns all recorded queries in insertion order
func (h *History) Keys() []string {
	keys := make([]string, 0, h.entries.Len())
	for pair := h.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each visits every entry in insertion order
func (h *History) Each(fn func(query string, counts map[string]int)) {
	for pair := h.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Increment bumps the selection counter for a snippet under a query,
// creating nested entries as needed
func (h *History) Increment(query, name string) {
	counts, ok := h.entries.Get(query)
	if !ok || counts == nil {
		counts = make(map[string]int)
	}
	counts[name]++
	h.entries.Set(query, counts)
}

// PruneTo drops the oldest-inserted queries until at most max remain.
// Non-positive max leaves the history unbounded.
func (h *History) PruneTo(max int) {
	if max <= 0 {
		return
	}
	for h.entries.Len() > max {
		oldest := h.entries.Oldest()
		h.entries.Delete(oldest.Key)
	}
}

// Store persists the history as a single JSON document, rewritten in full
// on every update
type Store struct {
	path       string
	maxQueries int
	mu         sync.Mutex
}

// NewStore creates a history store backed by the given file path
func NewStore(path string, maxQueries int) *Store {
	return &Store{path: path, maxQueries: maxQueries}
}

// Path returns the history file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the history file. A missing file is an empty history. A
// corrupted file is reset to empty on disk and reported as a wrapped
// types.ErrHistoryCorrupted alongside a usable empty history; the caller
// surfaces the condition and continues.
func (s *Store) Load() (*History, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewHistory(), nil
	}
	if err != nil {
		return NewHistory(), fmt.Errorf("read history %s: %v: %w", s.path, err, types.ErrHistoryCorrupted)
	}

	h := NewHistory()
	if err := json.Unmarshal(raw, h.entries); err != nil {
		resetErr := s.Save(NewHistory())
		if resetErr != nil {
			return NewHistory(), fmt.Errorf("history %s corrupted and reset failed (%v): %w",
				s.path, resetErr, types.ErrHistoryCorrupted)
		}
		return NewHistory(), fmt.Errorf("history %s corrupted, reset to empty: %w",
			s.path, types.ErrHistoryCorrupted)
	}
	return h, nil
}

// Save persists the whole history atomically: write to a temp file in the
// target directory, then rename over the destination.
func (s *Store) Save(h *History) error {
	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close history temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Record increments history[query][name], prunes to the configured
// maximum and persists the whole structure. Empty normalized query or
// snippet name is a no-op. The read-modify-write runs under an in-process
// mutex; separate processes can still race on the file (see DESIGN.md).
func (s *Store) Record(query, name string) error {
	nq := types.NormalizeQuery(query)
	if nq == "" || name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, loadErr := s.Load()
	h.Increment(nq, name)
	h.PruneTo(s.maxQueries)
	if err := s.Save(h); err != nil {
		return err
	}
	// A corrupted-and-reset load is recoverable; report it after the
	// record has been persisted so the caller can surface the condition
	return loadErr
}
