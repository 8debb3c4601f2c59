package dag

import "sync"

// DefaultHistoryLimit bounds the execution history when no limit is
// configured.
const DefaultHistoryLimit = 100

// History is a bounded ring buffer of run results. The engine is its single
// writer; readers only see completed, immutable entries.
type History struct {
	mu      sync.RWMutex
	limit   int
	entries []*RunResult
}

// NewHistory creates a History retaining at most limit entries. A
// non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add appends a run result, evicting the oldest entry past the limit.
func (h *History) Add(r *RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Get returns the run result with the given execution id.
func (h *History) Get(id string) (*RunResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID == id {
			return h.entries[i], true
		}
	}
	return nil, false
}

// Recent returns up to n results, newest first. A non-positive n returns
// every retained entry.
func (h *History) Recent(n int) []*RunResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]*RunResult, 0, n)
	for i := len(h.entries) - 1; i >= len(h.entries)-n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
