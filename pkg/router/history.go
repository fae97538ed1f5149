package router

import "sync"

// Entry is one history entry.
type Entry struct {
	Path  string
	State map[string]any
}

// MemoryHistory is an in-memory History with back and forward navigation.
// It is safe for concurrent use.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []Entry
	index    int
	listener func(Entry, Mode)
}

// NewMemoryHistory creates a history whose current entry is initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []Entry{{Path: initial}}}
}

// Listen registers fn to be called after every change of the current entry.
// Back and Forward report ModeReplace.
func (h *MemoryHistory) Listen(fn func(Entry, Mode)) {
	h.mu.Lock()
	h.listener = fn
	h.mu.Unlock()
}

// Push implements History. Forward entries are discarded.
func (h *MemoryHistory) Push(path string, state map[string]any) error {
	h.mu.Lock()
	h.entries = append(h.entries[:h.index+1], Entry{Path: path, State: state})
	h.index++
	e, fn := h.entries[h.index], h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(e, ModePush)
	}
	return nil
}

// Replace implements History.
func (h *MemoryHistory) Replace(path string, state map[string]any) error {
	h.mu.Lock()
	h.entries[h.index] = Entry{Path: path, State: state}
	e, fn := h.entries[h.index], h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(e, ModeReplace)
	}
	return nil
}

// Back moves to the previous entry. It reports false at the first entry.
func (h *MemoryHistory) Back() bool { return h.move(-1) }

// Forward moves to the next entry. It reports false at the last entry.
func (h *MemoryHistory) Forward() bool { return h.move(1) }

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	e, fn := h.entries[h.index], h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(e, ModeReplace)
	}
	return true
}

// Location returns the current entry.
func (h *MemoryHistory) Location() Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
