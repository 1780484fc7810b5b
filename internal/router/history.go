package router

import "sync"

// History is the session's location stack.
type History interface {
	Push(url string)
	Replace(url string)
	Location() string
	Back() (string, bool)
	Forward() (string, bool)
}

// MemoryHistory is a History kept in memory. It starts at "/".
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []string{"/"}}
}

// Push adds url after the current entry, dropping any forward entries.
func (h *MemoryHistory) Push(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], url)
	h.index++
}

func (h *MemoryHistory) Replace(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = url
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

func (h *MemoryHistory) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *MemoryHistory) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
