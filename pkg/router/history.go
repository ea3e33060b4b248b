package router

import (
	"sync"

	"github.com/materials-commons/mcrel/pkg/model"
)

// History is an in-memory model.Router. Navigation pushes an entry, a
// replacing navigation overwrites the current one.
type History struct {
	mu      sync.Mutex
	entries []string
}

func NewHistory() *History {
	return &History{}
}

func (h *History) NavigateWithQueryParams(url string, opts model.NavigateOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if opts.Replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = url
		return nil
	}

	h.entries = append(h.entries, url)
	return nil
}

// Current returns the current location, "" before any navigation.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Back drops the current location and returns the one before it.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
