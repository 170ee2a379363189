package viewer

import (
	"sync"

	"github.com/yuanying/acbfview/internal/layout"
)

// BookDetails is the reading position remembered for a book.
type BookDetails struct {
	Page     int
	Frame    int
	Zoom     layout.ZoomMode
	Language int
}

// HistoryStore persists reading positions keyed by book path.
type HistoryStore interface {
	BookDetails(path string) (BookDetails, bool, error)
	SetBookDetails(path string, d BookDetails) error
}

// MemoryHistory is a HistoryStore that lives for the process.
type MemoryHistory struct {
	mu    sync.Mutex
	books map[string]BookDetails
}

// NewMemoryHistory returns an empty MemoryHistory.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{books: make(map[string]BookDetails)}
}

func (h *MemoryHistory) BookDetails(path string) (BookDetails, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.books[path]
	return d, ok, nil
}

func (h *MemoryHistory) SetBookDetails(path string, d BookDetails) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.books[path] = d
	return nil
}
