// Package phrase holds the phrase being composed on the board.
package phrase

import (
	"strings"
	"sync"
)

// Item references one pictogram in the phrase. Label is the display label
// captured when the pictogram was added, in the board language at that time.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Ledger is an ordered, append-only-at-the-tail sequence of items.
// It is safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	items []Item
}

// Append adds an item at the end.
func (l *Ledger) Append(it Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, it)
}

// RemoveLast drops the last item. ok is false when the ledger is empty.
func (l *Ledger) RemoveLast() (Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return Item{}, false
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last, true
}

// Last returns the last item without removing it.
func (l *Ledger) Last() (Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return Item{}, false
	}
	return l.items[len(l.items)-1], true
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the sequence.
func (l *Ledger) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the number of items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// IDs returns the pictogram ids in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// Text joins the labels with single spaces. Blank labels are skipped.
func Text(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it.Label); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
