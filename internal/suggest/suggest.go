// Package suggest learns which pictogram the user tends to pick next.
//
// The model is a plain bigram table: for every spoken phrase, each
// consecutive pair (a, b) bumps the count stored under "a->b". Suggestions
// for a are the b's with the highest counts. Counts never decay.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/nadzzz/talkboard/internal/kv"
)

// StorageKey is the kv key holding the JSON-encoded count table.
const StorageKey = "bigram_counts"

// DefaultLimit is the number of suggestions returned when limit <= 0.
const DefaultLimit = 6

const sep = "->"

// Candidate is a suggested successor and how often it followed.
type Candidate struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Model is the persisted bigram table.
type Model struct {
	kv kv.Store
	mu sync.Mutex
}

// New creates a model backed by kv.
func New(store kv.Store) *Model {
	return &Model{kv: store}
}

// Key builds the composite table key for the pair a -> b.
func Key(a, b string) string {
	return a + sep + b
}

// Learn records every consecutive pair of ids. Fewer than two ids is a no-op.
func (m *Model) Learn(ctx context.Context, ids []string) error {
	if len(ids) < 2 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	counts := m.load(ctx)
	for i := 0; i < len(ids)-1; i++ {
		counts[Key(ids[i], ids[i+1])]++
	}

	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("marshalling bigram counts: %w", err)
	}
	if err := m.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving bigram counts: %w", err)
	}
	return nil
}

// Suggest returns up to limit ids that followed afterID, most frequent first.
func (m *Model) Suggest(ctx context.Context, afterID string, limit int) []string {
	cands := m.Candidates(ctx, afterID, limit)
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
	}
	return ids
}

// Candidates is Suggest with the counts attached. Ties are ordered by id.
func (m *Model) Candidates(ctx context.Context, afterID string, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	m.mu.Lock()
	counts := m.load(ctx)
	m.mu.Unlock()

	prefix := afterID + sep
	var cands []Candidate
	for k, n := range counts {
		next, ok := strings.CutPrefix(k, prefix)
		if !ok || next == "" || n < 1 {
			continue
		}
		cands = append(cands, Candidate{ID: next, Count: n})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Count != cands[j].Count {
			return cands[i].Count > cands[j].Count
		}
		return cands[i].ID < cands[j].ID
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

func (m *Model) load(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	raw, ok, err := m.kv.Get(ctx, StorageKey)
	if err != nil {
		slog.Warn("bigram read failed, using empty table", "error", err)
		return counts
	}
	if !ok || raw == "" {
		return counts
	}
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		slog.Warn("bigram data corrupt, using empty table", "error", err)
		return make(map[string]int)
	}
	return counts
}
