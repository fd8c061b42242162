// Package chart builds and queries the scope-partitioned chart-of-accounts
// lookup tables used by the classifier.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/concilia-dev/concilia/internal/model"
)

// ErrNotFound is returned by Resolve when no entry matches the key.
var ErrNotFound = errors.New("no chart entry for key")

// Index holds one lookup table per scope. Resolution is scope-first: the
// caller names the table; the index never searches across scopes.
type Index struct {
	scopes map[model.Scope]*table
}

// table keeps entries in insertion order so containment fallback stays
// deterministic across runs.
type table struct {
	byKey map[string]int
	order []model.ChartEntry
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{scopes: make(map[model.Scope]*table)}
}

// Put inserts an entry into its scope's table. A duplicate key overwrites
// the earlier definition in place (last-wins), never merges.
func (ix *Index) Put(e model.ChartEntry) {
	t := ix.scopes[e.Scope]
	if t == nil {
		t = &table{byKey: make(map[string]int)}
		ix.scopes[e.Scope] = t
	}
	if i, ok := t.byKey[e.Key]; ok {
		t.order[i] = e
		return
	}
	t.byKey[e.Key] = len(t.order)
	t.order = append(t.order, e)
}

// Resolve looks key up in one scope. An exact hit wins; otherwise the
// longest chart key contained in the query (on word boundaries) is chosen,
// ties broken by insertion order. Misses return ErrNotFound.
func (ix *Index) Resolve(key string, scope model.Scope) (model.ChartEntry, error) {
	t := ix.scopes[scope]
	if t == nil || key == "" {
		return model.ChartEntry{}, fmt.Errorf("%w: %q in scope %q", ErrNotFound, key, scope)
	}
	if i, ok := t.byKey[key]; ok {
		return t.order[i], nil
	}

	best := -1
	for i, e := range t.order {
		if !containsKey(key, e.Key) {
			continue
		}
		if best == -1 || len(e.Key) > len(t.order[best].Key) {
			best = i
		}
	}
	if best == -1 {
		return model.ChartEntry{}, fmt.Errorf("%w: %q in scope %q", ErrNotFound, key, scope)
	}
	return t.order[best], nil
}

// Len reports the number of entries in a scope.
func (ix *Index) Len(scope model.Scope) int {
	t := ix.scopes[scope]
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Scopes returns the scopes with at least one entry, unordered.
func (ix *Index) Scopes() []model.Scope {
	out := make([]model.Scope, 0, len(ix.scopes))
	for s := range ix.scopes {
		out = append(out, s)
	}
	return out
}

// containsKey reports whether needle appears in haystack as whole words.
func containsKey(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
