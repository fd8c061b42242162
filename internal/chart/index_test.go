package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concilia-dev/concilia/internal/model"
)

func entry(key string, scope model.Scope, debit, credit, hist int) model.ChartEntry {
	return model.ChartEntry{Key: key, Scope: scope, Debit: debit, Credit: credit, Historical: hist}
}

func TestIndex_ExactResolve(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("ACME LTDA", model.ScopeSuppliers, 201, 543, 34))

	got, err := ix.Resolve("ACME LTDA", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 201, got.Debit)
	assert.Equal(t, 543, got.Credit)
	assert.Equal(t, 34, got.Historical)
}

func TestIndex_ScopeIsolation(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("TARIFA", "SICOOB", 316, 0, 17))
	ix.Put(entry("TARIFA", "BRADESCO", 320, 0, 17))

	a, err := ix.Resolve("TARIFA", "SICOOB")
	require.NoError(t, err)
	assert.Equal(t, 316, a.Debit)

	b, err := ix.Resolve("TARIFA", "BRADESCO")
	require.NoError(t, err)
	assert.Equal(t, 320, b.Debit)

	_, err = ix.Resolve("TARIFA", model.ScopeSuppliers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIndex_LastWins(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("ACME", model.ScopeSuppliers, 100, 0, 0))
	ix.Put(entry("ACME", model.ScopeSuppliers, 200, 0, 0))

	got, err := ix.Resolve("ACME", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Debit)
	assert.Equal(t, 1, ix.Len(model.ScopeSuppliers))
}

func TestIndex_ContainmentFallback(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("ACME", model.ScopeSuppliers, 100, 0, 0))
	ix.Put(entry("ACME LTDA", model.ScopeSuppliers, 200, 0, 0))

	// Longest contained chart key wins.
	got, err := ix.Resolve("PAGTO ACME LTDA FILIAL 2", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Debit)

	// Word boundaries: "ACMEX" must not hit "ACME".
	_, err = ix.Resolve("ACMEX", model.ScopeSuppliers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIndex_ContainmentTieBreaksByInsertion(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("ALFA SUL", model.ScopeSuppliers, 100, 0, 0))
	ix.Put(entry("BETA SUL", model.ScopeSuppliers, 200, 0, 0))

	// Both keys have equal length and both are contained; first defined wins.
	got, err := ix.Resolve("PAG ALFA SUL E BETA SUL", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Debit)
}

func TestIndex_EmptyKeyNeverResolves(t *testing.T) {
	ix := NewIndex()
	ix.Put(entry("ACME", model.ScopeSuppliers, 100, 0, 0))
	_, err := ix.Resolve("", model.ScopeSuppliers)
	assert.ErrorIs(t, err, ErrNotFound)
}
