package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concilia.yaml")

	rs := Default("VPS METALURGICA")
	require.NoError(t, Save(path, rs))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "VPS METALURGICA", loaded.Company)
	assert.Equal(t, 3, loaded.Tolerances.DateDays)
	assert.True(t, loaded.Tolerances.Value.Equal(rs.Tolerances.Value.Decimal))
	assert.Equal(t, rs.Channels, loaded.Channels)
	assert.Equal(t, rs.Cash, loaded.Cash)
	assert.Equal(t, rs.Historical, loaded.Historical)
	assert.Equal(t, 168, loaded.Accounts.InterestFine)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestChannelFor(t *testing.T) {
	rs := Default("X")

	ch, ok := rs.ChannelFor("SICOOB")
	require.True(t, ok)
	assert.Equal(t, 809, ch.Account)

	// Containment on word boundaries.
	ch, ok = rs.ChannelFor("PIX SICOOB 0233")
	require.True(t, ok)
	assert.Equal(t, "SICOOB", ch.Name)

	// Accents fold before matching.
	ch, ok = rs.ChannelFor("caíxa interno")
	require.True(t, ok)
	assert.Equal(t, 5, ch.Account)

	_, ok = rs.ChannelFor("NUBANK")
	assert.False(t, ok)

	_, ok = rs.ChannelFor("")
	assert.False(t, ok)
}

func TestIsCash(t *testing.T) {
	rs := Default("X")
	assert.True(t, rs.IsCash("CAIXA"))
	assert.True(t, rs.IsCash("Pagamento caixa"))
	assert.False(t, rs.IsCash("SICOOB"))
}

func TestScopeFor(t *testing.T) {
	rs := Default("X")

	scope, ok := rs.ScopeFor("BRADESCO")
	require.True(t, ok)
	assert.Equal(t, "BRADESCO", string(scope))

	_, ok = rs.ScopeFor("ITAU")
	assert.False(t, ok)
}
