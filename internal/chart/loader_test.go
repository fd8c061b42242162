package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concilia-dev/concilia/internal/model"
)

func TestLoad(t *testing.T) {
	csv := `chave,conta_debito,conta_credito,cod_historico
Fundição São João,201,543,34
TARIFA MANUTENCAO,316,,17
`
	ix := NewIndex()
	warnings, err := Load(ix, model.ScopeSuppliers, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, ix.Len(model.ScopeSuppliers))

	got, err := ix.Resolve("FUNDICAO SAO JOAO", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 201, got.Debit)
	assert.Equal(t, 543, got.Credit)

	fee, err := ix.Resolve("TARIFA MANUTENCAO", model.ScopeSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 0, fee.Credit)
	assert.Equal(t, 17, fee.Historical)
}

func TestLoad_BlankKeyIsWarningNotError(t *testing.T) {
	csv := `chave,conta_debito,conta_credito,cod_historico
,100,,0
ACME,200,,0
`
	ix := NewIndex()
	warnings, err := Load(ix, model.ScopeSuppliers, strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Row)
	assert.Equal(t, 1, ix.Len(model.ScopeSuppliers))
}

func TestLoad_BadAccountAborts(t *testing.T) {
	csv := "ACME,not-a-number,,0\n"
	ix := NewIndex()
	_, err := Load(ix, model.ScopeSuppliers, strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conta_debito")
}

func TestLoad_ShortRowAborts(t *testing.T) {
	csv := "ACME,100\n"
	ix := NewIndex()
	_, err := Load(ix, model.ScopeSuppliers, strings.NewReader(csv))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_NoHeaderIsAccepted(t *testing.T) {
	csv := "ACME,100,,0\n"
	ix := NewIndex()
	warnings, err := Load(ix, model.ScopeSuppliers, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, ix.Len(model.ScopeSuppliers))
}
