package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

func TestParseRows(t *testing.T) {
	rows, err := parseRows([]string{"1=2", "2=", "3=1,5"})
	require.NoError(t, err)
	assert.Equal(t, []dto.AmountRow{{ItemID: "1", Amount: "2"}, {ItemID: "2", Amount: ""}, {ItemID: "3", Amount: "1,5"}}, rows)

	_, err = parseRows([]string{"sin-igual"})
	assert.Error(t, err)
	_, err = parseRows([]string{"=3"})
	assert.Error(t, err)
}

func TestPrintBatch_Resumen(t *testing.T) {
	var buf bytes.Buffer
	res := inventory.BatchResult{Outcomes: []inventory.Outcome{
		{Movement: entity.Movement{Type: entity.MovementTypeRelocate, ItemID: "1"}, Status: inventory.StatusOK},
		{Movement: entity.Movement{Type: entity.MovementTypeRelocate, ItemID: "2"}, Status: inventory.StatusSkipped},
		{Movement: entity.Movement{Type: entity.MovementTypeRelocate, ItemID: "3"}, Status: inventory.StatusRejected,
			Messages: []entity.ValidationMessage{{Field: "amount", Message: "exceeds stock"}}},
	}}

	require.NoError(t, printBatch(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "amount exceeds stock")
	assert.Contains(t, out, "enviadas: 2")
	assert.Contains(t, out, "omitidas: 1")
	assert.Contains(t, out, "ok: 1")
}

func TestRootCmd_SinCodigoFalla(t *testing.T) {
	t.Setenv("STOCKCTL_CODE", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"scan"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--code")
}
