package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

func TestPrintPivot_ConTotales(t *testing.T) {
	table := pod.BuildPivot([]pod.PivotCell{
		{Product: "12oz cheerios", Retailer: "Target", Net: 5},
		{Product: "12oz cheerios", Retailer: "Walmart", Net: 3},
	})

	var out bytes.Buffer
	require.NoError(t, printPivot(&out, table))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Target")
	assert.Contains(t, lines[0], pod.GrandTotal)
	assert.Equal(t, []string{"12oz", "cheerios", "5", "3", "8"}, strings.Fields(lines[1]))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "8"))
}

func TestPrintPivot_Vacia(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPivot(&out, pod.BuildPivot(nil)))
	assert.Equal(t, "sin PODs registrados\n", out.String())
}

func TestWriterFor(t *testing.T) {
	w, err := writerFor("reporte.XLSX")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", w.Extension())

	w, err = writerFor("/tmp/reporte.pdf")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", w.Extension())

	_, err = writerFor("reporte.csv")
	assert.Error(t, err)
}

func TestPrintBulkResult(t *testing.T) {
	var out bytes.Buffer
	printBulkResult(&out, &ledger.BulkResult{
		BatchID:  "b-1",
		Accepted: 2,
		Errors: []ledger.RowError{
			{Row: 0, Message: "almacenamiento no disponible"},
			{Row: 4, Message: "producto desconocido"},
		},
	})
	assert.Equal(t, "lote b-1: 2 filas aceptadas, 2 rechazadas\n"+
		"  lote: almacenamiento no disponible\n"+
		"  fila 4: producto desconocido\n", out.String())
}
