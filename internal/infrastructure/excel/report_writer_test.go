package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

func TestReportWriter_DosHojasConTotales(t *testing.T) {
	current := pod.BuildPivot([]pod.PivotCell{
		{Product: "12oz cheerios", Retailer: "Walmart", Net: 10},
		{Product: "12oz cheerios", Retailer: "Target", Net: 3},
		{Product: "pepsi 12-pack", Retailer: "Target", Net: 4},
	})
	future := pod.BuildPivot([]pod.PivotCell{
		{Product: "12oz cheerios", Retailer: "Walmart", Net: 7},
	})

	var buf bytes.Buffer
	require.NoError(t, NewReportWriter().Write(&buf, current, future, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCurrent, SheetFuture}, f.GetSheetList())

	rows, err := f.GetRows(SheetCurrent)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"product_name", "Target", "Walmart", "Grand Total"}, rows[0])
	assert.Equal(t, []string{"12oz cheerios", "3", "10", "13"}, rows[1])
	assert.Equal(t, []string{"pepsi 12-pack", "4", "0", "4"}, rows[2])
	assert.Equal(t, []string{"Grand Total", "7", "10", "17"}, rows[3])

	rows, err = f.GetRows(SheetFuture)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grand Total", "7", "7"}, rows[2])
}

func TestReportWriter_VistaVacia(t *testing.T) {
	current := pod.BuildPivot([]pod.PivotCell{{Product: "p", Retailer: "r", Net: 1}})
	var buf bytes.Buffer
	require.NoError(t, NewReportWriter().Write(&buf, current, pod.BuildPivot(nil), time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetFuture)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{MessageHeader}, {NoFutureData}}, rows)
}
