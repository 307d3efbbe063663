package pod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

func TestBuildPivot_TotalesYCeldasFaltantes(t *testing.T) {
	table := pod.BuildPivot([]pod.PivotCell{
		{Product: "pepsi 12-pack", Retailer: "Walmart", Net: 5},
		{Product: "12oz cheerios", Retailer: "Target", Net: 10},
		{Product: "12oz cheerios", Retailer: "Walmart", Net: 2},
	})

	require.False(t, table.IsEmpty())
	assert.Equal(t, []string{"12oz cheerios", "pepsi 12-pack", pod.GrandTotal}, table.Products)
	assert.Equal(t, []string{"Target", "Walmart", pod.GrandTotal}, table.Retailers)

	v, ok := table.Value("pepsi 12-pack", "Target")
	require.True(t, ok)
	assert.Equal(t, int64(0), v, "la combinación ausente vale 0")

	m := table.AsMap()
	assert.Equal(t, int64(12), m["12oz cheerios"][pod.GrandTotal])
	assert.Equal(t, int64(7), m[pod.GrandTotal]["Walmart"])
	assert.Equal(t, int64(10), m[pod.GrandTotal]["Target"])
	assert.Equal(t, int64(17), table.Total())
}

func TestBuildPivot_SumaCeldasRepetidas(t *testing.T) {
	table := pod.BuildPivot([]pod.PivotCell{
		{Product: "a", Retailer: "x", Net: 10},
		{Product: "a", Retailer: "x", Net: -4},
	})

	v, ok := table.Value("a", "x")
	require.True(t, ok)
	assert.Equal(t, int64(6), v)
	assert.Equal(t, int64(6), table.Total())
}

func TestBuildPivot_EntradaVacia(t *testing.T) {
	table := pod.BuildPivot(nil)

	assert.True(t, table.IsEmpty())
	assert.Empty(t, table.AsMap())
	assert.Equal(t, int64(0), table.Total())
	_, ok := table.Value(pod.GrandTotal, pod.GrandTotal)
	assert.False(t, ok)
}
