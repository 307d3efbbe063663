package masterdata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/masterdata"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/catalog"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/memory"
)

func newMasterData() *masterdata.UseCase {
	store := memory.NewSeededStore()
	return masterdata.NewUseCase(store.Products(), store.Retailers())
}

func TestNames_ProductosEnOrdenDeCatalogo(t *testing.T) {
	names, err := newMasterData().Names(context.Background(), "Products")

	require.NoError(t, err)
	require.Len(t, names, len(catalog.DefaultProducts))
	assert.Equal(t, "18oz quaker oats", names[0])
	assert.Equal(t, catalog.DefaultProducts[len(catalog.DefaultProducts)-1].Name, names[len(names)-1])
}

func TestNames_SkusEsAliasDeProductos(t *testing.T) {
	uc := newMasterData()

	a, err := uc.Names(context.Background(), masterdata.EntitySKUs)
	require.NoError(t, err)
	b, err := uc.Names(context.Background(), masterdata.EntityProducts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNames_Cadenas(t *testing.T) {
	names, err := newMasterData().Names(context.Background(), masterdata.EntityRetailers)

	require.NoError(t, err)
	assert.Len(t, names, 14)
	assert.Equal(t, "Walmart", names[0])
	assert.Contains(t, names, "H-E-B")
}

func TestNames_TipoDesconocido(t *testing.T) {
	_, err := newMasterData().Names(context.Background(), "warehouses")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "warehouses")
}
