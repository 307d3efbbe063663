package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/catalog"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

// newTestPool requiere una base descartable: TEST_DATABASE_URL=postgres://... go test ./...
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE transactions, skus, retailers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	np, nr, err := Seed(ctx, pool, catalog.DefaultProducts, catalog.DefaultRetailers)
	require.NoError(t, err)
	require.Equal(t, len(catalog.DefaultProducts), np)
	require.Equal(t, len(catalog.DefaultRetailers), nr)
	return pool
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func trx(id string, delta int64, eff time.Time) *entity.Transaction {
	status := entity.StatusLive
	if delta < 0 {
		status = entity.StatusLost
	}
	return &entity.Transaction{
		ID: id, ProductID: 3, RetailerID: 1, QuantityDelta: delta, Status: status,
		EffectiveDate: eff, LoggedAt: time.Now().UTC(), UserID: "test", Source: entity.SourceCLI,
	}
}

func TestIntegration_SeedEsIdempotente(t *testing.T) {
	pool := newTestPool(t)
	np, nr, err := Seed(context.Background(), pool, catalog.DefaultProducts, catalog.DefaultRetailers)
	require.NoError(t, err)
	assert.Zero(t, np)
	assert.Zero(t, nr)

	products, err := NewProductRepository(pool).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, len(catalog.DefaultProducts))
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, catalog.DefaultProducts[0].Name, products[0].Name)
}

func TestIntegration_TransaccionesTotalesYDuplicados(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewTransactionRepository(pool)

	require.NoError(t, repo.Create(ctx, trx("t1", 10, day(2025, 6, 1))))
	require.NoError(t, repo.Create(ctx, trx("t2", -4, day(2025, 6, 10))))
	require.NoError(t, repo.Create(ctx, trx("t3", 5, day(2025, 7, 1))))

	total, err := repo.TotalAsOf(ctx, 3, 1, day(2025, 6, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)

	ok, err := repo.Exists(ctx, 3, 1, 10, day(2025, 6, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	err = repo.Create(ctx, trx("t4", 10, day(2025, 6, 1)))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	entries, err := repo.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, catalog.DefaultProducts[2].Name, entries[0].ProductName)
	assert.Equal(t, time.UTC, entries[0].EffectiveDate.Location())
}

func TestIntegration_TxRunnerRollback(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	runner := NewTxRunner(pool)

	err := runner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		require.NoError(t, txRepo.LockKey(ctx, 3, 1))
		return txRepo.CreateBatch(ctx, []*entity.Transaction{
			trx("b1", 3, day(2025, 6, 1)),
			trx("b2", 3, day(2025, 6, 1)), // idéntica a b1
		})
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	entries, err := NewTransactionRepository(pool).ListLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
