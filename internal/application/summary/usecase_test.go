package summary_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// Ids del catálogo por defecto.
const (
	cheerios int64 = 3 // 12oz cheerios
	pepsi    int64 = 8 // pepsi 12-pack
	walmart  int64 = 1
	target   int64 = 2
	publix   int64 = 7 // Southeast
)

var fixedNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 6, 15+offset, 0, 0, 0, 0, time.UTC)
}

type seedRow struct {
	product, retailer int64
	delta             int64
	date              time.Time
	user              string
}

func newSummary(t *testing.T, rows ...seedRow) (*summary.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewSeededStore()
	repo := store.Transactions()
	for i, r := range rows {
		status := entity.StatusLive
		switch {
		case r.delta < 0:
			status = entity.StatusLost
		case r.date.After(day(0)):
			status = entity.StatusPlanned
		}
		user := r.user
		if user == "" {
			user = "ana"
		}
		require.NoError(t, repo.Create(context.Background(), &entity.Transaction{
			ID:            fmt.Sprintf("%d-%d-%d", r.product, r.retailer, i),
			ProductID:     r.product,
			RetailerID:    r.retailer,
			QuantityDelta: r.delta,
			Status:        status,
			EffectiveDate: r.date,
			LoggedAt:      fixedNow.Add(time.Duration(i) * time.Second),
			UserID:        user,
			Source:        entity.SourceAPI,
		}))
	}
	uc := summary.NewUseCase(repo, summary.WithClock(func() time.Time { return fixedNow }))
	return uc, store
}

// fakeCache caché en memoria que cuenta accesos.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregate
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_ActualVsFuturo(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: cheerios, retailer: target, delta: 5, date: day(5)},
	)
	ctx := context.Background()
	groupBy := []string{summary.ColProductName, summary.ColRetailer}

	current, err := uc.Aggregate(ctx, summary.Query{GroupBy: groupBy})
	require.NoError(t, err)
	require.Len(t, current.Rows, 1)
	assert.Equal(t, []string{"12oz cheerios", "Target"}, current.Rows[0].Values)
	assert.Equal(t, int64(10), current.Rows[0].NetPODs)

	future, err := uc.Aggregate(ctx, summary.Query{GroupBy: groupBy, IncludeFuture: true})
	require.NoError(t, err)
	require.Len(t, future.Rows, 1)
	assert.Equal(t, int64(15), future.Rows[0].NetPODs)

	pivot, err := uc.Pivot(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(15), pivot.Total())
}

func TestAggregate_EscalarSinAgrupacion(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: pepsi, retailer: walmart, delta: 4, date: day(-1)},
		seedRow{product: pepsi, retailer: walmart, delta: -1, date: day(0)},
	)

	res, err := uc.Aggregate(context.Background(), summary.Query{})

	require.NoError(t, err)
	assert.True(t, res.Scalar)
	assert.Equal(t, summary.ScalarLabel, res.Label)
	assert.Equal(t, int64(13), res.NetPODs)
	assert.Empty(t, res.Rows)
}

func TestAggregate_ColumnasDesconocidasSeDescartan(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: pepsi, retailer: publix, delta: 2, date: day(-5)},
	)
	ctx := context.Background()

	res, err := uc.Aggregate(ctx, summary.Query{GroupBy: []string{"store_color", "Division"}})
	require.NoError(t, err)
	assert.Equal(t, []string{summary.ColDivision}, res.Dimensions)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "National", res.Rows[0].Values[0])
	assert.Equal(t, "Southeast", res.Rows[1].Values[0])

	res, err = uc.Aggregate(ctx, summary.Query{GroupBy: []string{"store_color"}})
	require.NoError(t, err)
	assert.True(t, res.Scalar)
	assert.Equal(t, int64(12), res.NetPODs)
}

func TestAggregate_FiltrosPorSubcadena(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: cheerios, retailer: walmart, delta: 3, date: day(-5)},
		seedRow{product: pepsi, retailer: walmart, delta: 4, date: day(-5), user: "luis"},
	)
	ctx := context.Background()

	res, err := uc.Aggregate(ctx, summary.Query{Filters: map[string][]string{"retailer": {"WAL"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.NetPODs)

	res, err = uc.Aggregate(ctx, summary.Query{Filters: map[string][]string{
		"product_name": {"cheerios"},
		"retailer":     {"target", "walmart"},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(13), res.NetPODs)

	res, err = uc.Aggregate(ctx, summary.Query{Filters: map[string][]string{"user_id": {"luis"}, "status": {""}}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.NetPODs, "los valores vacíos se ignoran")
}

func TestAggregate_FiltroColumnaDesconocidaDevuelveVacio(t *testing.T) {
	uc, _ := newSummary(t, seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)})

	res, err := uc.Aggregate(context.Background(), summary.Query{
		GroupBy: []string{summary.ColRetailer},
		Filters: map[string][]string{"region": {"north"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{summary.ColRetailer}, res.Dimensions)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
}

func TestAggregate_LibroVacio(t *testing.T) {
	uc, _ := newSummary(t)
	ctx := context.Background()

	res, err := uc.Aggregate(ctx, summary.Query{GroupBy: []string{summary.ColProductName, summary.ColRetailer}, IncludeFuture: true})
	require.NoError(t, err)
	assert.Equal(t, []string{summary.ColProductName, summary.ColRetailer}, res.Dimensions)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.False(t, res.Scalar)

	pivot, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.True(t, pivot.IsEmpty())
}

// ──────────────────────────────────────────────────────────────────────────────
// Pivot / ExportViews / caché
// ──────────────────────────────────────────────────────────────────────────────

func TestExportViews_DosVistas(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: pepsi, retailer: walmart, delta: 2, date: day(3)},
	)

	current, future, err := uc.ExportViews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"12oz cheerios", pod.GrandTotal}, current.Products)
	assert.Equal(t, int64(10), current.Total())
	assert.Equal(t, []string{"12oz cheerios", "pepsi 12-pack", pod.GrandTotal}, future.Products)
	assert.Equal(t, []string{"Target", "Walmart", pod.GrandTotal}, future.Retailers)
	v, _ := future.Value("pepsi 12-pack", "Target")
	assert.Equal(t, int64(0), v)
	assert.Equal(t, int64(12), future.Total())
}

func TestPivot_UsaCacheEInvalida(t *testing.T) {
	store := memory.NewSeededStore()
	repo := store.Transactions()
	cache := newFakeCache()
	uc := summary.NewUseCase(repo,
		summary.WithClock(func() time.Time { return fixedNow }),
		summary.WithCache(cache, time.Minute),
	)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Transaction{
		ID: "3-2-1", ProductID: cheerios, RetailerID: target, QuantityDelta: 10,
		Status: entity.StatusLive, EffectiveDate: day(-1), LoggedAt: fixedNow,
	}))

	first, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.Total())

	require.NoError(t, repo.Create(ctx, &entity.Transaction{
		ID: "3-2-2", ProductID: cheerios, RetailerID: target, QuantityDelta: 5,
		Status: entity.StatusLive, EffectiveDate: day(-1), LoggedAt: fixedNow,
	}))

	cached, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), cached.Total(), "dentro del TTL se sirve la caché")
	assert.Equal(t, 1, cache.hits)

	uc.Invalidate(ctx)
	fresh, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(15), fresh.Total())
}

func TestPivot_CacheActualCambiaConElDia(t *testing.T) {
	store := memory.NewSeededStore()
	repo := store.Transactions()
	cache := newFakeCache()
	now := fixedNow
	uc := summary.NewUseCase(repo,
		summary.WithClock(func() time.Time { return now }),
		summary.WithCache(cache, time.Hour),
	)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Transaction{
		ID: "3-2-1", ProductID: cheerios, RetailerID: target, QuantityDelta: 10,
		Status: entity.StatusLive, EffectiveDate: day(-1), LoggedAt: fixedNow,
	}))
	require.NoError(t, repo.Create(ctx, &entity.Transaction{
		ID: "3-2-2", ProductID: cheerios, RetailerID: target, QuantityDelta: 4,
		Status: entity.StatusPlanned, EffectiveDate: day(1), LoggedAt: fixedNow,
	}))

	today, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), today.Total())

	now = fixedNow.Add(24 * time.Hour)
	tomorrow, err := uc.Pivot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(14), tomorrow.Total(), "el plan de mañana ya es efectivo")
	assert.Equal(t, 0, cache.hits)
}

// ──────────────────────────────────────────────────────────────────────────────
// Outlook
// ──────────────────────────────────────────────────────────────────────────────

func TestOutlook_TotalesYProximosCambios(t *testing.T) {
	uc, _ := newSummary(t,
		seedRow{product: cheerios, retailer: target, delta: 10, date: day(-5)},
		seedRow{product: cheerios, retailer: target, delta: -2, date: day(9)},
		seedRow{product: pepsi, retailer: walmart, delta: 6, date: day(2)},
	)

	o, err := uc.Outlook(context.Background())

	require.NoError(t, err)
	assert.False(t, o.Empty)
	assert.Equal(t, int64(10), o.CurrentTotal)
	assert.Equal(t, int64(4), o.FutureNetChange)
	assert.Equal(t, int64(14), o.ProjectedTotal)
	require.Len(t, o.Upcoming, 2)
	assert.Equal(t, "pepsi 12-pack", o.Upcoming[0].ProductName)

	text := o.Context()
	assert.Contains(t, text, "2025-06-15")
	assert.Contains(t, text, "+4")
	assert.Contains(t, text, "Una pérdida de 2 para 12oz cheerios en Target el 2025-06-24")
}

func TestOutlook_LibroVacio(t *testing.T) {
	uc, _ := newSummary(t)

	o, err := uc.Outlook(context.Background())

	require.NoError(t, err)
	assert.True(t, o.Empty)
	assert.Contains(t, o.Context(), "Ninguno")
}
