package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/logger"
)

// ScalarLabel etiqueta del resultado sin agrupación.
const ScalarLabel = "net PODs"

// Columnas consultables del libro unido con el catálogo.
const (
	ColProductName   = "product_name"
	ColSKU           = "sku"
	ColRetailer      = "retailer"
	ColDivision      = "division"
	ColStatus        = "status"
	ColEffectiveDate = "effective_date"
	ColUserID        = "user_id"
	ColSource        = "source"
)

// Columns columnas conocidas, en el orden que se ofrece al planificador de consultas.
var Columns = []string{ColRetailer, ColProductName, ColSKU, ColDivision, ColStatus, ColEffectiveDate, ColUserID, ColSource}

var extractors = map[string]func(e *entity.LedgerEntry) string{
	ColProductName:   func(e *entity.LedgerEntry) string { return e.ProductName },
	ColSKU:           func(e *entity.LedgerEntry) string { return e.SKU },
	ColRetailer:      func(e *entity.LedgerEntry) string { return e.RetailerName },
	ColDivision:      func(e *entity.LedgerEntry) string { return e.Division },
	ColStatus:        func(e *entity.LedgerEntry) string { return e.Status },
	ColEffectiveDate: func(e *entity.LedgerEntry) string { return e.EffectiveDate.Format(pod.DateLayout) },
	ColUserID:        func(e *entity.LedgerEntry) string { return e.UserID },
	ColSource:        func(e *entity.LedgerEntry) string { return e.Source },
}

// Query consulta de agregación. Filters: columna → valores (coincide cualquiera, subcadena sin mayúsculas).
type Query struct {
	GroupBy       []string
	IncludeFuture bool
	Filters       map[string][]string
}

// GroupRow una combinación de dimensiones; Values sigue el orden de Result.Dimensions.
type GroupRow struct {
	Values  []string
	NetPODs int64
}

// Result resultado de Aggregate. Con Scalar=true no hay dimensiones y NetPODs es el total del conjunto filtrado.
// Sin Scalar, NetPODs es la suma de todas las filas.
type Result struct {
	Dimensions []string
	Rows       []GroupRow
	Scalar     bool
	Label      string
	NetPODs    int64
}

// UseCase motor de agregación sobre una foto del libro.
type UseCase struct {
	txRepo   repository.TransactionRepository
	cache    ports.SummaryCache
	cacheTTL time.Duration
	clock    pod.Clock
	loc      *time.Location
	log      *logger.Logger
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithCache activa la caché de pivots con el TTL dado.
func WithCache(c ports.SummaryCache, ttl time.Duration) Option {
	return func(uc *UseCase) {
		uc.cache = c
		uc.cacheTTL = ttl
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(c pod.Clock) Option {
	return func(uc *UseCase) { uc.clock = c }
}

// WithLocation fija la zona horaria que define "hoy".
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *UseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

// NewUseCase construye el motor de agregación.
func NewUseCase(txRepo repository.TransactionRepository, opts ...Option) *UseCase {
	uc := &UseCase{
		txRepo: txRepo,
		clock:  time.Now,
		loc:    time.UTC,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Today fecha civil actual.
func (uc *UseCase) Today() time.Time {
	return pod.DateOf(uc.clock(), uc.loc)
}

// Ledger devuelve la foto del libro unida con el catálogo (más recientes primero).
func (uc *UseCase) Ledger(ctx context.Context) ([]entity.LedgerEntry, error) {
	entries, err := uc.txRepo.ListLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: leer libro: %v", domain.ErrStorage, err)
	}
	return entries, nil
}

// Aggregate filtra, agrupa y suma quantity_delta. Columnas de agrupación desconocidas se descartan;
// si no queda ninguna el resultado es escalar. Un filtro sobre una columna desconocida no coincide con nada.
// Un conjunto vacío devuelve un resultado válido con cero filas.
func (uc *UseCase) Aggregate(ctx context.Context, q Query) (*Result, error) {
	entries, err := uc.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	today := uc.Today()

	filtered := make([]*entity.LedgerEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if !q.IncludeFuture && e.EffectiveDate.After(today) {
			continue
		}
		if matches(e, q.Filters) {
			filtered = append(filtered, e)
		}
	}

	dims := validDimensions(q.GroupBy)
	if len(dims) == 0 {
		res := &Result{Dimensions: []string{}, Rows: []GroupRow{}, Scalar: true, Label: ScalarLabel}
		for _, e := range filtered {
			res.NetPODs += e.QuantityDelta
		}
		return res, nil
	}

	groups := map[string]*GroupRow{}
	var order []*GroupRow
	var total int64
	for _, e := range filtered {
		values := make([]string, len(dims))
		for i, d := range dims {
			values[i] = extractors[d](e)
		}
		k := strings.Join(values, "\x00")
		g, ok := groups[k]
		if !ok {
			g = &GroupRow{Values: values}
			groups[k] = g
			order = append(order, g)
		}
		g.NetPODs += e.QuantityDelta
		total += e.QuantityDelta
	}
	sort.Slice(order, func(i, j int) bool { return lessValues(order[i].Values, order[j].Values) })

	rows := make([]GroupRow, 0, len(order))
	for _, g := range order {
		rows = append(rows, *g)
	}
	return &Result{Dimensions: dims, Rows: rows, NetPODs: total}, nil
}

// Pivot matriz producto × cadena con totales, solo fechas <= hoy o incluyendo futuras.
// Se cachea por vista cuando hay caché configurada.
func (uc *UseCase) Pivot(ctx context.Context, includeFuture bool) (*pod.PivotTable, error) {
	key := pivotKey(includeFuture, uc.Today())
	if table, ok := uc.cachedPivot(ctx, key); ok {
		return table, nil
	}

	res, err := uc.Aggregate(ctx, Query{GroupBy: []string{ColProductName, ColRetailer}, IncludeFuture: includeFuture})
	if err != nil {
		return nil, err
	}
	cells := make([]pod.PivotCell, 0, len(res.Rows))
	for _, r := range res.Rows {
		cells = append(cells, pod.PivotCell{Product: r.Values[0], Retailer: r.Values[1], Net: r.NetPODs})
	}
	table := pod.BuildPivot(cells)
	uc.storePivot(ctx, key, table)
	return table, nil
}

// ExportViews devuelve las dos vistas del reporte: actual (<= hoy) y con fechas futuras.
func (uc *UseCase) ExportViews(ctx context.Context) (current, future *pod.PivotTable, err error) {
	if current, err = uc.Pivot(ctx, false); err != nil {
		return nil, nil, err
	}
	if future, err = uc.Pivot(ctx, true); err != nil {
		return nil, nil, err
	}
	return current, future, nil
}

// Invalidate descarta los pivots cacheados; se llama después de cada escritura confirmada.
func (uc *UseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	today := uc.Today()
	if err := uc.cache.Delete(ctx, pivotKey(false, today), pivotKey(true, today)); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de resumen")
	}
}

// ── Caché ─────────────────────────────────────────────────────────────────────

// pivotKey la vista actual depende de la fecha de hoy; la futura incluye todas las fechas.
func pivotKey(includeFuture bool, today time.Time) string {
	if includeFuture {
		return "pods:pivot:future"
	}
	return "pods:pivot:current:" + today.Format(pod.DateLayout)
}

func (uc *UseCase) cachedPivot(ctx context.Context, key string) (*pod.PivotTable, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de resumen no disponible")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var table pod.PivotTable
	if err := json.Unmarshal(raw, &table); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("entrada de caché inválida")
		return nil, false
	}
	return &table, true
}

func (uc *UseCase) storePivot(ctx context.Context, key string, table *pod.PivotTable) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(table)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
	}
}

// ── Filtros ───────────────────────────────────────────────────────────────────

func validDimensions(groupBy []string) []string {
	seen := map[string]bool{}
	dims := []string{}
	for _, g := range groupBy {
		d := strings.ToLower(strings.TrimSpace(g))
		if _, known := extractors[d]; known && !seen[d] {
			seen[d] = true
			dims = append(dims, d)
		}
	}
	return dims
}

func matches(e *entity.LedgerEntry, filters map[string][]string) bool {
	for column, values := range filters {
		needles := nonEmpty(values)
		if len(needles) == 0 {
			continue
		}
		extract, known := extractors[strings.ToLower(strings.TrimSpace(column))]
		if !known {
			return false
		}
		hay := strings.ToLower(extract(e))
		hit := false
		for _, n := range needles {
			if strings.Contains(hay, n) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func lessValues(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
