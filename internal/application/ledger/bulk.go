package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

// RowError rechazo de una fila del archivo. Row 0 indica un error del lote completo.
type RowError struct {
	Row     int
	Message string
}

// BulkResult resultado de una carga masiva. Errors nunca es nil.
type BulkResult struct {
	BatchID  string
	Accepted int
	Errors   []RowError
}

type pendingRow struct {
	line int
	trx  *EnrichedTransaction
}

type ledgerKey struct {
	productID  int64
	retailerID int64
}

// Ingest procesa un archivo CSV o XLSX: valida cada fila, simula en orden (fecha efectiva, logged_at)
// el total por par y confirma todas las filas sobrevivientes en una sola unidad de trabajo.
// Un archivo ilegible o sin columnas requeridas devuelve domain.ErrInvalidFormat sin procesar nada.
func (uc *UseCase) Ingest(ctx context.Context, batch io.Reader, format Format, userID string) (*BulkResult, error) {
	rows, err := parseBatch(batch, format)
	if err != nil {
		return nil, err
	}
	snap, err := uc.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	res := &BulkResult{BatchID: uuid.New().String(), Errors: []RowError{}}
	log := uc.log.With().Str("batch_id", res.BatchID).Logger()

	// Todas las filas del lote comparten el instante de registro.
	now := uc.clock()
	pending := make([]pendingRow, 0, len(rows))
	for _, row := range rows {
		in, err := rowInput(row)
		if err == nil {
			var trx *EnrichedTransaction
			if trx, err = uc.enrich(snap, in, userID, entity.SourceBulk, now); err == nil {
				pending = append(pending, pendingRow{line: row.Line, trx: trx})
				continue
			}
		}
		res.Errors = append(res.Errors, RowError{Row: row.Line, Message: err.Error()})
	}

	// Con igual (fecha, logged_at) las ganancias se aplican antes que las pérdidas; después, orden del archivo.
	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].trx, pending[j].trx
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.Before(b.EffectiveDate)
		}
		if !a.LoggedAt.Equal(b.LoggedAt) {
			return a.LoggedAt.Before(b.LoggedAt)
		}
		return a.QuantityDelta > 0 && b.QuantityDelta < 0
	})

	var accepted []*entity.Transaction
	var simErrors []RowError
	err = uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		accepted, simErrors = nil, nil
		for _, k := range sortedKeys(pending) {
			if err := txRepo.LockKey(ctx, k.productID, k.retailerID); err != nil {
				return storageError(err)
			}
		}

		running := map[ledgerKey]int64{}
		seen := map[string]bool{}
		for _, p := range pending {
			trx := p.trx
			k := ledgerKey{trx.ProductID, trx.RetailerID}
			if trx.QuantityDelta < 0 {
				persisted, err := txRepo.TotalAsOf(ctx, k.productID, k.retailerID, trx.EffectiveDate)
				if err != nil {
					return storageError(err)
				}
				projected := persisted + running[k]
				if -trx.QuantityDelta > projected {
					simErrors = append(simErrors, RowError{Row: p.line, Message: fmt.Sprintf(
						"%s en '%s': intenta perder %d, pero el total proyectado es solo %d",
						trx.ProductName, trx.RetailerName, -trx.QuantityDelta, projected)})
					continue
				}
			}

			fp := fingerprint(trx)
			dup := seen[fp]
			if !dup {
				exists, err := txRepo.Exists(ctx, k.productID, k.retailerID, trx.QuantityDelta, trx.EffectiveDate)
				if err != nil {
					return storageError(err)
				}
				dup = exists
			}
			if dup {
				simErrors = append(simErrors, RowError{Row: p.line, Message: duplicateError(trx).Error()})
				continue
			}

			seen[fp] = true
			running[k] += trx.QuantityDelta
			accepted = append(accepted, &trx.Transaction)
		}

		if len(accepted) == 0 {
			return nil
		}
		if err := txRepo.CreateBatch(ctx, accepted); err != nil {
			return storageError(err)
		}
		return nil
	})

	res.Errors = append(res.Errors, simErrors...)
	sort.SliceStable(res.Errors, func(i, j int) bool { return res.Errors[i].Row < res.Errors[j].Row })
	if err != nil {
		if !errors.Is(err, domain.ErrStorage) {
			err = storageError(err)
		}
		log.Error().Err(err).Int("rows", len(accepted)).Msg("carga masiva revertida")
		res.Errors = append(res.Errors, RowError{Message: fmt.Sprintf(
			"no se guardó ninguna de las %d filas válidas: %v", len(accepted), err)})
		return res, nil
	}

	res.Accepted = len(accepted)
	log.Info().
		Int("accepted", res.Accepted).
		Int("rejected", len(res.Errors)).
		Str("user_id", userID).
		Msg("carga masiva procesada")
	return res, nil
}

// rowInput mapea las columnas de la fila al esquema canónico.
func rowInput(row rawRow) (TransactionInput, error) {
	qty, err := parseQuantity(row.Fields[colQuantity])
	if err != nil {
		return TransactionInput{}, err
	}
	return TransactionInput{
		ProductName:   row.Fields[colProductName],
		RetailerName:  row.Fields[colRetailerName],
		Quantity:      qty,
		Status:        row.Fields[colStatus],
		EffectiveDate: row.Fields[colEffectiveDate],
	}, nil
}

// parseQuantity acepta enteros y decimales sin parte fraccionaria ("10", "10.0").
func parseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: falta el campo requerido 'quantity'", domain.ErrInvalidInput)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: cantidad inválida: '%s' (debe ser un entero positivo)", domain.ErrInvalidInput, s)
	}
	return int64(f), nil
}

func fingerprint(trx *EnrichedTransaction) string {
	return fmt.Sprintf("%d|%d|%d|%s", trx.ProductID, trx.RetailerID, trx.QuantityDelta, trx.EffectiveDate.Format(pod.DateLayout))
}

func sortedKeys(rows []pendingRow) []ledgerKey {
	set := map[ledgerKey]struct{}{}
	for _, p := range rows {
		set[ledgerKey{p.trx.ProductID, p.trx.RetailerID}] = struct{}{}
	}
	keys := make([]ledgerKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID < keys[j].productID
		}
		return keys[i].retailerID < keys[j].retailerID
	})
	return keys
}
