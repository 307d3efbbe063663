package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const insertTransactionSQL = `
	INSERT INTO transactions (trx_id, sku_id, retailer_id, status, quantity_changed, effective_date, log_timestamp, user_id, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// TransactionRepo libro de PODs sobre PostgreSQL. Con una pgx.Tx, LockKey y las inserciones
// quedan dentro de la misma transacción.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func insertArgs(t *entity.Transaction) []any {
	return []any{
		t.ID, t.ProductID, t.RetailerID, t.Status, t.QuantityDelta,
		t.EffectiveDate, t.LoggedAt, t.UserID, t.Source,
	}
}

// Create inserta una transacción. Una fila idéntica ya registrada devuelve domain.ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, trx *entity.Transaction) error {
	if _, err := r.q.Exec(ctx, insertTransactionSQL, insertArgs(trx)...); err != nil {
		if isDuplicateTransaction(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateBatch envía todas las inserciones en un único pgx.Batch.
func (r *TransactionRepo) CreateBatch(ctx context.Context, trxs []*entity.Transaction) error {
	if len(trxs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range trxs {
		batch.Queue(insertTransactionSQL, insertArgs(t)...)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	for i := range trxs {
		if _, err := br.Exec(); err != nil {
			if isDuplicateTransaction(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert transaction %d/%d: %w", i+1, len(trxs), err)
		}
	}
	return nil
}

// TotalAsOf suma quantity_changed del par con effective_date <= date.
func (r *TransactionRepo) TotalAsOf(ctx context.Context, productID, retailerID int64, date time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_changed), 0)::BIGINT
		FROM transactions
		WHERE sku_id = $1 AND retailer_id = $2 AND effective_date <= $3`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, retailerID, date).Scan(&total); err != nil {
		return 0, fmt.Errorf("total as of: %w", err)
	}
	return total, nil
}

// Exists indica si ya hay una transacción idéntica.
func (r *TransactionRepo) Exists(ctx context.Context, productID, retailerID, delta int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE sku_id = $1 AND retailer_id = $2 AND quantity_changed = $3 AND effective_date = $4
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID, retailerID, delta, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists transaction: %w", err)
	}
	return exists, nil
}

// LockKey toma un advisory lock de transacción sobre el par; se libera en Commit o Rollback.
// Fuera de una transacción el lock se libera al terminar la sentencia.
func (r *TransactionRepo) LockKey(ctx context.Context, productID, retailerID int64) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1::integer, $2::integer)`, int32(productID), int32(retailerID)); err != nil {
		return fmt.Errorf("lock pair %d/%d: %w", productID, retailerID, err)
	}
	return nil
}

// ListLedger devuelve el libro unido con el catálogo, más recientes primero.
func (r *TransactionRepo) ListLedger(ctx context.Context) ([]entity.LedgerEntry, error) {
	query := `
		SELECT t.trx_id, t.sku_id, s.product_name, s.sku_id, t.retailer_id, rt.retailer_name, rt.division,
		       t.status, t.quantity_changed, t.effective_date, t.log_timestamp, t.user_id, t.source
		FROM transactions t
		JOIN skus s ON s.id = t.sku_id
		JOIN retailers rt ON rt.id = t.retailer_id
		ORDER BY t.log_timestamp DESC, t.trx_id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	list := []entity.LedgerEntry{}
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.TransactionID, &e.ProductID, &e.ProductName, &e.SKU, &e.RetailerID, &e.RetailerName, &e.Division,
			&e.Status, &e.QuantityDelta, &e.EffectiveDate, &e.LoggedAt, &e.UserID, &e.Source,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.EffectiveDate = time.Date(e.EffectiveDate.Year(), e.EffectiveDate.Month(), e.EffectiveDate.Day(), 0, 0, 0, 0, time.UTC)
		list = append(list, e)
	}
	return list, rows.Err()
}
