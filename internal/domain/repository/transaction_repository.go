package repository

import (
	"context"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia del libro de PODs (append-only).
// Las implementaciones se pueden usar con el pool o atadas a una transacción (ver TxRunner).
type TransactionRepository interface {
	Create(ctx context.Context, trx *entity.Transaction) error
	// CreateBatch inserta todas las filas o ninguna cuando se ejecuta dentro de una unidad de trabajo.
	CreateBatch(ctx context.Context, trxs []*entity.Transaction) error
	// TotalAsOf suma quantity_delta del par (producto, cadena) con effective_date <= date. 0 si no hay filas.
	TotalAsOf(ctx context.Context, productID, retailerID int64, date time.Time) (int64, error)
	// Exists indica si ya hay una transacción idéntica (producto, cadena, delta, fecha efectiva).
	Exists(ctx context.Context, productID, retailerID, delta int64, date time.Time) (bool, error)
	// LockKey serializa escrituras sobre el par hasta el fin de la unidad de trabajo.
	LockKey(ctx context.Context, productID, retailerID int64) error
	// ListLedger devuelve una foto del libro unida con los datos maestros.
	ListLedger(ctx context.Context) ([]entity.LedgerEntry, error)
}
