package ledger

import (
	"context"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo, pasando el repositorio del libro atado a ella.
// Si fn devuelve error no queda nada persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(txRepo repository.TransactionRepository) error) error
}
