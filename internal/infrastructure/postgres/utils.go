package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// identityIndex índice único sobre (sku_id, retailer_id, quantity_changed, effective_date).
const identityIndex = "ux_transactions_identity"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isDuplicateTransaction indica si la violación es del índice de identidad (transacción repetida).
// Un choque de trx_id u otro constraint no es un duplicado de negocio.
func isDuplicateTransaction(err error) bool {
	if !isUniqueViolation(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == "" || pgErr.ConstraintName == identityIndex
	}
	return strings.Contains(err.Error(), identityIndex)
}
