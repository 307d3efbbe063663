package repository

import (
	"context"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
)

// RetailerRepository define el puerto de lectura del catálogo de cadenas.
type RetailerRepository interface {
	// List devuelve todas las cadenas en orden de catálogo (id ascendente).
	List(ctx context.Context) ([]entity.Retailer, error)
}
