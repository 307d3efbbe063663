package repository

import (
	"context"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos (DIP).
type ProductRepository interface {
	// List devuelve todos los productos en orden de catálogo (id ascendente).
	List(ctx context.Context) ([]entity.Product, error)
}
