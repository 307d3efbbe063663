package postgres

import (
	"context"
	"fmt"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

var _ repository.RetailerRepository = (*RetailerRepo)(nil)

// RetailerRepo implementación del puerto RetailerRepository sobre PostgreSQL.
type RetailerRepo struct {
	q Querier
}

// NewRetailerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRetailerRepository(q Querier) *RetailerRepo {
	return &RetailerRepo{q: q}
}

// List devuelve las cadenas en orden de id.
func (r *RetailerRepo) List(ctx context.Context) ([]entity.Retailer, error) {
	rows, err := r.q.Query(ctx, `SELECT id, retailer_key, retailer_name, division FROM retailers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list retailers: %w", err)
	}
	defer rows.Close()

	list := []entity.Retailer{}
	for rows.Next() {
		var rt entity.Retailer
		if err := rows.Scan(&rt.ID, &rt.Key, &rt.Name, &rt.Division); err != nil {
			return nil, fmt.Errorf("scan retailer: %w", err)
		}
		list = append(list, rt)
	}
	return list, rows.Err()
}
