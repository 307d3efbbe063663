package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica los scripts de migrations/ en orden. Los scripts son idempotentes.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(files)
	for _, name := range files {
		script, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("leer %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("aplicar %s: %w", name, err)
		}
	}
	return nil
}

// Seed inserta el catálogo si las tablas están vacías, en orden, para que los ids SERIAL queden 1..n.
// Devuelve cuántos productos y cadenas insertó.
func Seed(ctx context.Context, pool *pgxpool.Pool, products []entity.Product, retailers []entity.Retailer) (int, int, error) {
	var np, nr int
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var err error
		if np, err = seedTable(ctx, tx, "skus", len(products), func(b *pgx.Batch) {
			for _, p := range products {
				b.Queue(`INSERT INTO skus (product_name, sku_id) VALUES ($1, $2)`, p.Name, p.SKU)
			}
		}); err != nil {
			return err
		}
		nr, err = seedTable(ctx, tx, "retailers", len(retailers), func(b *pgx.Batch) {
			for _, r := range retailers {
				b.Queue(`INSERT INTO retailers (retailer_key, retailer_name, division) VALUES ($1, $2, $3)`, r.Key, r.Name, r.Division)
			}
		})
		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("seed: %w", err)
	}
	return np, nr, nil
}

func seedTable(ctx context.Context, tx pgx.Tx, table string, n int, queue func(*pgx.Batch)) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("contar %s: %w", table, err)
	}
	if count > 0 || n == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	queue(batch)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insertar %s: %w", table, err)
	}
	return n, nil
}
