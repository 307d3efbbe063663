// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y como doble de pruebas de los casos de uso.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/catalog"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*Store)(nil)
	_ repository.TransactionRepository = (*txRepo)(nil)
	_ ledger.TxRunner                  = (*Store)(nil)
)

// Store guarda catálogo y libro en memoria. Las unidades de trabajo (Run) se serializan entre sí;
// las inserciones dentro de Run quedan en staging hasta que fn termina sin error.
type Store struct {
	runMu sync.Mutex // serializa unidades de trabajo

	mu        sync.RWMutex
	products  []entity.Product
	retailers []entity.Retailer
	trxs      []entity.Transaction
	failNext  error
}

// NewStore crea un store con el catálogo dado; los ids se asignan 1..n en orden.
func NewStore(products []entity.Product, retailers []entity.Retailer) *Store {
	s := &Store{}
	s.Seed(products, retailers)
	return s
}

// NewSeededStore crea un store con el catálogo por defecto.
func NewSeededStore() *Store {
	return NewStore(catalog.DefaultProducts, catalog.DefaultRetailers)
}

// Seed carga el catálogo si está vacío. Devuelve cuántos productos y cadenas insertó.
func (s *Store) Seed(products []entity.Product, retailers []entity.Retailer) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var np, nr int
	if len(s.products) == 0 {
		for i, p := range products {
			p.ID = int64(i + 1)
			s.products = append(s.products, p)
		}
		np = len(products)
	}
	if len(s.retailers) == 0 {
		for i, r := range retailers {
			r.ID = int64(i + 1)
			s.retailers = append(s.retailers, r)
		}
		nr = len(retailers)
	}
	return np, nr
}

// FailNextInsert hace que la próxima inserción (Create o CreateBatch) falle con err.
func (s *Store) FailNextInsert(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// List implementa repository.ProductRepository.
func (s *Store) List(_ context.Context) ([]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Product(nil), s.products...), nil
}

// Products devuelve el repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return s }

// Retailers devuelve el repositorio de cadenas.
func (s *Store) Retailers() repository.RetailerRepository { return retailerRepo{s} }

// Transactions devuelve el repositorio del libro fuera de una unidad de trabajo (cada Create confirma de inmediato).
func (s *Store) Transactions() repository.TransactionRepository { return &txRepo{store: s} }

// Count número de transacciones confirmadas.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trxs)
}

// Run ejecuta fn en una unidad de trabajo. Si fn falla se descartan las inserciones en staging.
func (s *Store) Run(ctx context.Context, fn func(txRepo repository.TransactionRepository) error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repo := &txRepo{store: s, inTx: true}
	if err := fn(repo); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trxs = append(s.trxs, repo.staged...)
	return nil
}

type retailerRepo struct{ s *Store }

func (r retailerRepo) List(_ context.Context) ([]entity.Retailer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.Retailer(nil), r.s.retailers...), nil
}

// txRepo ve las filas confirmadas más las propias en staging.
type txRepo struct {
	store  *Store
	inTx   bool
	staged []entity.Transaction
}

func (r *txRepo) Create(ctx context.Context, trx *entity.Transaction) error {
	return r.CreateBatch(ctx, []*entity.Transaction{trx})
}

func (r *txRepo) CreateBatch(_ context.Context, trxs []*entity.Transaction) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}

	rows := make([]entity.Transaction, 0, len(trxs))
	for _, t := range trxs {
		if t == nil {
			continue
		}
		if r.existsLocked(t.ProductID, t.RetailerID, t.QuantityDelta, t.EffectiveDate) || containsDuplicate(rows, *t) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, t.ID)
		}
		rows = append(rows, *t)
	}
	if r.inTx {
		r.staged = append(r.staged, rows...)
	} else {
		s.trxs = append(s.trxs, rows...)
	}
	return nil
}

func (r *txRepo) TotalAsOf(_ context.Context, productID, retailerID int64, date time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var total int64
	r.each(func(t entity.Transaction) {
		if t.ProductID == productID && t.RetailerID == retailerID && !t.EffectiveDate.After(date) {
			total += t.QuantityDelta
		}
	})
	return total, nil
}

func (r *txRepo) Exists(_ context.Context, productID, retailerID, delta int64, date time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.existsLocked(productID, retailerID, delta, date), nil
}

// LockKey no hace nada: Run ya serializa todas las unidades de trabajo.
func (r *txRepo) LockKey(_ context.Context, _, _ int64) error { return nil }

func (r *txRepo) ListLedger(_ context.Context) ([]entity.LedgerEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make(map[int64]entity.Product, len(s.products))
	for _, p := range s.products {
		products[p.ID] = p
	}
	retailers := make(map[int64]entity.Retailer, len(s.retailers))
	for _, rt := range s.retailers {
		retailers[rt.ID] = rt
	}

	out := []entity.LedgerEntry{}
	r.each(func(t entity.Transaction) {
		p, rt := products[t.ProductID], retailers[t.RetailerID]
		out = append(out, entity.LedgerEntry{
			TransactionID: t.ID,
			ProductID:     t.ProductID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			RetailerID:    t.RetailerID,
			RetailerName:  rt.Name,
			Division:      rt.Division,
			Status:        t.Status,
			QuantityDelta: t.QuantityDelta,
			EffectiveDate: t.EffectiveDate,
			LoggedAt:      t.LoggedAt,
			UserID:        t.UserID,
			Source:        t.Source,
		})
	})
	// Más recientes primero; con el mismo logged_at, la última insertada primero.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	return out, nil
}

func (r *txRepo) each(fn func(entity.Transaction)) {
	for _, t := range r.store.trxs {
		fn(t)
	}
	for _, t := range r.staged {
		fn(t)
	}
}

func (r *txRepo) existsLocked(productID, retailerID, delta int64, date time.Time) bool {
	found := false
	r.each(func(t entity.Transaction) {
		if t.ProductID == productID && t.RetailerID == retailerID && t.QuantityDelta == delta && t.EffectiveDate.Equal(date) {
			found = true
		}
	})
	return found
}

func containsDuplicate(rows []entity.Transaction, t entity.Transaction) bool {
	for _, o := range rows {
		if o.ProductID == t.ProductID && o.RetailerID == t.RetailerID && o.QuantityDelta == t.QuantityDelta && o.EffectiveDate.Equal(t.EffectiveDate) {
			return true
		}
	}
	return false
}
