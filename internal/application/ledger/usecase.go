package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/logger"
)

// DefaultUserID usuario de auditoría cuando el llamador no envía uno.
const DefaultUserID = "api_user"

// TransactionInput esquema canónico de entrada de una transacción (ya mapeado desde HTTP, CLI o archivo).
type TransactionInput struct {
	ProductName   string
	RetailerName  string
	Quantity      int64
	Status        string // planned | lost
	EffectiveDate string // AAAA-MM-DD; vacío = hoy
}

// EnrichedTransaction transacción validada, resuelta contra el catálogo y lista para confirmar.
type EnrichedTransaction struct {
	entity.Transaction
	ProductName  string
	SKU          string
	RetailerName string
}

// UseCase valida, confirma y carga masivamente transacciones del libro de PODs.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	retailerRepo repository.RetailerRepository
	resolver     *pod.Resolver
	clock        pod.Clock
	loc          *time.Location
	log          *logger.Logger
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(c pod.Clock) Option {
	return func(uc *UseCase) { uc.clock = c }
}

// WithLocation fija la zona horaria que define "hoy".
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *UseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	retailerRepo repository.RetailerRepository,
	resolver *pod.Resolver,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		retailerRepo: retailerRepo,
		resolver:     resolver,
		clock:        time.Now,
		loc:          time.UTC,
		log:          logger.Nop(),
	}
	if uc.resolver == nil {
		uc.resolver = pod.NewResolver(pod.DefaultMatchThreshold)
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Today fecha civil actual según el reloj y la zona configurados.
func (uc *UseCase) Today() time.Time {
	return pod.DateOf(uc.clock(), uc.loc)
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// catalogSnapshot foto del catálogo usada para resolver nombres; una por llamada.
type catalogSnapshot struct {
	products      []entity.Product
	productNames  []string
	retailers     []entity.Retailer
	retailerNames []string
}

func (uc *UseCase) loadCatalog(ctx context.Context) (*catalogSnapshot, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	retailers, err := uc.retailerRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	s := &catalogSnapshot{products: products, retailers: retailers}
	for _, p := range products {
		s.productNames = append(s.productNames, p.Name)
	}
	for _, r := range retailers {
		s.retailerNames = append(s.retailerNames, r.Name)
	}
	return s, nil
}

// ── Validación ────────────────────────────────────────────────────────────────

// ValidateAndEnrich valida la entrada, resuelve producto y cadena contra el catálogo y deriva delta, estado e id.
func (uc *UseCase) ValidateAndEnrich(ctx context.Context, in TransactionInput, userID, source string) (*EnrichedTransaction, error) {
	snap, err := uc.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return uc.enrich(snap, in, userID, source, uc.clock())
}

func (uc *UseCase) enrich(snap *catalogSnapshot, in TransactionInput, userID, source string, now time.Time) (*EnrichedTransaction, error) {
	productName := strings.TrimSpace(in.ProductName)
	retailerName := strings.TrimSpace(in.RetailerName)
	switch {
	case productName == "":
		return nil, fmt.Errorf("%w: falta el campo requerido 'product_name'", domain.ErrInvalidInput)
	case retailerName == "":
		return nil, fmt.Errorf("%w: falta el campo requerido 'retailer_name'", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Status) == "":
		return nil, fmt.Errorf("%w: falta el campo requerido 'status'", domain.ErrInvalidInput)
	}

	today := pod.DateOf(now, uc.loc)
	effective, err := pod.ParseDate(in.EffectiveDate, today)
	if err != nil {
		return nil, err
	}
	delta, status, err := pod.DeriveMovement(in.Status, in.Quantity, effective, today)
	if err != nil {
		return nil, err
	}

	pm, ok := uc.resolver.ResolveIndex(productName, snap.productNames)
	if !ok {
		return nil, fmt.Errorf("%w: producto no reconocido: '%s'", domain.ErrInvalidInput, productName)
	}
	rm, ok := uc.resolver.ResolveIndex(retailerName, snap.retailerNames)
	if !ok {
		return nil, fmt.Errorf("%w: cadena no reconocida: '%s'", domain.ErrInvalidInput, retailerName)
	}
	product := snap.products[pm.Index]
	retailer := snap.retailers[rm.Index]

	if userID = strings.TrimSpace(userID); userID == "" {
		userID = DefaultUserID
	}
	if source == "" {
		source = entity.SourceAPI
	}

	return &EnrichedTransaction{
		Transaction: entity.Transaction{
			ID:            pod.TransactionID(product.ID, retailer.ID, now),
			ProductID:     product.ID,
			RetailerID:    retailer.ID,
			QuantityDelta: delta,
			Status:        status,
			EffectiveDate: effective,
			LoggedAt:      now.UTC(),
			UserID:        userID,
			Source:        source,
		},
		ProductName:  product.Name,
		SKU:          product.SKU,
		RetailerName: retailer.Name,
	}, nil
}

// ── Confirmación ──────────────────────────────────────────────────────────────

// Commit confirma la transacción en una unidad de trabajo que bloquea el par (producto, cadena):
// rechaza pérdidas que dejarían el total proyectado negativo y duplicados exactos.
func (uc *UseCase) Commit(ctx context.Context, trx *EnrichedTransaction) error {
	if trx == nil {
		return fmt.Errorf("%w: transacción vacía", domain.ErrInvalidInput)
	}
	err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository) error {
		if err := txRepo.LockKey(ctx, trx.ProductID, trx.RetailerID); err != nil {
			return storageError(err)
		}
		if err := checkLoss(ctx, txRepo, trx); err != nil {
			return err
		}
		dup, err := txRepo.Exists(ctx, trx.ProductID, trx.RetailerID, trx.QuantityDelta, trx.EffectiveDate)
		if err != nil {
			return storageError(err)
		}
		if dup {
			return duplicateError(trx)
		}
		if err := txRepo.Create(ctx, &trx.Transaction); err != nil {
			return storageError(err)
		}
		return nil
	})
	if err != nil {
		err = storageError(err)
		uc.log.Warn().Err(err).
			Int64("product_id", trx.ProductID).
			Int64("retailer_id", trx.RetailerID).
			Int64("quantity_delta", trx.QuantityDelta).
			Msg("transacción rechazada")
		return err
	}
	uc.log.Info().
		Str("transaction_id", trx.ID).
		Int64("product_id", trx.ProductID).
		Int64("retailer_id", trx.RetailerID).
		Int64("quantity_delta", trx.QuantityDelta).
		Str("status", trx.Status).
		Str("source", trx.Source).
		Msg("transacción registrada")
	return nil
}

// Submit valida y confirma una transacción individual.
func (uc *UseCase) Submit(ctx context.Context, in TransactionInput, userID, source string) (*EnrichedTransaction, error) {
	trx, err := uc.ValidateAndEnrich(ctx, in, userID, source)
	if err != nil {
		return nil, err
	}
	if err := uc.Commit(ctx, trx); err != nil {
		return nil, err
	}
	return trx, nil
}

func checkLoss(ctx context.Context, txRepo repository.TransactionRepository, trx *EnrichedTransaction) error {
	if trx.QuantityDelta >= 0 {
		return nil
	}
	total, err := txRepo.TotalAsOf(ctx, trx.ProductID, trx.RetailerID, trx.EffectiveDate)
	if err != nil {
		return storageError(err)
	}
	if -trx.QuantityDelta > total {
		return fmt.Errorf("%w: no se pueden perder %d PODs de '%s' en '%s': el total proyectado al %s es solo %d",
			domain.ErrInsufficientPODs, -trx.QuantityDelta, trx.ProductName, trx.RetailerName,
			trx.EffectiveDate.Format(pod.DateLayout), total)
	}
	return nil
}

func duplicateError(trx *EnrichedTransaction) error {
	return fmt.Errorf("%w: ya existe %+d PODs de '%s' en '%s' con fecha %s",
		domain.ErrDuplicate, trx.QuantityDelta, trx.ProductName, trx.RetailerName,
		trx.EffectiveDate.Format(pod.DateLayout))
}

// storageError deja pasar los errores de dominio y envuelve el resto como falla de almacenamiento.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{domain.ErrDuplicate, domain.ErrInsufficientPODs, domain.ErrInvalidInput, domain.ErrStorage} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}
