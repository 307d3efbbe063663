package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
)

// Tipos de entidad aceptados por Names.
const (
	EntityProducts  = "products"
	EntitySKUs      = "skus"
	EntityRetailers = "retailers"
)

// UseCase lectura del catálogo maestro.
type UseCase struct {
	productRepo  repository.ProductRepository
	retailerRepo repository.RetailerRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(productRepo repository.ProductRepository, retailerRepo repository.RetailerRepository) *UseCase {
	return &UseCase{productRepo: productRepo, retailerRepo: retailerRepo}
}

// Names devuelve los nombres canónicos de la entidad en orden de catálogo.
func (uc *UseCase) Names(ctx context.Context, entityType string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(entityType)) {
	case EntityProducts, EntitySKUs:
		products, err := uc.Products(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		return names, nil
	case EntityRetailers:
		retailers, err := uc.Retailers(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(retailers))
		for _, r := range retailers {
			names = append(names, r.Name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: tipo de entidad desconocido '%s' (use products o retailers)", domain.ErrInvalidInput, entityType)
	}
}

// Products catálogo de productos.
func (uc *UseCase) Products(ctx context.Context) ([]entity.Product, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listar productos: %v", domain.ErrStorage, err)
	}
	return products, nil
}

// Retailers catálogo de cadenas.
func (uc *UseCase) Retailers(ctx context.Context) ([]entity.Retailer, error) {
	retailers, err := uc.retailerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listar cadenas: %v", domain.ErrStorage, err)
	}
	return retailers, nil
}
