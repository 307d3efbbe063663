package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/masterdata"
)

// MasterDataHandler expone el catálogo de productos y cadenas.
type MasterDataHandler struct {
	uc *masterdata.UseCase
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler(uc *masterdata.UseCase) *MasterDataHandler {
	return &MasterDataHandler{uc: uc}
}

// GetAll godoc
// @Summary      Catálogo completo
// @Tags         master-data
// @Produce      json
// @Success      200  {object}  dto.MasterDataResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/master-data [get]
func (h *MasterDataHandler) GetAll(c *fiber.Ctx) error {
	products, err := h.uc.Products(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	retailers, err := h.uc.Retailers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.MasterDataResponse{
		Products:  make([]dto.ProductResponse, 0, len(products)),
		Retailers: make([]dto.RetailerResponse, 0, len(retailers)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, dto.ProductResponse{ID: p.ID, Name: p.Name, SKU: p.SKU})
	}
	for _, r := range retailers {
		resp.Retailers = append(resp.Retailers, dto.RetailerResponse{ID: r.ID, Key: r.Key, Name: r.Name, Division: r.Division})
	}
	return c.JSON(resp)
}

// GetNames godoc
// @Summary      Nombres canónicos de una entidad
// @Tags         master-data
// @Produce      json
// @Param        entity  path  string  true  "products | skus | retailers"
// @Success      200  {object}  dto.NamesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/master-data/{entity} [get]
func (h *MasterDataHandler) GetNames(c *fiber.Ctx) error {
	entity := c.Params("entity")
	names, err := h.uc.Names(c.UserContext(), entity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NamesResponse{Entity: entity, Names: names})
}
