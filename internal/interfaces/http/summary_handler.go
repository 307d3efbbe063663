package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

// SummaryHandler pivot producto × cadena y agregaciones libres.
type SummaryHandler struct {
	uc *summary.UseCase
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(uc *summary.UseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// Pivot godoc
// @Summary      Pivot de PODs
// @Description  include_future=false solo cuenta fechas efectivas hasta hoy; true incluye fechas futuras.
// @Tags         summary
// @Produce      json
// @Param        include_future  query  bool  false  "incluir fechas futuras"
// @Success      200  {object}  dto.PivotResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/summary [get]
func (h *SummaryHandler) Pivot(c *fiber.Ctx) error {
	includeFuture := c.QueryBool("include_future", false)
	table, err := h.uc.Pivot(c.UserContext(), includeFuture)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPivotResponse(table, includeFuture))
}

// Query godoc
// @Summary      Agregación de PODs con filtros y agrupación
// @Tags         summary
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SummaryQueryRequest  true  "group_by, filters, include_future"
// @Success      200  {object}  dto.AggregateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/summary/query [post]
func (h *SummaryHandler) Query(c *fiber.Ctx) error {
	var req dto.SummaryQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	q := summary.Query{GroupBy: req.GroupBy, IncludeFuture: req.IncludeFuture}
	if len(req.Filters) > 0 {
		q.Filters = make(map[string][]string, len(req.Filters))
		for col, values := range req.Filters {
			q.Filters[col] = values
		}
	}
	res, err := h.uc.Aggregate(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAggregateResponse(res))
}

func toPivotResponse(t *pod.PivotTable, includeFuture bool) dto.PivotResponse {
	return dto.PivotResponse{
		IncludeFuture: includeFuture,
		Products:      t.Products,
		Retailers:     t.Retailers,
		Cells:         t.Cells,
		Table:         t.AsMap(),
		GrandTotal:    t.Total(),
	}
}

func toAggregateResponse(res *summary.Result) dto.AggregateResponse {
	resp := dto.AggregateResponse{
		Scalar:     res.Scalar,
		Label:      res.Label,
		Dimensions: res.Dimensions,
		Rows:       make([]dto.AggregateRow, 0, len(res.Rows)),
		NetPODs:    res.NetPODs,
	}
	for _, r := range res.Rows {
		values := make(map[string]string, len(res.Dimensions))
		for i, d := range res.Dimensions {
			values[d] = r.Values[i]
		}
		resp.Rows = append(resp.Rows, dto.AggregateRow{Values: values, NetPODs: r.NetPODs})
	}
	return resp
}
