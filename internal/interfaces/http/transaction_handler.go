package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

// TransactionHandler registro individual, carga masiva y log del libro.
type TransactionHandler struct {
	ledger  *ledger.UseCase
	summary *summary.UseCase
}

// NewTransactionHandler construye el handler. summaryUC se usa para leer el log e invalidar la caché.
func NewTransactionHandler(ledgerUC *ledger.UseCase, summaryUC *summary.UseCase) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerUC, summary: summaryUC}
}

// Create godoc
// @Summary      Registrar una transacción de PODs
// @Description  Resuelve producto y cadena por coincidencia difusa, deriva el estado y confirma.
//               Una pérdida que deja el total proyectado negativo responde 409.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        user_id  query  string  false  "usuario que registra (por defecto api_user)"
// @Param        body     body   dto.CreateTransactionRequest  true  "product_name, retailer_name, quantity, status, effective_date"
// @Success      201  {object}  dto.CreateTransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	trx, err := h.ledger.Submit(c.UserContext(), ledger.TransactionInput{
		ProductName:   req.ProductName,
		RetailerName:  req.RetailerName,
		Quantity:      req.Quantity,
		Status:        req.Status,
		EffectiveDate: req.EffectiveDate,
	}, GetUserID(c), entity.SourceAPI)
	if err != nil {
		return writeError(c, err)
	}
	h.summary.Invalidate(c.UserContext())

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransactionResponse{
		Message:     "transacción registrada",
		Transaction: toTransactionResponse(trx),
	})
}

// BulkUpload godoc
// @Summary      Carga masiva CSV/XLSX
// @Description  Columnas requeridas: product_name, retailer_name, quantity, status; opcional effective_date.
//               Las filas válidas se confirman juntas; cada fila rechazada se informa con su número.
// @Tags         transactions
// @Accept       multipart/form-data
// @Produce      json
// @Param        user_id  query     string  false  "usuario que registra"
// @Param        file     formData  file    true   "archivo .csv o .xlsx"
// @Success      200  {object}  dto.BulkUploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/transactions/bulk-upload [post]
func (h *TransactionHandler) BulkUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "INVALID_BODY", "se requiere el archivo en el campo 'file'")
	}
	format, err := ledger.FormatFromFilename(fh.Filename)
	if err != nil {
		return writeError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_BODY", "no se pudo leer el archivo")
	}
	defer f.Close()

	res, err := h.ledger.Ingest(c.UserContext(), f, format, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	if res.Accepted > 0 {
		h.summary.Invalidate(c.UserContext())
	}

	resp := dto.BulkUploadResponse{
		BatchID:         res.BatchID,
		SuccessfulCount: res.Accepted,
		Errors:          make([]dto.BulkRowError, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, dto.BulkRowError{Row: e.Row, Message: e.Message})
	}
	return c.JSON(resp)
}

// Log godoc
// @Summary      Log de transacciones (más recientes primero)
// @Tags         transactions
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (por defecto 100, máx 1000)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.TransactionLogResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/transactions/log [get]
func (h *TransactionHandler) Log(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "VALIDATION", "parámetros de paginación inválidos")
	}
	page.DefaultPage()

	entries, err := h.summary.Ledger(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	start := page.Offset
	if start > len(entries) {
		start = len(entries)
	}
	end := start + page.Limit
	if end > len(entries) {
		end = len(entries)
	}

	items := make([]dto.LedgerEntryResponse, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, dto.LedgerEntryResponse{
			TransactionID: e.TransactionID,
			ProductName:   e.ProductName,
			SKU:           e.SKU,
			Retailer:      e.RetailerName,
			Division:      e.Division,
			Status:        e.Status,
			QuantityDelta: e.QuantityDelta,
			EffectiveDate: e.EffectiveDate.Format(pod.DateLayout),
			LoggedAt:      e.LoggedAt,
			UserID:        e.UserID,
			Source:        e.Source,
		})
	}
	return c.JSON(dto.TransactionLogResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(entries)},
	})
}

func toTransactionResponse(trx *ledger.EnrichedTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: trx.ID,
		ProductID:     trx.ProductID,
		ProductName:   trx.ProductName,
		SKU:           trx.SKU,
		RetailerID:    trx.RetailerID,
		RetailerName:  trx.RetailerName,
		QuantityDelta: trx.QuantityDelta,
		Status:        trx.Status,
		EffectiveDate: trx.EffectiveDate.Format(pod.DateLayout),
		LoggedAt:      trx.LoggedAt,
		UserID:        trx.UserID,
		Source:        trx.Source,
	}
}
