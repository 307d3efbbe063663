package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/assistant"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/masterdata"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	MasterData  *masterdata.UseCase
	Ledger      *ledger.UseCase
	Summary     *summary.UseCase
	Assistant   *assistant.UseCase
	ExcelReport ports.ReportWriter
	PDFReport   ports.ReportWriter
	APIKey      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todo /api pasa por la API key (si está configurada) y resuelve user_id.
	api := app.Group("/api", APIKeyMiddleware(deps.APIKey), UserMiddleware())

	masterDataHandler := NewMasterDataHandler(deps.MasterData)
	api.Get("/master-data", masterDataHandler.GetAll)
	api.Get("/master-data/:entity", masterDataHandler.GetNames)

	transactions := api.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.Ledger, deps.Summary)
	transactions.Post("/", transactionHandler.Create)
	transactions.Post("/bulk-upload", transactionHandler.BulkUpload)
	transactions.Get("/log", transactionHandler.Log)

	summaryHandler := NewSummaryHandler(deps.Summary)
	api.Get("/summary", summaryHandler.Pivot)
	api.Post("/summary/query", summaryHandler.Query)

	assistantHandler := NewAssistantHandler(deps.Assistant)
	api.Get("/query", assistantHandler.Query)
	api.Post("/chat", assistantHandler.Chat)

	exportHandler := NewExportHandler(deps.Summary, deps.ExcelReport, deps.PDFReport)
	api.Get("/export/excel", exportHandler.Excel)
	api.Get("/export/pdf", exportHandler.PDF)
}
