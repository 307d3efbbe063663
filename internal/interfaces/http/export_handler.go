package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
)

// ExportHandler descarga del reporte de PODs (vistas actual y futura).
type ExportHandler struct {
	uc    *summary.UseCase
	excel ports.ReportWriter
	pdf   ports.ReportWriter
	now   func() time.Time
}

// NewExportHandler construye el handler. Un writer nil deshabilita ese formato (404).
func NewExportHandler(uc *summary.UseCase, excel, pdf ports.ReportWriter) *ExportHandler {
	return &ExportHandler{uc: uc, excel: excel, pdf: pdf, now: time.Now}
}

// Excel godoc
// @Summary      Reporte XLSX con hojas "Current PODs" y "Future PODs"
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/export/excel [get]
func (h *ExportHandler) Excel(c *fiber.Ctx) error {
	return h.export(c, h.excel)
}

// PDF godoc
// @Summary      Reporte PDF con las vistas actual y futura
// @Tags         export
// @Produce      application/pdf
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/export/pdf [get]
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	return h.export(c, h.pdf)
}

func (h *ExportHandler) export(c *fiber.Ctx, w ports.ReportWriter) error {
	if w == nil {
		return writeError(c, fmt.Errorf("%w: formato de exportación no disponible", domain.ErrNotFound))
	}
	current, future, err := h.uc.ExportViews(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	if current.IsEmpty() && future.IsEmpty() {
		return writeError(c, fmt.Errorf("%w: no hay datos para exportar", domain.ErrNotFound))
	}

	now := h.now()
	var buf bytes.Buffer
	if err := w.Write(&buf, current, future, now); err != nil {
		return writeError(c, err)
	}
	filename := ReportFilename(now, w.Extension())
	c.Set(fiber.HeaderContentType, w.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ReportFilename nombre del archivo exportado: pod_report_YYYYMMDD_HHMMSS<ext>.
func ReportFilename(at time.Time, ext string) string {
	return "pod_report_" + at.Format("20060102_150405") + ext
}
