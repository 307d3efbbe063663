// Package pdf genera el reporte de PODs en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del reporte  │  fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN "Current PODs": Producto | Cadena | PODs netos      │
//	│  Grand Total                                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN "Future PODs": misma tabla, incluye fechas futuras  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

var _ ports.ReportWriter = (*ReportWriter)(nil)

// Títulos de sección; coinciden con las hojas del reporte Excel.
const (
	CurrentTitle = "Current PODs"
	FutureTitle  = "Future PODs"
	EmptyMessage = "No data available to export."
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Writer ────────────────────────────────────────────────────────────────────

// ReportWriter implementa ports.ReportWriter con Maroto v2.
type ReportWriter struct{}

// NewReportWriter construye el generador.
func NewReportWriter() *ReportWriter { return &ReportWriter{} }

func (*ReportWriter) ContentType() string { return "application/pdf" }
func (*ReportWriter) Extension() string   { return ".pdf" }

// Write genera el PDF con ambas vistas y lo escribe en w.
func (g *ReportWriter) Write(w io.Writer, current, future *pod.PivotTable, generatedAt time.Time) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("POD Report", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if current.IsEmpty() && future.IsEmpty() {
		m.AddRows(messageRow(EmptyMessage))
	} else {
		m.AddRows(sectionRows(CurrentTitle, current)...)
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionRows(FutureTitle, future)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("POD Report", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("2006-01-02 15:04:05"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func messageRow(msg string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 10, Align: align.Center, Top: 3, Color: colorGray}),
	))
}

// sectionRows: título, cabecera y una fila por combinación con valor distinto de cero.
func sectionRows(title string, table *pod.PivotTable) []core.Row {
	rows := []core.Row{
		row.New(9).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2}),
		)),
	}
	if table.IsEmpty() {
		return append(rows, messageRow(EmptyMessage))
	}

	rows = append(rows, tableRow("Product", "Retailer", "Net PODs", true))
	nP, nR := len(table.Products)-1, len(table.Retailers)-1
	for i := 0; i < nP; i++ {
		for j := 0; j < nR; j++ {
			if table.Cells[i][j] == 0 {
				continue
			}
			rows = append(rows, tableRow(table.Products[i], table.Retailers[j], strconv.FormatInt(table.Cells[i][j], 10), false))
		}
	}
	rows = append(rows, tableRow(pod.GrandTotal, "", strconv.FormatInt(table.Total(), 10), true))
	return rows
}

func tableRow(product, retailer, value string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(6).Add(text.New(product, props.Text{Style: style, Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(retailer, props.Text{Style: style, Size: 8, Top: 1})),
		col.New(2).Add(text.New(value, props.Text{Style: style, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}
