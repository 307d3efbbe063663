// Package excel genera el reporte de PODs en XLSX con excelize.
package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

var _ ports.ReportWriter = (*ReportWriter)(nil)

// Hojas y textos del reporte.
const (
	SheetCurrent  = "Current PODs"
	SheetFuture   = "Future PODs"
	MessageHeader = "Message"
	NoCurrentData = "No current POD data available"
	NoFutureData  = "No future POD data available"
	ProductHeader = "product_name"
)

// ReportWriter escribe cada vista como una hoja pivot producto × cadena con totales.
type ReportWriter struct{}

func NewReportWriter() *ReportWriter { return &ReportWriter{} }

func (*ReportWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (*ReportWriter) Extension() string { return ".xlsx" }

// Write genera el libro con las hojas "Current PODs" y "Future PODs". Una vista vacía
// se escribe como una columna "Message".
func (g *ReportWriter) Write(w io.Writer, current, future *pod.PivotTable, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCurrent); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetFuture); err != nil {
		return fmt.Errorf("excel: crear hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: crear estilo: %w", err)
	}

	if err := writeSheet(f, SheetCurrent, current, NoCurrentData, bold); err != nil {
		return err
	}
	if err := writeSheet(f, SheetFuture, future, NoFutureData, bold); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	f.SetDocProps(&excelize.DocProperties{
		Title:   "POD Report",
		Created: generatedAt.UTC().Format(time.RFC3339),
	})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir libro: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *pod.PivotTable, emptyMsg string, bold int) error {
	if table.IsEmpty() {
		if err := f.SetCellValue(sheet, "A1", MessageHeader); err != nil {
			return fmt.Errorf("excel: %s: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, "A2", emptyMsg); err != nil {
			return fmt.Errorf("excel: %s: %w", sheet, err)
		}
		return f.SetCellStyle(sheet, "A1", "A1", bold)
	}

	header := make([]interface{}, 0, len(table.Retailers)+1)
	header = append(header, ProductHeader)
	for _, r := range table.Retailers {
		header = append(header, r)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: %s: cabecera: %w", sheet, err)
	}

	for i, p := range table.Products {
		values := make([]interface{}, 0, len(table.Retailers)+1)
		values = append(values, p)
		for _, v := range table.Cells[i] {
			values = append(values, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("excel: %s: fila %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(table.Retailers) + 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	last := fmt.Sprintf("%s%d", lastCol, len(table.Products)+1)
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", len(table.Products)+1), last, bold); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}
