package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
)

// Format formato de archivo de carga masiva.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Columnas del archivo masivo (se comparan en minúsculas y sin espacios alrededor).
const (
	colProductName   = "product_name"
	colRetailerName  = "retailer_name"
	colQuantity      = "quantity"
	colStatus        = "status"
	colEffectiveDate = "effective_date"
)

var requiredColumns = []string{colProductName, colRetailerName, colQuantity, colStatus}

// FormatFromFilename deduce el formato por extensión (.csv, .xlsx).
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: tipo de archivo no soportado '%s' (use .csv o .xlsx)", domain.ErrInvalidFormat, name)
	}
}

// rawRow fila de datos con su número de fila en el archivo (encabezado = 1).
type rawRow struct {
	Line   int
	Fields map[string]string
}

// parseBatch lee el archivo completo. Cualquier error estructural invalida todo el lote.
func parseBatch(r io.Reader, format Format) ([]rawRow, error) {
	var (
		records [][]string
		lines   []int
		err     error
	)
	switch format {
	case FormatCSV:
		records, lines, err = readCSV(r)
	case FormatXLSX:
		records, lines, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: formato no soportado '%s'", domain.ErrInvalidFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidFormat)
	}

	header := make([]string, len(records[0]))
	present := map[string]bool{}
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		present[header[i]] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: faltan columnas requeridas: %s", domain.ErrInvalidFormat, strings.Join(missing, ", "))
	}

	rows := make([]rawRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if blank(rec) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" || j >= len(rec) {
				continue
			}
			fields[name] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, rawRow{Line: lines[i], Fields: fields})
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, []int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no se pudo leer el archivo: %v", domain.ErrInvalidFormat, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		// Exportaciones de hojas de cálculo en Windows.
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return nil, nil, fmt.Errorf("%w: codificación no reconocida: %v", domain.ErrInvalidFormat, err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: CSV mal formado: %v", domain.ErrInvalidFormat, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func readXLSX(r io.Reader) ([][]string, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no se pudo abrir el Excel: %v", domain.ErrInvalidFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: el Excel no tiene hojas", domain.ErrInvalidFormat)
	}
	// Valores crudos: el formato de celda no debe alterar fechas ni cantidades.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no se pudo leer la hoja '%s': %v", domain.ErrInvalidFormat, sheets[0], err)
	}
	// GetRows conserva las filas vacías intermedias; el índice es la fila de la hoja.
	var records [][]string
	var lines []int
	for i, row := range rows {
		if len(records) == 0 && blank(row) {
			continue
		}
		records = append(records, row)
		lines = append(lines, i+1)
	}
	if len(records) > 0 {
		normalizeSerialDates(records)
	}
	return records, lines, nil
}

// normalizeSerialDates convierte los seriales de Excel de la columna de fecha a AAAA-MM-DD.
func normalizeSerialDates(records [][]string) {
	col := -1
	for j, h := range records[0] {
		if strings.ToLower(strings.TrimSpace(h)) == colEffectiveDate {
			col = j
			break
		}
	}
	if col < 0 {
		return
	}
	for _, rec := range records[1:] {
		if col >= len(rec) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			continue
		}
		rec[col] = t.Format(pod.DateLayout)
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
