package pod

import "sort"

// GrandTotal etiqueta de la fila y la columna de totales. Es parte del contrato del reporte exportado.
const GrandTotal = "Grand Total"

// PivotCell una combinación (producto, cadena) con su total neto.
type PivotCell struct {
	Product  string
	Retailer string
	Net      int64
}

// PivotTable matriz producto × cadena. Products y Retailers incluyen GrandTotal al final
// cuando la tabla no está vacía; Cells[i][j] corresponde a Products[i] × Retailers[j].
type PivotTable struct {
	Products  []string
	Retailers []string
	Cells     [][]int64
}

// BuildPivot reorganiza las celdas en la matriz con totales. Combinaciones ausentes valen 0;
// celdas repetidas se suman. Entrada vacía devuelve una tabla vacía (sin totales).
func BuildPivot(cells []PivotCell) *PivotTable {
	if len(cells) == 0 {
		return &PivotTable{Products: []string{}, Retailers: []string{}, Cells: [][]int64{}}
	}

	prodIdx := map[string]int{}
	retIdx := map[string]int{}
	var products, retailers []string
	for _, c := range cells {
		if _, ok := prodIdx[c.Product]; !ok {
			prodIdx[c.Product] = 0
			products = append(products, c.Product)
		}
		if _, ok := retIdx[c.Retailer]; !ok {
			retIdx[c.Retailer] = 0
			retailers = append(retailers, c.Retailer)
		}
	}
	sort.Strings(products)
	sort.Strings(retailers)
	for i, p := range products {
		prodIdx[p] = i
	}
	for j, r := range retailers {
		retIdx[r] = j
	}

	nP, nR := len(products), len(retailers)
	grid := make([][]int64, nP+1)
	for i := range grid {
		grid[i] = make([]int64, nR+1)
	}
	for _, c := range cells {
		grid[prodIdx[c.Product]][retIdx[c.Retailer]] += c.Net
	}
	for i := 0; i < nP; i++ {
		for j := 0; j < nR; j++ {
			grid[i][nR] += grid[i][j]
			grid[nP][j] += grid[i][j]
		}
		grid[nP][nR] += grid[i][nR]
	}

	return &PivotTable{
		Products:  append(products, GrandTotal),
		Retailers: append(retailers, GrandTotal),
		Cells:     grid,
	}
}

// IsEmpty indica si la tabla no tiene filas.
func (t *PivotTable) IsEmpty() bool {
	return t == nil || len(t.Products) == 0
}

// Value devuelve la celda producto × cadena (acepta GrandTotal en cualquiera de los ejes).
func (t *PivotTable) Value(product, retailer string) (int64, bool) {
	if t.IsEmpty() {
		return 0, false
	}
	i, j := indexOf(t.Products, product), indexOf(t.Retailers, retailer)
	if i < 0 || j < 0 {
		return 0, false
	}
	return t.Cells[i][j], true
}

// Total devuelve la celda Grand Total × Grand Total (0 si la tabla está vacía).
func (t *PivotTable) Total() int64 {
	v, _ := t.Value(GrandTotal, GrandTotal)
	return v
}

// AsMap representa la tabla como {producto: {cadena: valor}}, incluyendo los totales.
func (t *PivotTable) AsMap() map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	if t.IsEmpty() {
		return out
	}
	for i, p := range t.Products {
		row := make(map[string]int64, len(t.Retailers))
		for j, r := range t.Retailers {
			row[r] = t.Cells[i][j]
		}
		out[p] = row
	}
	return out
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
