package entity

// Product representa un producto del catálogo maestro (fila de la tabla skus).
// Inmutable una vez sembrado; Name es la única fuente de nombres válidos.
type Product struct {
	ID   int64
	Name string // nombre canónico de despliegue
	SKU  string // código externo (UPC)
}
