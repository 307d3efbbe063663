package entity

import "time"

// Estados de una transacción de POD.
const (
	StatusPlanned = "planned" // ganancia con fecha efectiva futura
	StatusLive    = "live"    // ganancia cuya fecha efectiva ya ocurrió
	StatusLost    = "lost"    // cualquier reducción, con o sin fecha futura
)

// Intenciones aceptadas en la entrada (el estado final se deriva de la intención y la fecha).
const (
	IntentPlanned = "planned"
	IntentLost    = "lost"
)

// Fuentes de registro conocidas (metadato de auditoría).
const (
	SourceAPI    = "api_single"
	SourceBulk   = "bulk_upload"
	SourceCLI    = "cli"
	SourceUIForm = "ui_form"
)

// Transaction es el asiento atómico del libro de PODs. Solo se inserta; nunca se actualiza ni se borra.
type Transaction struct {
	ID            string
	ProductID     int64
	RetailerID    int64
	QuantityDelta int64     // positivo = ganancia, negativo = pérdida; nunca cero
	Status        string    // planned | live | lost
	EffectiveDate time.Time // fecha civil (medianoche UTC)
	LoggedAt      time.Time // solo auditoría
	UserID        string
	Source        string
}

// LedgerEntry es una transacción unida con los datos maestros legibles.
// Es la fila que consume el motor de agregación.
type LedgerEntry struct {
	TransactionID string
	ProductID     int64
	ProductName   string
	SKU           string
	RetailerID    int64
	RetailerName  string
	Division      string
	Status        string
	QuantityDelta int64
	EffectiveDate time.Time
	LoggedAt      time.Time
	UserID        string
	Source        string
}
