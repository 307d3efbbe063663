package dto

import "time"

// CreateTransactionRequest entrada para registrar una transacción individual.
type CreateTransactionRequest struct {
	ProductName   string `json:"product_name"`
	RetailerName  string `json:"retailer_name"`
	Quantity      int64  `json:"quantity"`
	Status        string `json:"status"`                   // planned | lost
	EffectiveDate string `json:"effective_date,omitempty"` // AAAA-MM-DD; vacío = hoy
}

// TransactionResponse transacción registrada (enriquecida con el catálogo).
type TransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	ProductID     int64     `json:"product_id"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku"`
	RetailerID    int64     `json:"retailer_id"`
	RetailerName  string    `json:"retailer_name"`
	QuantityDelta int64     `json:"quantity_delta"`
	Status        string    `json:"status"`
	EffectiveDate string    `json:"effective_date"`
	LoggedAt      time.Time `json:"logged_at"`
	UserID        string    `json:"user_id"`
	Source        string    `json:"source"`
}

// CreateTransactionResponse respuesta de POST /api/transactions.
type CreateTransactionResponse struct {
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// LedgerEntryResponse fila del log de transacciones.
type LedgerEntryResponse struct {
	TransactionID string    `json:"transaction_id"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku"`
	Retailer      string    `json:"retailer"`
	Division      string    `json:"division"`
	Status        string    `json:"status"`
	QuantityDelta int64     `json:"quantity_delta"`
	EffectiveDate string    `json:"effective_date"`
	LoggedAt      time.Time `json:"logged_at"`
	UserID        string    `json:"user_id"`
	Source        string    `json:"source"`
}

// TransactionLogResponse página del log de transacciones (más recientes primero).
type TransactionLogResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// BulkRowError rechazo de una fila; row 0 = error del lote completo.
type BulkRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkUploadResponse resultado de una carga masiva; errors nunca es null.
type BulkUploadResponse struct {
	BatchID         string         `json:"batch_id"`
	SuccessfulCount int            `json:"successful_count"`
	Errors          []BulkRowError `json:"errors"`
}
