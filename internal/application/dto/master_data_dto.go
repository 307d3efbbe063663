package dto

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"product_name"`
	SKU  string `json:"sku"`
}

// RetailerResponse cadena del catálogo.
type RetailerResponse struct {
	ID       int64  `json:"id"`
	Key      string `json:"retailer_key"`
	Name     string `json:"retailer_name"`
	Division string `json:"division"`
}

// MasterDataResponse catálogo completo.
type MasterDataResponse struct {
	Products  []ProductResponse  `json:"products"`
	Retailers []RetailerResponse `json:"retailers"`
}

// NamesResponse nombres canónicos de una entidad, en orden de catálogo.
type NamesResponse struct {
	Entity string   `json:"entity"`
	Names  []string `json:"names"`
}
