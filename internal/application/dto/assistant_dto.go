package dto

// QueryPlan plan de consulta producido por el LLM a partir de una pregunta en lenguaje natural.
type QueryPlan struct {
	Filters            map[string]StringList `json:"filters"`
	GroupBy            StringList            `json:"group_by"`
	IncludeFutureDates bool                  `json:"include_future_dates"`
}

// AskRequest pregunta en lenguaje natural.
type AskRequest struct {
	Question string `json:"question"`
}

// QueryResponse plan generado y su resultado.
type QueryResponse struct {
	Question string            `json:"question"`
	Plan     QueryPlan         `json:"plan"`
	Result   AggregateResponse `json:"result"`
}

// ChatResponse respuesta conversacional.
type ChatResponse struct {
	Answer string `json:"answer"`
}
