package dto

import (
	"encoding/json"
	"fmt"
)

// StringList acepta en JSON tanto un string como una lista de strings (los planes del LLM mezclan ambos).
// Números y booleanos se convierten a texto.
type StringList []string

// UnmarshalJSON implementa json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = toStrings(raw)
	return nil
}

func toStrings(raw interface{}) StringList {
	switch v := raw.(type) {
	case nil:
		return StringList{}
	case string:
		return StringList{v}
	case []interface{}:
		out := make(StringList, 0, len(v))
		for _, item := range v {
			out = append(out, toStrings(item)...)
		}
		return out
	case float64:
		if v == float64(int64(v)) {
			return StringList{fmt.Sprintf("%d", int64(v))}
		}
		return StringList{fmt.Sprintf("%g", v)}
	default:
		return StringList{fmt.Sprint(v)}
	}
}

// SummaryQueryRequest consulta de agregación: agrupación, filtros por subcadena y fechas futuras.
type SummaryQueryRequest struct {
	GroupBy       StringList            `json:"group_by"`
	IncludeFuture bool                  `json:"include_future"`
	Filters       map[string]StringList `json:"filters"`
}

// AggregateRow una combinación de dimensiones con su total neto.
type AggregateRow struct {
	Values  map[string]string `json:"values"`
	NetPODs int64             `json:"net_pods"`
}

// AggregateResponse resultado de agregación. Si scalar=true solo aplica net_pods (label "net PODs").
type AggregateResponse struct {
	Scalar     bool           `json:"scalar"`
	Label      string         `json:"label,omitempty"`
	Dimensions []string       `json:"dimensions"`
	Rows       []AggregateRow `json:"rows"`
	NetPODs    int64          `json:"net_pods"`
}

// PivotResponse matriz producto × cadena con fila y columna "Grand Total".
type PivotResponse struct {
	IncludeFuture bool                        `json:"include_future"`
	Products      []string                    `json:"products"`
	Retailers     []string                    `json:"retailers"`
	Cells         [][]int64                   `json:"cells"`
	Table         map[string]map[string]int64 `json:"table"`
	GrandTotal    int64                       `json:"grand_total"`
}
