package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
)

// queryPlanPrompt instrucciones para traducir una pregunta a un plan de consulta.
func queryPlanPrompt(columns []string) string {
	cols, _ := json.Marshal(map[string][]string{"columns": columns})
	return `Eres un planificador de consultas sobre un libro de PODs (puntos de distribución) de productos de consumo masivo.
Traduce la pregunta del usuario a un objeto JSON con las claves "filters", "group_by" e "include_future_dates".
Columnas disponibles: ` + string(cols) + `
Devuelve ÚNICAMENTE el objeto JSON (sin markdown) con esta estructura:
{
  "filters": {"<columna>": "<texto a buscar>"},
  "group_by": ["<columna>", ...],
  "include_future_dates": <true|false>
}

Reglas:
- filters usa coincidencia por subcadena sin distinguir mayúsculas; omite columnas que la pregunta no menciona.
- group_by vacío significa un único total.
- include_future_dates es true para reportes proyectados o futuros y false para el estado actual.`
}

// answerPrompt instrucciones para responder con el contexto de datos.
func answerPrompt(dataContext string) string {
	return "Eres un analista de consumo masivo. Responde la pregunta del usuario de forma concisa usando solo los datos siguientes.\n\nCONTEXTO DE DATOS:\n" + dataContext
}

// ── Opciones comunes de los adaptadores ──────────────────────────────────────

type options struct {
	baseURL    string
	httpClient *http.Client
}

// Option configura un adaptador LLM.
type Option func(*options)

// WithBaseURL reemplaza la URL base de la API (proxies compatibles, tests).
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func buildOptions(defaultBaseURL string, opts []Option) options {
	o := options{
		baseURL: defaultBaseURL,
		// Timeout de red; el use case impone además un context.WithTimeout.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ── Parseo de la salida del modelo ───────────────────────────────────────────

// parseQueryPlan extrae y decodifica el plan aunque el modelo lo envuelva en markdown o texto.
func parseQueryPlan(rawText string) (*dto.QueryPlan, error) {
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}
	var plan dto.QueryPlan
	if err := json.Unmarshal([]byte(cleanJSON), &plan); err != nil {
		return nil, fmt.Errorf("AI: parsear plan de consulta: %w (JSON extraído: %s)", err, cleanJSON)
	}
	if plan.Filters == nil {
		plan.Filters = map[string]dto.StringList{}
	}
	if plan.GroupBy == nil {
		plan.GroupBy = dto.StringList{}
	}
	return &plan, nil
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
// Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		// Quitar la línea de apertura (```json o ```)
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
