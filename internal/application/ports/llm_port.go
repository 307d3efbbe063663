package ports

import (
	"context"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
)

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (OpenAI, Anthropic, mock) debe implementar esta interfaz.
// La aplicación solo conoce este contrato: texto de entrada, estructura de salida.
type LLMService interface {
	// GenerateQueryPlan traduce una pregunta a un plan {filters, group_by, include_future_dates}
	// sobre las columnas indicadas. El plan no se asume válido; lo valida el motor de agregación.
	GenerateQueryPlan(ctx context.Context, question string, columns []string) (*dto.QueryPlan, error)

	// Answer responde la pregunta en lenguaje natural usando solo el contexto de datos dado.
	Answer(ctx context.Context, question, dataContext string) (string, error)
}
