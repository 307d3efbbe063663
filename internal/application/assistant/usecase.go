package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/logger"
)

// EmptyLedgerAnswer respuesta cuando no hay transacciones; no se consulta al LLM.
const EmptyLedgerAnswer = "El libro de PODs está vacío. No tengo datos para responder tu pregunta."

const defaultTimeout = 20 * time.Second

// QueryAnswer plan generado por el LLM y el resultado de ejecutarlo.
type QueryAnswer struct {
	Question string
	Plan     dto.QueryPlan
	Result   *summary.Result
}

// UseCase responde preguntas en lenguaje natural sobre el libro de PODs.
// El LLM solo produce el plan o redacta la respuesta; los números salen del motor de agregación.
type UseCase struct {
	llm     ports.LLMService
	summary *summary.UseCase
	timeout time.Duration
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. llm puede ser nil (IA no configurada).
func NewUseCase(llm ports.LLMService, summaryUC *summary.UseCase, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{llm: llm, summary: summaryUC, timeout: defaultTimeout, log: log}
}

// Query traduce la pregunta a un plan y lo ejecuta. Columnas desconocidas en el plan no rompen la consulta.
func (uc *UseCase) Query(ctx context.Context, question string) (*QueryAnswer, error) {
	question, err := uc.ready(question)
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	plan, err := uc.llm.GenerateQueryPlan(llmCtx, question, summary.Columns)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo generar el plan de consulta")
		return nil, fmt.Errorf("%w: plan de consulta: %v", domain.ErrAIUnavailable, err)
	}
	if plan == nil {
		plan = &dto.QueryPlan{}
	}

	res, err := uc.summary.Aggregate(ctx, PlanToQuery(*plan))
	if err != nil {
		return nil, err
	}
	uc.log.Debug().
		Strs("group_by", plan.GroupBy).
		Bool("include_future", plan.IncludeFutureDates).
		Int("rows", len(res.Rows)).
		Msg("consulta en lenguaje natural ejecutada")
	return &QueryAnswer{Question: question, Plan: *plan, Result: res}, nil
}

// Chat responde en lenguaje natural con el contexto de totales actuales y proyectados.
func (uc *UseCase) Chat(ctx context.Context, question string) (string, error) {
	question, err := uc.ready(question)
	if err != nil {
		return "", err
	}
	outlook, err := uc.summary.Outlook(ctx)
	if err != nil {
		return "", err
	}
	if outlook.Empty {
		return EmptyLedgerAnswer, nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	answer, err := uc.llm.Answer(llmCtx, question, outlook.Context())
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo generar la respuesta")
		return "", fmt.Errorf("%w: respuesta: %v", domain.ErrAIUnavailable, err)
	}
	return strings.TrimSpace(answer), nil
}

func (uc *UseCase) ready(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: la pregunta es obligatoria", domain.ErrInvalidInput)
	}
	if uc.llm == nil {
		return "", fmt.Errorf("%w: configure AI_PROVIDER y su API key", domain.ErrAIUnavailable)
	}
	return question, nil
}

// PlanToQuery convierte el plan del LLM en una consulta del motor de agregación.
func PlanToQuery(plan dto.QueryPlan) summary.Query {
	q := summary.Query{
		GroupBy:       append([]string(nil), plan.GroupBy...),
		IncludeFuture: plan.IncludeFutureDates,
	}
	if len(plan.Filters) > 0 {
		q.Filters = make(map[string][]string, len(plan.Filters))
		for col, values := range plan.Filters {
			q.Filters[col] = append([]string(nil), values...)
		}
	}
	return q
}
