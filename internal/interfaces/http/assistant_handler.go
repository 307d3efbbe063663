package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/assistant"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
)

// AssistantHandler consultas en lenguaje natural sobre el libro de PODs.
type AssistantHandler struct {
	uc *assistant.UseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *assistant.UseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Query godoc
// @Summary      Pregunta → plan de consulta → agregación
// @Description  El LLM genera {filters, group_by, include_future_dates}; los números salen del motor de agregación.
//               Timeout interno de 20 s.
// @Tags         assistant
// @Produce      json
// @Param        question  query  string  true  "pregunta en lenguaje natural"
// @Success      200  {object}  dto.QueryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/query [get]
func (h *AssistantHandler) Query(c *fiber.Ctx) error {
	question := c.Query("question")
	ans, err := h.uc.Query(c.UserContext(), question)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QueryResponse{
		Question: ans.Question,
		Plan:     ans.Plan,
		Result:   toAggregateResponse(ans.Result),
	})
}

// Chat godoc
// @Summary      Respuesta conversacional con totales actuales y proyectados
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AskRequest  true  "question"
// @Success      200  {object}  dto.ChatResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	answer, err := h.uc.Chat(c.UserContext(), req.Question)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ChatResponse{Answer: answer})
}
