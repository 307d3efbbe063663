package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAIService implementa LLMService.
var _ ports.LLMService = (*OpenAIService)(nil)

const openAIBaseURL = "https://api.openai.com"

// OpenAIService adaptador de LLMService sobre la API de chat completions de OpenAI
// (o cualquier servidor compatible vía WithBaseURL).
type OpenAIService struct {
	apiKey string
	model  string
	opts   options
}

// NewOpenAIService construye el adaptador. model suele ser "gpt-4o".
func NewOpenAIService(apiKey, model string, opts ...Option) *OpenAIService {
	return &OpenAIService{apiKey: apiKey, model: model, opts: buildOptions(openAIBaseURL, opts)}
}

// ── Protocolo chat completions ────────────────────────────────────────────────

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// GenerateQueryPlan pide el plan en modo json_object.
func (s *OpenAIService) GenerateQueryPlan(ctx context.Context, question string, columns []string) (*dto.QueryPlan, error) {
	text, err := s.chat(ctx, openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: queryPlanPrompt(columns)},
			{Role: "user", Content: question},
		},
		ResponseFormat: &openAIFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	return parseQueryPlan(text)
}

// Answer redacta la respuesta conversacional.
func (s *OpenAIService) Answer(ctx context.Context, question, dataContext string) (string, error) {
	return s.chat(ctx, openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: answerPrompt(dataContext)},
			{Role: "user", Content: question},
		},
		Temperature: 0.1,
	})
}

func (s *OpenAIService) chat(ctx context.Context, payload openAIRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.opts.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: OpenAI error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: OpenAI HTTP %d", resp.StatusCode)
	}

	var oaResp openAIResponse
	if err := json.Unmarshal(rawBody, &oaResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta OpenAI: %w", err)
	}
	if len(oaResp.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return strings.TrimSpace(oaResp.Choices[0].Message.Content), nil
}
