package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffperkel/CPG-POD-TEST/pkg/config"
)

var columns = []string{"retailer", "product_name", "sku", "division"}

func TestExtractJSON_Markdown(t *testing.T) {
	raw := "Claro, aquí está:\n```json\n{\"group_by\": [\"retailer\"]}\n```"
	assert.Equal(t, `{"group_by": ["retailer"]}`, extractJSON(raw))
}

func TestExtractJSON_TextoAlrededor(t *testing.T) {
	raw := `El plan es {"filters": {"retailer": "Walmart"}} y nada más`
	assert.Equal(t, `{"filters": {"retailer": "Walmart"}}`, extractJSON(raw))
}

func TestExtractJSON_SinJSON(t *testing.T) {
	assert.Equal(t, "", extractJSON("no sé"))
}

func TestParseQueryPlan_ValoresEscalaresYListas(t *testing.T) {
	plan, err := parseQueryPlan(`{"filters": {"retailer": "Walmart", "product_name": ["cheerios", "pepsi"]}, "group_by": "product_name", "include_future_dates": true}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Walmart"}, []string(plan.Filters["retailer"]))
	assert.Equal(t, []string{"cheerios", "pepsi"}, []string(plan.Filters["product_name"]))
	assert.Equal(t, []string{"product_name"}, []string(plan.GroupBy))
	assert.True(t, plan.IncludeFutureDates)
}

func TestParseQueryPlan_ObjetoVacio(t *testing.T) {
	plan, err := parseQueryPlan(`{}`)
	require.NoError(t, err)
	assert.NotNil(t, plan.Filters)
	assert.NotNil(t, plan.GroupBy)
	assert.False(t, plan.IncludeFutureDates)
}

func TestParseQueryPlan_Invalido(t *testing.T) {
	_, err := parseQueryPlan("sin plan")
	assert.Error(t, err)
}

// ── OpenAI ────────────────────────────────────────────────────────────────────

func TestOpenAIService_GenerateQueryPlan(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"filters\":{\"retailer\":\"Target\"},\"group_by\":[\"product_name\"],\"include_future_dates\":false}"}}]}`))
	}))
	defer srv.Close()

	svc := NewOpenAIService("sk-test", "gpt-4o", WithBaseURL(srv.URL))
	plan, err := svc.GenerateQueryPlan(context.Background(), "PODs por producto en Target", columns)
	require.NoError(t, err)

	assert.Equal(t, []string{"Target"}, []string(plan.Filters["retailer"]))
	assert.Equal(t, []string{"product_name"}, []string(plan.GroupBy))
	assert.Equal(t, "gpt-4o", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "product_name")
	assert.Equal(t, "PODs por producto en Target", got.Messages[1].Content)
}

func TestOpenAIService_Answer_ContextoEnSistema(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hay 12 PODs.  "}}]}`))
	}))
	defer srv.Close()

	svc := NewOpenAIService("sk-test", "gpt-4o", WithBaseURL(srv.URL+"/"))
	answer, err := svc.Answer(context.Background(), "¿cuántos PODs?", "Total actual de PODs: 12")
	require.NoError(t, err)
	assert.Equal(t, "Hay 12 PODs.", answer)
	assert.Contains(t, got.Messages[0].Content, "Total actual de PODs: 12")
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIService_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIService("sk-x", "gpt-4o", WithBaseURL(srv.URL)).Answer(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestOpenAIService_SinAPIKey(t *testing.T) {
	_, err := NewOpenAIService("", "gpt-4o").Answer(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

// ── Anthropic ─────────────────────────────────────────────────────────────────

func TestAnthropicService_GenerateQueryPlan_JSONEnMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.Contains(req.System, "group_by"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"` + "```json\\n{\\\"group_by\\\":[\\\"retailer\\\"]}\\n```" + `"}]}`))
	}))
	defer srv.Close()

	svc := NewAnthropicService("sk-ant", "claude-3-5-haiku-20241022", WithBaseURL(srv.URL))
	plan, err := svc.GenerateQueryPlan(context.Background(), "PODs por cadena", columns)
	require.NoError(t, err)
	assert.Equal(t, []string{"retailer"}, []string(plan.GroupBy))
}

func TestAnthropicService_RespuestaVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicService("sk-ant", "m", WithBaseURL(srv.URL)).Answer(context.Background(), "q", "ctx")
	assert.Error(t, err)
}

// ── Gemini ────────────────────────────────────────────────────────────────────

func TestGeminiService_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Contains(t, req.SystemInstruction.Parts[0].Text, "CONTEXTO DE DATOS")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Proyectado: 40"}]}}]}`))
	}))
	defer srv.Close()

	answer, err := NewGeminiService("g-key", "gemini-1.5-flash", WithBaseURL(srv.URL)).
		Answer(context.Background(), "¿proyección?", "Total proyectado de PODs: 40")
	require.NoError(t, err)
	assert.Equal(t, "Proyectado: 40", answer)
}

func TestGeminiService_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"modelo inválido"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiService("g-key", "x", WithBaseURL(srv.URL)).GenerateQueryPlan(context.Background(), "q", columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modelo inválido")
}

// ── Selección de proveedor ────────────────────────────────────────────────────

func TestNewFromConfig(t *testing.T) {
	svc, err := NewFromConfig(config.AIConfig{Provider: "openai", OpenAIAPIKey: "k", OpenAIModel: "gpt-4o"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIService{}, svc)

	svc, err = NewFromConfig(config.AIConfig{Provider: "anthropic", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicService{}, svc)

	svc, err = NewFromConfig(config.AIConfig{Provider: "gemini", GeminiAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiService{}, svc)

	svc, err = NewFromConfig(config.AIConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = NewFromConfig(config.AIConfig{Provider: "none", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.Nil(t, svc)

	_, err = NewFromConfig(config.AIConfig{Provider: "watson"})
	assert.Error(t, err)
}
