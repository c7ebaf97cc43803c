package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openaiServer(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func chatCompletion(content, finish string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1767225600,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 25, "completion_tokens": 6, "total_tokens": 31},
	})
	return string(body)
}

func TestOpenAIGenerate(t *testing.T) {
	var sent map[string]any
	p := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &sent))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletion(`{"reply":"Asante"}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a vendor.",
		Messages: []Message{{Role: RoleUser, Content: "Habari"}, {Role: RoleAssistant, Content: "Nzuri"}},
		Schema:   turnSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"Asante"}`, string(resp.Content))
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 31, resp.Usage.Total())
	assert.Equal(t, vendorOpenAI, p.Vendor())

	msgs, _ := sent["messages"].([]any)
	require.Len(t, msgs, 3)
	first, _ := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	format, _ := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"rate limited", http.StatusTooManyRequests,
			`{"error":{"type":"tokens","message":"Rate limit exceeded","code":"rate_limit_exceeded"}}`, KindRateLimited},
		{"server error", http.StatusInternalServerError,
			`{"error":{"type":"server_error","message":"boom"}}`, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "Habari"}}})
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestOpenAITruncatedAndInvalid(t *testing.T) {
	reply := `{"reply":"Asa`
	finish := "length"
	p := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletion(reply, finish))
	})
	req := Request{Messages: []Message{{Role: RoleUser, Content: "Habari"}}, Schema: turnSchema}

	_, err := p.Generate(context.Background(), req)
	assert.True(t, IsKind(err, KindTruncated), "got %v", err)

	reply, finish = `{"answer":"Asante"}`, "stop"
	_, err = p.Generate(context.Background(), req)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInvalidOutput, e.Kind)
	assert.Equal(t, vendorOpenAI, e.Vendor)
}

func TestOpenRouterDefaults(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", Model: "google/gemini-2.0-flash-001"})
	require.NoError(t, err)
	assert.Equal(t, vendorOpenRouter, p.Vendor())
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())

	_, err = NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
}
