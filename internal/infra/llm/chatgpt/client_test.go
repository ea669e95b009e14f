package chatgpt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletionSendsToolsAndDecodesCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req ChatCompletionRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Len(t, req.Tools, 1)
		require.Equal(t, "faq_lookup", req.Tools[0].Function.Name)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"c1","type":"function","function":{"name":"faq_lookup","arguments":"{\"question\":\"q\"}"}}]},"finish_reason":"tool_calls"}],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL+"/v1/")
	require.NoError(t, err)
	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: "user", Content: "q"}},
		Tools:    []Tool{{Type: "function", Function: ToolFunction{Name: "faq_lookup"}}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	require.Equal(t, "tool_calls", resp.Choices[0].FinishReason)
	require.Equal(t, "faq_lookup", resp.Choices[0].Message.ToolCalls[0].Function.Name)
	require.Equal(t, 7, resp.Usage.TotalTokens)
}

func TestCreateEmbeddingAndErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/embeddings" {
			_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.25]}]}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`slow down`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL)
	require.NoError(t, err)
	emb, err := client.CreateEmbedding(context.Background(), EmbeddingRequest{Model: "m", Input: "text"})
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 0.25}, emb.Data[0].Embedding)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "status=429")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "")
	require.Error(t, err)
}
