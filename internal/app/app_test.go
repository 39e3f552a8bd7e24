package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollylang/pollylang-backend/internal/config"
)

type recordedChat struct {
	System string
	User   string
}

// fakeLLM answers every chat completion with reply and records the prompts.
type fakeLLM struct {
	mu    sync.Mutex
	calls []recordedChat
	reply string
}

func (f *fakeLLM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	var call recordedChat
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			call.System = m.Content
		case "user":
			call.User = m.Content
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.1-8b-instant",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": f.reply},
		}},
	})
}

func newResourceServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wordbanks/es/es_1000.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["hola","me","llamo","marta","pan","vendo"]`))
	})
	mux.HandleFunc("/cefr/es.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"A1":"Use short present-tense sentences."}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(resourcesURL, llmURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     5 * time.Second,
			ShutdownTimeout: 2 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		LLM: config.LLMConfig{
			BaseURL:     llmURL,
			APIKey:      "test-key",
			Model:       "llama-3.1-8b-instant",
			Temperature: 0.6,
			MaxTokens:   40,
			Timeout:     5 * time.Second,
		},
		Resources: config.ResourcesConfig{
			BaseURL:      resourcesURL,
			BankPath:     "/wordbanks/{lang}/{lang}_{tier}.json",
			RulesPath:    "/cefr/{lang}.json",
			FetchTimeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{BankSize: 8, RulesSize: 4},
		Dialogue: config.DialogueConfig{
			Policy:      "tolerant",
			Cumulative:  true,
			Threshold:   0.30,
			MaxAttempts: 2,
			SliceLimit:  200,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   "https://pollylang.app",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApp_NPCReplyEndToEnd(t *testing.T) {
	resources := newResourceServer(t)
	llmFake := &fakeLLM{reply: "¡Hola! Me llamo Marta."}
	llmSrv := httptest.NewServer(llmFake)
	t.Cleanup(llmSrv.Close)

	a, err := New(context.Background(), testConfig(resources.URL, llmSrv.URL), quietLogger())
	require.NoError(t, err)

	body := `{"persona":"Marta, baker from Sevilla","language":"Spanish","langCode":"es","level":"1","topic":"pan","user":"¿Cómo te llamas?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/npc/reply", strings.NewReader(body))
	req.Header.Set("Origin", "https://pollylang.app")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"text":"¡Hola! Me llamo Marta."}`, rec.Body.String())
	assert.Equal(t, "https://pollylang.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	require.Len(t, llmFake.calls, 1, "compliant reply needs no correction")
	call := llmFake.calls[0]
	assert.Contains(t, call.System, `Your fixed personal name is "Marta".`)
	assert.Contains(t, call.System, "Use short present-tense sentences.")
	assert.True(t, strings.HasPrefix(call.User, "BANK (Level 1): pan, "), call.User)
	assert.True(t, strings.HasSuffix(call.User, "TOPIC: pan\nPLAYER: ¿Cómo te llamas?"), call.User)
}

func TestApp_UpstreamFailureIs502(t *testing.T) {
	llmFake := &fakeLLM{reply: "unused"}
	llmSrv := httptest.NewServer(llmFake)
	t.Cleanup(llmSrv.Close)
	missing := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(missing.Close)

	a, err := New(context.Background(), testConfig(missing.URL, llmSrv.URL), quietLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/npc/reply", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
	assert.Empty(t, llmFake.calls)
}

func TestApp_WithoutDatabase(t *testing.T) {
	resources := newResourceServer(t)
	a, err := New(context.Background(), testConfig(resources.URL, "http://127.0.0.1:1"), quietLogger())
	require.NoError(t, err)

	for _, path := range []string{"/api/save", "/api/auth/login"} {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_InvalidDialogueSettings(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Dialogue.Fallbacks = "es"

	_, err := New(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "dialogue fallbacks")

	cfg = testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Dialogue.Policy = "lenient"
	_, err = New(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "dialogue policy")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig("http://127.0.0.1:1", "http://127.0.0.1:1"), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
