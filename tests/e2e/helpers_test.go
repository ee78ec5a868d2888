//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/hassan3301/dailycrm/internal/adapter/postgres/testhelper"
	"github.com/hassan3301/dailycrm/internal/app"
	authpkg "github.com/hassan3301/dailycrm/internal/auth"
	"github.com/hassan3301/dailycrm/internal/config"
)

const (
	jwtSecret = "test-secret-at-least-32-chars-long!!"
	jwtIssuer = "test-issuer"
)

// ---------------------------------------------------------------------------
// fakeAssistant stands in for the Messages API. Each call pops the next
// scripted reply.
// ---------------------------------------------------------------------------

type fakeAssistant struct {
	mu       sync.Mutex
	replies  []string
	messages []string
}

func (f *fakeAssistant) script(replies ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

func (f *fakeAssistant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	if n := len(req.Messages); n > 0 && len(req.Messages[n-1].Content) > 0 {
		f.messages = append(f.messages, req.Messages[n-1].Content[0].Text)
	}
	reply := "I'm not sure what you mean."
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"id":            "msg_e2e",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-5",
		"content":       []map[string]any{{"type": "text", "text": reply}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 1, "output_tokens": 1},
	})
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL       string
	Client    *http.Client
	Pool      *pgxpool.Pool
	Assistant *fakeAssistant
	jwt       *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	fa := &fakeAssistant{}
	assistantSrv := httptest.NewServer(fa)
	t.Cleanup(assistantSrv.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 16},
		Auth: config.AuthConfig{
			JWTSecret:      jwtSecret,
			JWTIssuer:      jwtIssuer,
			AccessTokenTTL: 15 * time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Assistant:   config.AssistantConfig{APIKey: "test-key", Model: "claude-sonnet-4-5", MaxTokens: 256, Timeout: 10 * time.Second},
		Interpreter: config.InterpreterConfig{Timezone: "UTC", PageSize: 5, CandidateLimit: 5},
		Company:     config.CompanyConfig{Name: "Daily"},
	}

	srv := httptest.NewUnstartedServer(nil)
	cfg.Links.BaseURL = "http://" + srv.Listener.Addr().String()
	require.NoError(t, cfg.Validate())

	handler, cleanup, err := app.NewHandler(cfg, logger, pool,
		option.WithBaseURL(assistantSrv.URL+"/"),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	srv.Config.Handler = handler
	srv.Start()
	t.Cleanup(srv.Close)

	return &testServer{
		URL:       srv.URL,
		Client:    srv.Client(),
		Pool:      pool,
		Assistant: fa,
		jwt:       authpkg.NewJWTManager(jwtSecret, jwtIssuer, 15*time.Minute),
	}
}

// createTestUserWithID inserts a tenant and returns a token for it.
func createTestUserWithID(t *testing.T, ts *testServer) (string, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("test-%s@example.com", userID.String()[:8])

	_, err := ts.Pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name) VALUES ($1, $2, $3)`,
		userID, email, "Test User",
	)
	require.NoError(t, err, "insert test user")

	tok, err := ts.jwt.GenerateAccessToken(userID, email)
	require.NoError(t, err, "generate token")

	return tok, userID
}

type chatBody struct {
	Response    string   `json:"response"`
	Lines       []string `json:"lines"`
	Actions     int      `json:"actions"`
	Passthrough bool     `json:"passthrough"`
}

// post sends a JSON POST and returns status + decoded chat body.
func (ts *testServer) post(t *testing.T, path string, body any, token string) (int, chatBody) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out chatBody
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func (ts *testServer) interpret(t *testing.T, token, reply string) chatBody {
	t.Helper()
	status, body := ts.post(t, "/interpret", map[string]string{"reply": reply}, token)
	require.Equal(t, http.StatusOK, status)
	return body
}
