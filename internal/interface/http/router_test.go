package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/domain/auth"
	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/config"
	"github.com/yanqian/faq-agent/internal/infra/embedder"
	"github.com/yanqian/faq-agent/internal/infra/faqrepo"
	"github.com/yanqian/faq-agent/internal/infra/faqstore"
	"github.com/yanqian/faq-agent/internal/infra/userrepo"
	apperrors "github.com/yanqian/faq-agent/pkg/errors"
)

const testSecret = "router-test-secret"

func TestRouter_ChatSuccess(t *testing.T) {
	chat := &stubAssistant{
		turnFn: func(ctx context.Context, req assistant.TurnRequest) (assistant.TurnResponse, error) {
			require.Equal(t, "hola", req.UserInput)
			return assistant.TurnResponse{ConversationID: "default", Response: "respuesta", State: assistant.StateIdle}, nil
		},
	}
	server := newRouterUnderTest(t, routerDeps{assistant: chat})

	rec := performRequest(server, http.MethodPost, "/api/v1/chat", `{"user_input":"hola"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got assistant.TurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "respuesta", got.Response)
	require.Equal(t, "default", got.ConversationID)
}

func TestRouter_ChatEmptyInput(t *testing.T) {
	chat := &stubAssistant{
		turnFn: func(ctx context.Context, req assistant.TurnRequest) (assistant.TurnResponse, error) {
			return assistant.TurnResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Entrada vacía", nil)
		},
	}
	server := newRouterUnderTest(t, routerDeps{assistant: chat})

	rec := performRequest(server, http.MethodPost, "/api/v1/chat", `{"user_input":"  "}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_input", body["error"]["code"])
	require.Contains(t, body["error"]["message"], "Entrada vacía")
}

func TestRouter_ChatModelFailure(t *testing.T) {
	chat := &stubAssistant{
		turnFn: func(ctx context.Context, req assistant.TurnRequest) (assistant.TurnResponse, error) {
			return assistant.TurnResponse{}, apperrors.Wrap(apperrors.CodeLLM, "model unavailable", errors.New("boom"))
		},
	}
	server := newRouterUnderTest(t, routerDeps{assistant: chat})

	rec := performRequest(server, http.MethodPost, "/api/v1/chat", `{"user_input":"hi"}`, "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	faqSvc := &stubFAQ{}
	server := newRouterUnderTest(t, routerDeps{faq: faqSvc})

	rec := performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"aid":1,"answer":"x"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := signTestToken(t, auth.RoleUser)
	rec = performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"aid":1,"answer":"x"}`, userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodGet, "/api/v1/faq/pending", "", userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, faqSvc.writes)
	require.Zero(t, faqSvc.lists)
}

func TestRouter_AdminLifecycleErrors(t *testing.T) {
	faqSvc := &stubFAQ{
		answerFn: func(ctx context.Context, id int64, answer string) (faq.Entry, error) {
			switch id {
			case 404:
				return faq.Entry{}, apperrors.Wrap(apperrors.CodeNotFound, "question not found", nil)
			case 409:
				return faq.Entry{}, apperrors.Wrap(apperrors.CodeConflict, "deleted questions must be restored before answering", nil)
			}
			return faq.Entry{ID: id, Status: faq.StatusActive, Answer: &answer}, nil
		},
	}
	server := newRouterUnderTest(t, routerDeps{faq: faqSvc})
	adminToken := signTestToken(t, auth.RoleAdmin)

	rec := performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"answer":"x"}`, adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, faqSvc.writes)

	rec = performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"aid":404,"answer":"x"}`, adminToken)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"aid":409,"answer":"x"}`, adminToken)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/faq/answer", `{"aid":7,"answer":"done"}`, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var entry faq.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, int64(7), entry.ID)
	require.Equal(t, faq.StatusActive, entry.Status)
}

func TestRouter_AnswerThenSearchRoundTrip(t *testing.T) {
	logger := newTestLogger()
	faqSvc := faq.NewService(faq.Config{}, faqrepo.NewMemoryRepository(), faqstore.NewMemoryStore(), nil, embedder.NewDeterministicEmbedder(64), nil, logger)
	server := newRouterUnderTest(t, routerDeps{faq: faqSvc})
	adminToken := signTestToken(t, auth.RoleAdmin)

	rec := performRequest(server, http.MethodPost, "/api/v1/tools/search", `{"question":"How do I reset my password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"found":false,"answer":""}`, rec.Body.String())

	rec = performRequest(server, http.MethodPost, "/api/v1/tools/register", `{"question":"How do I reset my password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"message":"`+faq.RegisteredMessage+`"}`, rec.Body.String())

	rec = performRequest(server, http.MethodGet, "/api/v1/faq/pending", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Entries []faq.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Entries, 1)
	require.Equal(t, faq.CreatedByJouleUser, listed.Entries[0].CreatedBy)

	payload := `{"aid":` + jsonInt(listed.Entries[0].ID) + `,"answer":"Use the reset link."}`
	rec = performRequest(server, http.MethodPost, "/api/v1/faq/answer", payload, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/tools/search", `{"question":"How do I reset my password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"found":true,"answer":"Use the reset link."}`, rec.Body.String())

	rec = performRequest(server, http.MethodPost, "/api/v1/faq/ask", `{"question":"How do I reset my password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"answer":"Use the reset link.","confidence":0.9}`, rec.Body.String())
}

func TestRouter_SubmitQuestionTagsCallerRole(t *testing.T) {
	var gotCreatedBy string
	faqSvc := &stubFAQ{
		registerFn: func(ctx context.Context, question, createdBy string) (faq.Entry, error) {
			gotCreatedBy = createdBy
			return faq.Entry{ID: 3, Question: question, Status: faq.StatusPending, CreatedBy: createdBy}, nil
		},
	}
	server := newRouterUnderTest(t, routerDeps{faq: faqSvc})

	rec := performRequest(server, http.MethodPost, "/api/v1/faq/question", `{"question":"q"}`, signTestToken(t, auth.RoleUser))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, auth.RoleUser, gotCreatedBy)
}

func TestRouter_InvoiceTool(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodPost, "/api/v1/tools/invoice", `{"invoice_id":"INV-9"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status_text":"The status of invoice INV-9 is: Paid."}`, rec.Body.String())

	rec = performRequest(server, http.MethodPost, "/api/v1/tools/invoice", `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{health: pingFunc(func(context.Context) error { return errors.New("down") })})
	rec := performRequest(server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	server = newRouterUnderTest(t, routerDeps{})
	rec = performRequest(server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GoogleLoginSetsStateCookie(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{google: testGoogleConfig()})

	rec := performRequest(server, http.MethodGet, "/api/v1/auth/google/login", "", "")
	require.Equal(t, http.StatusFound, rec.Code)
	target, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", target.Host)

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookieName {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	require.True(t, stateCookie.HttpOnly)

	// the cookie round-trips through the callback reader
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(stateCookie)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	stored, ok := readOAuthStateCookie(c)
	require.True(t, ok)
	require.Equal(t, target.Query().Get("state"), stored.State)
	require.Equal(t, auth.CodeChallengeFromVerifier(stored.CodeVerifier), target.Query().Get("code_challenge"))
}

func TestRouter_GoogleLoginNotConfigured(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodGet, "/api/v1/auth/google/login", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "auth_not_configured", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_GoogleCallbackRejectsStateMismatch(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{google: testGoogleConfig()})

	rec := performRequest(server, http.MethodGet, "/api/v1/auth/google/callback?state=abc&code=xyz", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	payload, err := json.Marshal(oauthStateCookie{State: "expected", CodeVerifier: "verifier"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=other&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: base64.RawURLEncoding.EncodeToString(payload)})
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func testGoogleConfig() auth.GoogleConfig {
	return auth.GoogleConfig{
		ClientID:           "client-id",
		ClientSecret:       "client-secret",
		RedirectURL:        "http://localhost/api/v1/auth/google/callback",
		TokenEncryptionKey: "0123456789abcdef",
	}
}

func TestMCPLookupReportsNotFound(t *testing.T) {
	faqSvc := &stubFAQ{}
	handler := mcpLookup(faqSvc)

	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: assistant.ToolFAQLookup, Arguments: map[string]any{"question": "q"}},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, assistant.NotFoundMessage, text.Text)

	result, err = handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

type routerDeps struct {
	assistant assistant.Service
	faq       faq.Service
	health    HealthChecker
	google    auth.GoogleConfig
}

func newRouterUnderTest(t *testing.T, deps routerDeps) *http.Server {
	t.Helper()
	logger := newTestLogger()
	if deps.assistant == nil {
		deps.assistant = &stubAssistant{}
	}
	if deps.faq == nil {
		deps.faq = &stubFAQ{}
	}
	authCfg := auth.Config{Secret: testSecret, TokenTTL: time.Hour, RefreshTokenTTL: time.Hour, Google: deps.google}
	authSvc := auth.NewService(authCfg, userrepo.NewMemoryRepository(), logger)
	handler := NewHandler(deps.assistant, deps.faq, fixedInvoices{}, deps.health, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, NewAuthHandler(authSvc, authCfg, logger), authSvc, NewMCPServer(deps.faq, fixedInvoices{}), logger)
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.SignToken(testSecret, auth.Claims{UserID: 1, Email: "someone@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func jsonInt(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

type stubAssistant struct {
	turnFn func(ctx context.Context, req assistant.TurnRequest) (assistant.TurnResponse, error)
}

func (s *stubAssistant) Turn(ctx context.Context, req assistant.TurnRequest) (assistant.TurnResponse, error) {
	if s.turnFn != nil {
		return s.turnFn(ctx, req)
	}
	return assistant.TurnResponse{}, nil
}

func (s *stubAssistant) Reset(context.Context, string) error { return nil }

type stubFAQ struct {
	answerFn   func(ctx context.Context, id int64, answer string) (faq.Entry, error)
	registerFn func(ctx context.Context, question, createdBy string) (faq.Entry, error)
	writes     int
	lists      int
}

func (s *stubFAQ) Lookup(context.Context, string) (faq.LookupResult, error) {
	return faq.LookupResult{}, nil
}

func (s *stubFAQ) RegisterPending(ctx context.Context, question, createdBy string) (faq.Entry, error) {
	s.writes++
	if s.registerFn != nil {
		return s.registerFn(ctx, question, createdBy)
	}
	return faq.Entry{}, nil
}

func (s *stubFAQ) Ask(context.Context, string) (faq.AskResponse, error) {
	return faq.AskResponse{}, nil
}

func (s *stubFAQ) List(context.Context, faq.Status) ([]faq.Entry, error) {
	s.lists++
	return nil, nil
}

func (s *stubFAQ) Answer(ctx context.Context, id int64, answer string) (faq.Entry, error) {
	s.writes++
	if s.answerFn != nil {
		return s.answerFn(ctx, id, answer)
	}
	return faq.Entry{}, nil
}

func (s *stubFAQ) Delete(context.Context, int64) (faq.Entry, error) {
	s.writes++
	return faq.Entry{}, nil
}

func (s *stubFAQ) Restore(context.Context, int64) (faq.Entry, error) {
	s.writes++
	return faq.Entry{}, nil
}

func (s *stubFAQ) UpdateQuestion(context.Context, int64, string) (faq.Entry, error) {
	s.writes++
	return faq.Entry{}, nil
}

func (s *stubFAQ) Trending(context.Context) ([]faq.TrendingQuery, error) {
	return nil, nil
}

type fixedInvoices struct{}

func (fixedInvoices) Status(context.Context, string) (string, error) { return "Paid", nil }

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
