package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/einartakla1/dncs-poll-api/internal/config"
	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/identity"
	"github.com/einartakla1/dncs-poll-api/internal/poll"
)

const testAPIKey = "test-admin-key"

func newTestServer(t *testing.T, opts ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:            "test",
		Port:              "0",
		AdminAPIKey:       testAPIKey,
		RateLimitSalt:     "test-salt",
		DefaultPollStatus: "active",
		VoterIdentityMode: "token",
		VoteRateLimit:     20,
		VoteRateWindow:    time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clock := clockwork.NewFakeClock()
	store := poll.NewMemoryStore()
	limiter := poll.NewMemoryRateLimiter(clock, cfg.VoteRateLimit, cfg.VoteRateWindow)
	svc := poll.NewService(store, limiter, clock, domain.Status(cfg.DefaultPollStatus))

	return NewServer(cfg, svc, store, identity.New(cfg.VoterIdentityMode))
}

func withCookieIdentity() func(*config.Config) {
	return func(cfg *config.Config) { cfg.VoterIdentityMode = "cookie" }
}

func withDraftDefault() func(*config.Config) {
	return func(cfg *config.Config) { cfg.DefaultPollStatus = "draft" }
}

func withAllowedOrigins(origins ...string) func(*config.Config) {
	return func(cfg *config.Config) { cfg.AllowedOrigins = origins }
}

// doRequest runs a request through the full echo router, middleware included.
func doRequest(srv *Server, method, target, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func createTestPoll(t *testing.T, srv *Server, question string, options []string) string {
	t.Helper()

	body, err := json.Marshal(createPollRequest{Question: question, Options: options})
	require.NoError(t, err)

	rec := doRequest(srv, http.MethodPost, "/api/polls", string(body), testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["pollId"])
	return resp["pollId"]
}

func castTestVote(t *testing.T, srv *Server, pollID string, optionID int, voterToken string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(voteRequest{PollID: pollID, OptionID: &optionID, VoterToken: voterToken})
	require.NoError(t, err)
	return doRequest(srv, http.MethodPost, "/api/vote", string(body), "")
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
