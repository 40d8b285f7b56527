package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	fakes "github.com/target/timeclock/internal/mocks/auth"
	"github.com/target/timeclock/internal/observability/statsd"
)

type recordingInvalidator struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reasons)
}

type testEnv struct {
	client      *Client
	store       *fakes.MemoryCredentialStore
	invalidator *recordingInvalidator
	metrics     *statsd.Recorder
}

func newTestEnv(t *testing.T, token string, handler http.HandlerFunc) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	env := &testEnv{
		store:       fakes.NewMemoryCredentialStore(token, &domainauth.User{Name: "Ann", Role: domainauth.RoleUser}),
		invalidator: &recordingInvalidator{},
		metrics:     &statsd.Recorder{},
	}
	c, err := NewClient(Options{
		BaseURL:     srv.URL + "/",
		Timeout:     2 * time.Second,
		Store:       env.store,
		Invalidator: env.invalidator,
		Metrics:     env.metrics,
	})
	require.NoError(t, err)
	env.client = c
	return env
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "http://localhost:3000"})
	require.Error(t, err)

	_, err = NewClient(Options{BaseURL: "not a url", Store: fakes.NewMemoryCredentialStore("", nil)})
	require.Error(t, err)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotReqID string
	env := newTestEnv(t, "abc123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, map[string]any{"clocked_in": false})
	})

	_, err := env.client.PunchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_ReadsTokenPerRequest(t *testing.T) {
	var seen []string
	env := newTestEnv(t, "", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"clocked_in": false})
	})
	ctx := context.Background()

	_, err := env.client.PunchStatus(ctx)
	require.NoError(t, err)
	require.NoError(t, env.store.SetToken(ctx, "fresh"))
	_, err = env.client.PunchStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer fresh"}, seen)
}

func TestClient_UnauthorizedClearsAndInvalidates(t *testing.T) {
	env := newTestEnv(t, "stale", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "expired"})
	})
	ctx := context.Background()

	_, err := env.client.PunchStatus(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 1, env.invalidator.count())

	tok, _ := env.store.Token(ctx)
	u, _ := env.store.User(ctx)
	assert.Empty(t, tok)
	assert.Nil(t, u)
}

func TestClient_AnonymousUnauthorizedDoesNotInvalidate(t *testing.T) {
	var gotAuth string
	env := newTestEnv(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad token"})
	})

	_, err := env.client.Refresh(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Empty(t, gotAuth)
	assert.Zero(t, env.invalidator.count())
	assert.Zero(t, env.store.Clears)
}

func TestClient_ForbiddenMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{name: "trial expired", body: `{"code":"TRIAL_EXPIRED","error":"trial over"}`, wantCode: apperrors.ErrCodeTrialExpired, wantMsg: "TRIAL_EXPIRED"},
		{name: "subscription cancelled", body: `{"code":"SUB_CANCELLED"}`, wantCode: apperrors.ErrCodeSubscriptionCancelled, wantMsg: "SUB_CANCELLED"},
		{name: "generic with message", body: `{"error":"Admins only"}`, wantCode: apperrors.ErrCodeForbidden, wantMsg: "Admins only"},
		{name: "generic without body", body: ``, wantCode: apperrors.ErrCodeForbidden, wantMsg: "Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := env.client.Users(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err))
			assert.True(t, apperrors.IsForbidden(err))
			assert.Zero(t, env.invalidator.count())
		})
	}
}

func TestClient_RequestFailedMessages(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/punch/in" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Already clocked in"})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})
	ctx := context.Background()

	_, err := env.client.PunchIn(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "Already clocked in", apperrors.UserMessage(err))

	err = env.client.PunchOut(ctx, "")
	require.Error(t, err)
	assert.Equal(t, "Request failed: 502", apperrors.UserMessage(err))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestClient_CSVResponseIsText(t *testing.T) {
	var query string
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, "name,hours\nAnn,7.50\n")
	})

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	csv, err := env.client.ExportCSV(context.Background(), modelQuery(start, start.AddDate(0, 0, 7), "42"))
	require.NoError(t, err)
	assert.Equal(t, "name,hours\nAnn,7.50\n", csv)
	assert.Contains(t, query, "start=2026-03-01T00%3A00%3A00.000Z")
	assert.Contains(t, query, "user_id=42")
}

func TestClient_TransportErrors(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.client.PunchStatus(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
	assert.Zero(t, env.invalidator.count())
}

func TestClient_EmitsRequestMetrics(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"clocked_in": true, "clock_in": "2026-03-02T09:00:00Z"})
	})

	_, err := env.client.PunchStatus(context.Background())
	require.NoError(t, err)

	samples := env.metrics.Samples("api.request")
	require.Len(t, samples, 1)
	assert.Equal(t, "punch_status", samples[0].Tags["endpoint"])
	assert.Equal(t, "2xx", samples[0].Tags["status_class"])
}

func TestClient_KeepsAffinityCookieAcrossClients(t *testing.T) {
	var gotCookie string
	env := newTestEnv(t, "abc123", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			http.SetCookie(w, &http.Cookie{Name: "lb", Value: "node-2", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"name": "Ann", "role": "user"}})
			return
		}
		if c, err := r.Cookie("lb"); err == nil {
			gotCookie = c.Value
		}
		writeJSON(w, http.StatusOK, map[string]any{"clocked_in": false})
	})
	ctx := context.Background()

	_, err := env.client.Refresh(ctx, "abc123")
	require.NoError(t, err)
	_, err = env.client.PunchStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, "node-2", gotCookie)
}
