package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/bootstrap"
	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	fakes "github.com/target/timeclock/internal/mocks/auth"
)

var (
	grace = domainauth.User{ID: "1", Name: "Grace Hopper", Email: "grace@example.com", Role: domainauth.RoleAdmin}
	alan  = domainauth.User{ID: "2", Name: "Alan Turing", Email: "alan@example.com", Role: domainauth.RoleUser}
)

// adminBackend serves the admin endpoints and records mutations.
type adminBackend struct {
	mu      sync.Mutex
	self    domainauth.User
	roles   map[string]string
	deleted []string
	queries []string
}

func (b *adminBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": b.self})
	})
	mux.HandleFunc("GET /api/entries/all", func(w http.ResponseWriter, r *http.Request) {
		b.record(r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]any{
			"entries": []map[string]any{
				{"id": 1, "user_id": 2, "user_name": "Alan Turing", "clock_in": "2026-03-02T09:00:00Z", "clock_out": "2026-03-02T17:00:00Z", "duration_minutes": 480},
				{"id": 2, "user_id": 1, "user_name": "Grace Hopper", "clock_in": "2026-03-02T08:00:00Z"},
			},
			"user_summary": []map[string]any{{"id": 2, "name": "Alan Turing", "total_hours": 8}},
		})
	})
	mux.HandleFunc("DELETE /api/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"users": []domainauth.User{grace, alan}})
	})
	mux.HandleFunc("PUT /api/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Role string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.roles[r.PathValue("id")] = body.Role
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("GET /api/admin/org", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "Analytical Engines", "timezone": "UTC"})
	})
	mux.HandleFunc("GET /api/export/csv", func(w http.ResponseWriter, r *http.Request) {
		b.record(r.URL.RawQuery)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "name,hours\nAlan Turing,8\n")
	})
	return mux
}

func (b *adminBackend) record(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, q)
}

func (b *adminBackend) snapshot() (queries, deleted []string, roles map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	roles = make(map[string]string, len(b.roles))
	for k, v := range b.roles {
		roles[k] = v
	}
	return append([]string(nil), b.queries...), append([]string(nil), b.deleted...), roles
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestContext(t *testing.T, self domainauth.User) (*commandContext, *adminBackend, *bytes.Buffer) {
	t.Helper()
	backend := &adminBackend{self: self, roles: map[string]string{}}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := config.AppConfig{
		API:  config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
		Auth: config.AuthConfig{LaunchURL: "timeclock://app/"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	cached := self
	store := fakes.NewMemoryCredentialStore("abc123", &cached)

	out := &bytes.Buffer{}
	cmdCtx := &commandContext{Ctx: context.Background(), Logger: logger, Config: cfg, Out: out}
	cmdCtx.newApp = func(ctx context.Context) (*bootstrap.App, error) {
		return bootstrap.NewApp(ctx, bootstrap.AppOptions{
			Config: cfg,
			Logger: logger,
			Overrides: bootstrap.AppOverrides{
				Store: store,
				Frame: fakes.StaticFrameDetector{},
				Clock: clock,
			},
		})
	}
	return cmdCtx, backend, out
}

func TestDispatch_Usage(t *testing.T) {
	cmdCtx, _, out := newTestContext(t, grace)

	assert.Equal(t, 2, dispatch(cmdCtx, nil))
	assert.Equal(t, 2, dispatch(cmdCtx, []string{"nope"}))
	assert.Contains(t, out.String(), "set-role")
}

func TestEntries_Query(t *testing.T) {
	cmdCtx, backend, out := newTestContext(t, grace)

	err := runEntries(cmdCtx, []string{"-user", "2", "-query", "entries[].user_name"})
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &names))
	assert.Equal(t, []string{"Alan Turing", "Grace Hopper"}, names)
	queries, _, _ := backend.snapshot()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "user_id=2")
}

func TestEntries_InvalidQuery(t *testing.T) {
	cmdCtx, backend, _ := newTestContext(t, grace)

	err := runEntries(cmdCtx, []string{"-query", "entries[?"})

	require.ErrorContains(t, err, "invalid --query")
	queries, _, _ := backend.snapshot()
	assert.Empty(t, queries)
}

func TestDashboard(t *testing.T) {
	cmdCtx, _, out := newTestContext(t, grace)

	require.NoError(t, runDashboard(cmdCtx, []string{"-query", "length(users)"}))

	assert.JSONEq(t, "2", out.String())
}

func TestNonAdminIsForbidden(t *testing.T) {
	cmdCtx, _, out := newTestContext(t, alan)

	err := runUsers(cmdCtx, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, out.String())
}

func TestSetRole(t *testing.T) {
	cmdCtx, backend, out := newTestContext(t, grace)

	require.NoError(t, runSetRole(cmdCtx, []string{"-id", "2", "-role", "Admin"}))

	_, _, roles := backend.snapshot()
	assert.Equal(t, "admin", roles["2"])
	assert.Equal(t, "User 2 is now admin\n", out.String())

	require.Error(t, runSetRole(cmdCtx, []string{"-id", "2", "-role", "owner"}))
	require.Error(t, runSetRole(cmdCtx, []string{"-role", "user"}))
}

func TestDeleteEntry(t *testing.T) {
	cmdCtx, backend, out := newTestContext(t, grace)

	require.NoError(t, runDeleteEntry(cmdCtx, []string{"-id", "42"}))

	_, deleted, _ := backend.snapshot()
	assert.Equal(t, []string{"42"}, deleted)
	assert.Equal(t, "Entry 42 deleted\n", out.String())
}

func TestOrg(t *testing.T) {
	cmdCtx, _, out := newTestContext(t, grace)

	require.NoError(t, runOrg(cmdCtx, []string{"-query", "name"}))

	assert.JSONEq(t, `"Analytical Engines"`, out.String())
}

func TestExport(t *testing.T) {
	cmdCtx, _, out := newTestContext(t, grace)
	dir := t.TempDir()

	err := runExport(cmdCtx, []string{"-start", "2026-03-02", "-end", "2026-03-08", "-dir", dir})
	require.NoError(t, err)

	path := filepath.Join(dir, "timesheet_2026-03-09.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,hours\nAlan Turing,8\n", string(data))
	assert.Contains(t, out.String(), path)
}

func TestExport_RequiresWindow(t *testing.T) {
	cmdCtx, backend, _ := newTestContext(t, grace)

	err := runExport(cmdCtx, []string{"-dir", t.TempDir()})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	queries, _, _ := backend.snapshot()
	assert.Empty(t, queries)
}

func TestManualEntry_Validation(t *testing.T) {
	cmdCtx, _, _ := newTestContext(t, grace)

	err := runManualEntry(cmdCtx, []string{"-user", "2", "-in", "2026-03-02T09:00", "-out", "2026-03-02T08:00"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseEditEntryFlags(t *testing.T) {
	_, err := parseEditEntryFlags([]string{"-in", "2026-03-02T09:00"})
	require.Error(t, err)

	opts, err := parseEditEntryFlags([]string{"-id", "5", "-in", "2026-03-02T09:00"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.ID("5"), opts.ID)
	assert.Nil(t, opts.Update.ClockOut)

	opts, err = parseEditEntryFlags([]string{"-id", "5", "-in", "2026-03-02T09:00", "-out", "2026-03-02T17:30"})
	require.NoError(t, err)
	require.NotNil(t, opts.Update.ClockOut)
	assert.Equal(t, 17, opts.Update.ClockOut.Hour())
}

func TestTimeFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-03-02T09:30:00Z", want: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
		{in: "2026-03-02T09:30", want: time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local)},
		{in: "2026-03-02 09:30", want: time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local)},
		{in: "2026-03-02", want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got time.Time
			err := timeFlag{&got}.Set(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, outputOptions{}, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, printJSON(&buf, outputOptions{Query: "a"}, map[string]int{"a": 1}))
	assert.JSONEq(t, "1", buf.String())
}
