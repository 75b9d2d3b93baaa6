package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
	"github.com/Hammad-111/HamSync-sub000/internal/config"
	"github.com/Hammad-111/HamSync-sub000/internal/db"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
	syncx "github.com/Hammad-111/HamSync-sub000/internal/sync"
)

type fixture struct {
	t      *testing.T
	router http.Handler
	auth   *authmw.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.SeedAdmin(ctx, h, "admin", string(hash)))
	now := time.Now().Unix()
	for _, u := range [][2]string{{"s1", "student"}, {"s2", "student"}, {"c1", "counselor"}} {
		_, err := h.Exec(`INSERT INTO users (id, username, role, created_at) VALUES ($1,$2,$3,$4)`, u[0], u[0], u[1], now)
		require.NoError(t, err)
	}

	logger, _ := test.NewNullLogger()
	events := syncx.NewEventRepo(h, "test")
	a := authmw.NewAuthService("test-secret")
	cfg := config.Config{Mode: config.ModeOffline, EnableLocalAuth: true, EnableGuestAuth: true}
	r := NewRouter(Deps{
		Config: cfg,
		Auth:   a,
		Calc:   merit.New(merit.WithLogger(logger)),
		Store:  results.NewSQLStore(h, events),
		DB:     h,
		Events: events,
	})
	return &fixture{t: t, router: r, auth: a}
}

func (f *fixture) token(sub, role string) string {
	tok, err := f.auth.IssueJWT(sub, role)
	require.NoError(f.t, err)
	return tok
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const uetForward = `{
	"institution": "uet",
	"variant": "engineering",
	"inputs": {"ssc": [950, 1100], "hssc": [900, 1100], "test": [280, 400]}
}`

func TestHealth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "", "").Code)
}

func TestProfiles(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/profiles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fams []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fams))
	assert.Len(t, fams, 3)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/profiles/FAST", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/profiles/lums", "", "").Code)
}

func TestAggregateEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/aggregate", uetForward, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res merit.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Aggregate)
	assert.Equal(t, 79.41, *res.Aggregate)

	target := `{"institution":"uet","variant":"engineering","inputs":{"ssc":[950,1100],"hssc":[900,1100]},"target_aggregate":85}`
	rec = f.do(http.MethodPost, "/aggregate/target", target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = merit.Result{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.RequiredScore)
	assert.Equal(t, 354.5, *res.RequiredScore)

	rec = f.do(http.MethodPost, "/aggregate/forward", `{"institution":"uet","variant":"engineering","inputs":{"hssc":"abc"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"no_result"`)

	rec = f.do(http.MethodPost, "/aggregate", `{"institution":"uet","variant":"medicine"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_profile")

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/aggregate", `{"institution":`, "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/aggregate", `{"institution":"uet","variant":"engineering","mode":"x"}`, "").Code)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"adminpass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/users", "", out.AccessToken).Code)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/auth/guest", "", "").Code)
}

func TestResultsLifecycle(t *testing.T) {
	f := newFixture(t)
	s1 := f.token("s1", "student")
	s2 := f.token("s2", "student")
	c1 := f.token("c1", "counselor")

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/results", uetForward, "").Code)

	rec := f.do(http.MethodPost, "/results", uetForward, s1)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved results.Saved
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "s1", saved.UserID)
	require.NotNil(t, saved.Value)
	assert.Equal(t, 79.41, *saved.Value)

	_ = f.do(http.MethodPost, "/results", uetForward, s2)

	// students see only their own, even when asking for someone else's
	rec = f.do(http.MethodGet, "/results?user_id=s2", "", s1)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []results.Saved
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].UserID)

	rec = f.do(http.MethodGet, "/results", "", c1)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/results/"+saved.ID, "", s2).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/results/"+saved.ID, "", c1).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/results/"+saved.ID, "", s2).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/results/"+saved.ID, "", s1).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/results/"+saved.ID, "", s1).Code)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/events", "", c1).Code)
	rec = f.do(http.MethodGet, "/events", "", f.token("admin", "admin"))
	require.Equal(t, http.StatusOK, rec.Code)
	var evs []syncx.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evs))
	assert.Len(t, evs, 3)
}

func TestUsersEndpoints(t *testing.T) {
	f := newFixture(t)
	admin := f.token("admin", "admin")

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/users", "", f.token("s1", "student")).Code)

	rec := f.do(http.MethodPost, "/users/bulk", `[{"id":"c2","username":"c2","role":"counselor","password":"counsel-pass"}]`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"inserted":1,"updated":0}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/users?role=counselor", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"c2"`)

	rec = f.do(http.MethodPost, "/users/bulk", `[{"id":"x","username":"x","role":"principal","password":"p"}]`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c2 := f.token("c2", "counselor")
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/users/change-password", `{"old_password":"wrong","new_password":"longenough"}`, c2).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/users/change-password", `{"old_password":"counsel-pass","new_password":"longenough"}`, c2).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/auth/login", `{"username":"c2","password":"longenough"}`, "").Code)
}
