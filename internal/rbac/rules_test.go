package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy

	assert.True(t, p.Allows(RoleStudent, PermResultsViewOwn))
	assert.False(t, p.Allows(RoleStudent, PermResultsViewAll))
	assert.False(t, p.Allows(RoleStudent, PermUsersList))

	assert.True(t, p.Allows(RoleCounselor, PermResultsViewAll))
	assert.True(t, p.Allows(RoleCounselor, PermResultsDelAny))
	assert.False(t, p.Allows(RoleCounselor, PermEventsRead))
	assert.False(t, p.Allows(RoleCounselor, "resultsx"))

	assert.True(t, p.Allows(RoleAdmin, PermEventsRead))
	assert.False(t, p.Allows("visitor", PermCalculate))
	assert.True(t, p.AllowsAny(RoleStudent, PermUsersList, PermResultsSave))
	assert.True(t, ValidRole(RoleCounselor))
	assert.False(t, ValidRole("principal"))
}

func TestRequireAny(t *testing.T) {
	h := RequireAny(PermResultsViewOwn, PermResultsViewAll)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","required":["results:view-own","results:view-all"]}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(context.Background(), RoleStudent))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, Can(req.Context(), PermResultsSave))
}
