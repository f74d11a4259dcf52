package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_Has(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleLearner, PermCourseView, true},
		{RoleLearner, PermCourseWrite, false},
		{RoleAuthor, PermCourseWrite, true},
		{RoleAuthor, "course:delete", true},
		{RoleAuthor, "metrics:view", false},
		{RoleAdmin, "metrics:view", true},
		{"guest", PermCourseView, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Has(tc.role, tc.perm), "%s %s", tc.role, tc.perm)
	}
	assert.True(t, c.Any(RoleLearner, PermCourseWrite, PermMediaResolve))
	assert.True(t, KnownRole(RoleAuthor))
	assert.False(t, KnownRole("editor"))
}

func TestRequire(t *testing.T) {
	h := Require(PermCourseWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[string]int{
		"":          http.StatusForbidden,
		RoleLearner: http.StatusForbidden,
		RoleAuthor:  http.StatusNoContent,
		RoleAdmin:   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPut, "/courses/c1", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}
