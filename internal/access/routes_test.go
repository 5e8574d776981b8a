package access

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/example/tenant-console/internal/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		path       string
		hasSession bool
		want       Decision
	}{
		{"/login", false, Decision{Allow: true}},
		{"/register", false, Decision{Allow: true}},
		{"/login", true, Decision{RedirectTo: "/dashboard"}},
		{"/register/", true, Decision{RedirectTo: "/dashboard"}},
		{"/dashboard", false, Decision{RedirectTo: "/login"}},
		{"/kafka/topics", false, Decision{RedirectTo: "/login"}},
		{"/kafka/topics", true, Decision{Allow: true}},
		{"/", true, Decision{RedirectTo: "/dashboard"}},
		{"/", false, Decision{RedirectTo: "/login"}},
	}
	for _, tt := range tests {
		got := Decide(tt.path, tt.hasSession)
		assert.Equal(t, tt.want, got, "%s session=%v", tt.path, tt.hasSession)
	}
}

type cell struct {
	sess models.Session
	ok   bool
}

func (c *cell) Get() (models.Session, bool) { return c.sess, c.ok }

func TestMiddlewareReevaluatesEveryRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &cell{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	r := gin.New()
	r.Use(MiddlewareAt(src, func() time.Time { return now }))
	r.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "dash") })
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, get("/login").Code)

	src.sess = models.Session{Token: "t", TenantID: "acme", Identity: models.User{Username: "u"}}
	src.ok = true
	assert.Equal(t, http.StatusOK, get("/dashboard").Code)
	w = get("/login")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	src.sess.ExpiresAt = now.Add(-time.Minute)
	w = get("/dashboard")
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestHasAnyRole(t *testing.T) {
	admin := models.User{Roles: models.NewRoleSet(models.RoleAdmin)}
	viewer := models.User{Roles: models.NewRoleSet(models.RoleViewer)}
	flagged := models.User{TenantAdmin: true}

	assert.True(t, HasAnyRole(admin, Administrators...))
	assert.False(t, HasAnyRole(viewer, Writers...))
	assert.True(t, HasAnyRole(flagged, Administrators...))
	assert.False(t, HasAnyRole(models.User{}, Writers...))
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &cell{ok: true, sess: models.Session{
		Token:    "tok",
		TenantID: "acme",
		Identity: models.User{Username: "ana", Roles: models.NewRoleSet(models.RoleViewer)},
	}}

	r := gin.New()
	r.Use(Middleware(src))
	r.POST("/users", RequireRole(Administrators...), func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, post())

	src.sess.Identity.Roles = models.NewRoleSet(models.RoleTenantAdmin)
	assert.Equal(t, http.StatusCreated, post())
}
