package transport

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tenant-console/internal/apitest"
	"github.com/example/tenant-console/internal/models"
)

// sessionCell é uma fonte de sessão mutável para os testes.
type sessionCell struct {
	sess models.Session
	ok   bool
}

func (s *sessionCell) Get() (models.Session, bool) { return s.sess, s.ok }

func TestInterceptorReadsSessionAtSendTime(t *testing.T) {
	api := apitest.New(t)
	api.Engine.GET("/ping", func(c *gin.Context) { apitest.OK(c, "pong") })

	cell := &sessionCell{}
	client := NewClient(api.URL, 5*time.Second, cell, nil)

	var out string
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/ping", nil, &out))
	assert.Equal(t, "pong", out)

	// a sessão muda depois de o cliente ser construído
	cell.sess = models.Session{Token: "tok-1", TenantID: "acme", Identity: models.User{Username: "a"}}
	cell.ok = true
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/ping", nil, &out))

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Header.Get(HeaderAuthorization))
	assert.Empty(t, reqs[0].Header.Get(HeaderTenantID))
	assert.NotEmpty(t, reqs[0].Header.Get(HeaderRequestID))
	assert.Equal(t, "Bearer tok-1", reqs[1].Header.Get(HeaderAuthorization))
	assert.Equal(t, "acme", reqs[1].Header.Get(HeaderTenantID))
}

func TestInterceptorDoesNotMutateCallerRequest(t *testing.T) {
	api := apitest.New(t)
	api.Engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cell := &sessionCell{sess: models.Session{Token: "tok", TenantID: "acme"}, ok: true}
	rt := NewInterceptor(cell, nil)
	req, err := http.NewRequest(http.MethodGet, api.URL+"/ping", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, req.Header.Get(HeaderAuthorization))
}

func TestExplicitTenantHeaderWins(t *testing.T) {
	api := apitest.New(t)
	api.Engine.POST("/auth/login", func(c *gin.Context) { apitest.OK(c, gin.H{}) })

	cell := &sessionCell{sess: models.Session{Token: "old", TenantID: "old-tenant"}, ok: true}
	client := NewClient(api.URL, 5*time.Second, cell, nil)
	h := http.Header{}
	h.Set(HeaderTenantID, "new-tenant")
	require.NoError(t, client.DoWithHeaders(context.Background(), http.MethodPost, "/auth/login", h, gin.H{"a": 1}, nil))

	assert.Equal(t, "new-tenant", api.Requests()[0].Header.Get(HeaderTenantID))
}

func TestClientErrors(t *testing.T) {
	api := apitest.New(t)
	api.Engine.GET("/denied", func(c *gin.Context) { apitest.Fail(c, http.StatusForbidden, "sem acesso") })
	api.Engine.GET("/unsuccessful", func(c *gin.Context) { apitest.Fail(c, http.StatusOK, "nope") })
	api.Engine.GET("/html", func(c *gin.Context) { c.String(http.StatusOK, "<html>") })
	api.Engine.GET("/nodata", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
	api.Engine.GET("/flat", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{{"id": 1}}) })

	client := NewClient(api.URL, 5*time.Second, nil, nil)
	ctx := context.Background()
	var out []map[string]any

	err := client.Do(ctx, http.MethodGet, "/denied", nil, &out)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "sem acesso", se.Message)

	assert.ErrorIs(t, client.Do(ctx, http.MethodGet, "/unsuccessful", nil, &out), ErrUnsuccessful)
	assert.ErrorIs(t, client.Do(ctx, http.MethodGet, "/html", nil, &out), ErrShape)
	assert.ErrorIs(t, client.Do(ctx, http.MethodGet, "/nodata", nil, &out), ErrShape)

	require.NoError(t, client.Do(ctx, http.MethodGet, "/flat", nil, &out))
	assert.Len(t, out, 1)
}

func TestClientUnreachable(t *testing.T) {
	api := apitest.New(t)
	url := api.URL
	api.Close()

	client := NewClient(url, time.Second, nil, nil)
	err := client.Do(context.Background(), http.MethodGet, "/ping", nil, nil)
	assert.ErrorIs(t, err, ErrUnreachable)
}
