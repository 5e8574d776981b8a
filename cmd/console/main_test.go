package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tenant-console/internal/apitest"
	"github.com/example/tenant-console/internal/resources"
)

func fakeConsoleAPI(t *testing.T) *apitest.Server {
	t.Helper()
	api := apitest.New(t)
	api.Engine.POST("/auth/login", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		apitest.OK(c, gin.H{
			"accessToken": "tok-" + body["tenantId"],
			"user":        gin.H{"id": 1, "username": body["username"], "email": body["username"], "firstName": "Ada", "roles": []string{"TENANT_ADMIN"}},
		})
	})
	api.Engine.POST("/auth/logout", func(c *gin.Context) { apitest.OK(c, nil) })
	api.Engine.GET("/kafka/topics", func(c *gin.Context) { apitest.OK(c, resources.SampleTopics()) })
	return api
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSessionLifecycle(t *testing.T) {
	api := fakeConsoleAPI(t)
	dir := t.TempDir()
	t.Setenv("CONSOLE_STATE_DIR", dir)
	t.Setenv("CONSOLE_API_URL", api.URL)
	t.Setenv("CONSOLE_STORAGE", "file")
	t.Setenv("CONSOLE_SESSION_PASSPHRASE", "test-passphrase")

	_, _, err := execute(t, "topics", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nenhuma sessão ativa")

	out, _, err := execute(t, "login", "-u", "ada@acme.io", "-p", "pw", "-t", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "tenant acme")

	raw, err := os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-acme")

	_, _, err = execute(t, "login", "-u", "ada@acme.io", "-p", "pw", "-t", "globex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme")

	out, _, err = execute(t, "topics", "list", "--q", "prod", "--status", "INACTIVE")
	require.NoError(t, err)
	assert.Contains(t, out, "notification-service")
	assert.NotContains(t, out, "user-events")

	last := api.Requests()[len(api.Requests())-1]
	assert.Equal(t, "Bearer tok-acme", last.Header.Get("Authorization"))
	assert.Equal(t, "acme", last.Header.Get("X-Tenant-ID"))

	out, _, err = execute(t, "-o", "json", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "ada@acme.io"`)

	_, _, err = execute(t, "-o", "table", "logout")
	require.NoError(t, err)
	_, _, err = execute(t, "whoami")
	require.Error(t, err)
}

func TestAuditExportFallsBackWithWarning(t *testing.T) {
	api := fakeConsoleAPI(t)
	t.Setenv("CONSOLE_STATE_DIR", t.TempDir())
	t.Setenv("CONSOLE_API_URL", api.URL)
	t.Setenv("CONSOLE_STORAGE", "sqlite")
	t.Setenv("CONSOLE_SESSION_PASSPHRASE", "")

	_, _, err := execute(t, "login", "-u", "ada@acme.io", "-p", "pw", "-t", "acme")
	require.NoError(t, err)

	out, errOut, err := execute(t, "audit-logs", "export", "--status", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, errOut, "aviso:")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,Action,Resource Type,Resource Name,User,Status,Duration (ms),IP Address", lines[0])
	assert.Equal(t, 1, api.Count(http.MethodGet, "/kafka/audit-logs"))

	_, _, err = execute(t, "logout")
	require.NoError(t, err)
}

func TestTopologyTree(t *testing.T) {
	api := fakeConsoleAPI(t)
	t.Setenv("CONSOLE_STATE_DIR", t.TempDir())
	t.Setenv("CONSOLE_API_URL", api.URL)
	t.Setenv("CONSOLE_STORAGE", "file")
	t.Setenv("CONSOLE_SESSION_PASSPHRASE", "")

	_, _, err := execute(t, "login", "-u", "ada@acme.io", "-p", "pw", "-t", "acme")
	require.NoError(t, err)

	out, errOut, err := execute(t, "topology")
	require.NoError(t, err)
	assert.Contains(t, errOut, "clusters")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "kafka-staging [HEALTHY]")
	assert.Contains(t, out, "inventory-updates (4 partições, ACTIVE)")

	_, _, err = execute(t, "logout")
	require.NoError(t, err)
}
