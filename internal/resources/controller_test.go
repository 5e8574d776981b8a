package resources

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tenant-console/internal/apitest"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/transport"
)

type sessionCell struct {
	mu   sync.Mutex
	sess models.Session
	ok   bool
}

func (c *sessionCell) Get() (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess, c.ok
}

func (c *sessionCell) switchTenant(tenant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.TenantID = tenant
}

func newCell(tenant string) *sessionCell {
	return &sessionCell{
		sess: models.Session{Token: "tok", TenantID: tenant, Identity: models.User{Username: "admin", Email: "admin@acme.io"}},
		ok:   true,
	}
}

func setup(t *testing.T) (*apitest.Server, *sessionCell, *transport.Client) {
	t.Helper()
	api := apitest.New(t)
	cell := newCell("acme")
	return api, cell, transport.NewClient(api.URL, 5*time.Second, cell, nil)
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestLoadFallsBackToSamples(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/topics", func(c *gin.Context) { apitest.Fail(c, http.StatusInternalServerError, "boom") })

	ctl := NewController(Topics(), client, cell)
	res := ctl.Load(context.Background())

	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Warning)
	if diff := cmp.Diff(SampleTopics(), ctl.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnexpectedShape(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/clusters/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"unexpected": 1}})
	})

	ctl := NewController(Clusters(), client, cell)
	res := ctl.Load(context.Background())
	assert.True(t, res.Degraded)
	assert.Len(t, ctl.Records(), len(SampleClusters()))
}

func TestLoadPagedAuditLogs(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/audit-logs", func(c *gin.Context) {
		apitest.OK(c, gin.H{"content": []gin.H{{"id": 9, "action": "CREATE_TOPIC", "status": "SUCCESS"}}, "totalElements": 1})
	})

	ctl := NewController(AuditLogs(), client, cell)
	res := ctl.Load(context.Background())

	require.False(t, res.Degraded)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(9), ctl.Records()[0].ID)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "size=25&sort=timestamp&direction=desc", reqs[0].Query)
	assert.Equal(t, "acme", reqs[0].Header.Get(transport.HeaderTenantID))
}

func TestLoadAcceptsFlatArray(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "username": "a", "roles": []string{"ADMIN"}}})
	})

	ctl := NewController(Users(), client, cell)
	res := ctl.Load(context.Background())
	require.False(t, res.Degraded)
	assert.True(t, ctl.Records()[0].Roles.Has(models.RoleAdmin))
}

func loadedTopics(t *testing.T) *Controller[models.Topic] {
	t.Helper()
	api, cell, client := setup(t)
	api.Close()
	ctl := NewController(Topics(), client, cell)
	ctl.Load(context.Background())
	return ctl
}

func TestApplySearchAndFacet(t *testing.T) {
	ctl := loadedTopics(t)
	require.Len(t, ctl.Records(), 4)

	got := ctl.Apply(FilterState{Search: "PROD", Facets: map[string]string{"status": "INACTIVE"}})
	require.Len(t, got, 1)
	assert.Equal(t, "notification-service", got[0].Name)

	assert.Len(t, ctl.Apply(FilterState{Search: "prod"}), 3)
	assert.Len(t, ctl.Apply(FilterState{Facets: map[string]string{"cluster": "kafka-staging"}}), 1)
	assert.Empty(t, ctl.Apply(FilterState{Facets: map[string]string{"owner": "x"}}))
}

func TestApplyIsIdempotent(t *testing.T) {
	ctl := loadedTopics(t)

	if diff := cmp.Diff(ctl.Records(), ctl.Apply(FilterState{})); diff != "" {
		t.Errorf("empty filter changed collection (-want +got):\n%s", diff)
	}

	f := FilterState{Search: "e", Facets: map[string]string{"status": "ACTIVE"}}
	once := ctl.Apply(f)
	twice := Filter(Topics(), once, f)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("filter not idempotent (-once +twice):\n%s", diff)
	}
}

func TestFacetValues(t *testing.T) {
	ctl := loadedTopics(t)
	assert.Equal(t, []string{"kafka-prod-01", "kafka-staging"}, ctl.FacetValues("cluster"))
	assert.Equal(t, []string{"cluster", "status"}, ctl.FacetNames())
	assert.Nil(t, ctl.FacetValues("nope"))
}

func TestCreateThenRemoveRestoresCollection(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/users", func(c *gin.Context) { apitest.OK(c, SampleUsers()) })
	api.Engine.POST("/users", func(c *gin.Context) { apitest.OK(c, gin.H{"id": 99}) })
	api.Engine.DELETE("/users/:id", func(c *gin.Context) { apitest.OK(c, nil) })

	ctl := NewController(Users(), client, cell, WithClock(func() time.Time { return fixedNow }))
	require.False(t, ctl.Load(context.Background()).Degraded)
	before := ctl.Records()
	require.Len(t, before, 3)

	created, err := ctl.Create(context.Background(), models.AccountUser{Email: "new@acme.io", FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "new@acme.io", created.Username)
	assert.True(t, created.Roles.Has(models.RoleUser))
	assert.Equal(t, "2026-03-01T09:00:00Z", created.CreatedAt)

	ids := map[int64]bool{}
	for _, u := range ctl.Records() {
		assert.False(t, ids[u.ID], "duplicate id %d", u.ID)
		ids[u.ID] = true
	}
	assert.Len(t, ids, 4)

	require.NoError(t, ctl.Remove(context.Background(), created.ID))
	if diff := cmp.Diff(before, ctl.Records()); diff != "" {
		t.Errorf("collection not restored (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, api.Count(http.MethodPost, "/users"))
	assert.Equal(t, 1, api.Count(http.MethodDelete, "/users/4"))
	assert.Empty(t, ctl.Unconfirmed())
}

func TestMutationFailureKeepsLocalChange(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/clusters/all", func(c *gin.Context) { apitest.OK(c, SampleClusters()) })
	api.Engine.POST("/kafka/clusters", func(c *gin.Context) { apitest.Fail(c, http.StatusInternalServerError, "down") })
	api.Engine.PUT("/kafka/clusters/:id", func(c *gin.Context) { apitest.Fail(c, http.StatusConflict, "locked") })

	ctl := NewController(Clusters(), client, cell)
	ctl.Load(context.Background())

	rec, err := ctl.Create(context.Background(), models.Cluster{Name: "kafka-new", BootstrapServers: "a:9092,b:9092"})
	var merr *MutationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "create", merr.Op)
	assert.Equal(t, int64(5), rec.ID)
	assert.Equal(t, 2, rec.BrokerCount)
	assert.Len(t, ctl.Records(), 5)

	_, err = ctl.Update(context.Background(), 1, models.Cluster{Name: "renamed", BootstrapServers: "x:9092"})
	var status *transport.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusConflict, status.StatusCode)
	assert.Equal(t, "renamed", ctl.Records()[0].Name)
	assert.Equal(t, "HEALTHY", ctl.Records()[0].HealthStatus)

	assert.Equal(t, map[int64]string{5: "create", 1: "update"}, ctl.Unconfirmed())

	ctl.Load(context.Background())
	assert.Empty(t, ctl.Unconfirmed())
	assert.Len(t, ctl.Records(), 4)
}

func TestPartialUpdateKeepsUntouchedFields(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/users", func(c *gin.Context) { apitest.OK(c, SampleUsers()) })
	var sent models.AccountUser
	api.Engine.PUT("/users/:id", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&sent)
		apitest.OK(c, nil)
	})

	ctl := NewController(Users(), client, cell)
	ctl.Load(context.Background())

	rec, err := ctl.Update(context.Background(), 2, models.AccountUser{Email: "john.new@enterprise.com"})
	require.NoError(t, err)
	assert.Equal(t, "john.new@enterprise.com", rec.Email)
	assert.Equal(t, "john.doe@enterprise.com", rec.Username)
	assert.Equal(t, "John", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	require.NotNil(t, rec.Enabled)
	assert.True(t, *rec.Enabled)
	assert.Equal(t, rec, sent)
	assert.Len(t, ctl.Apply(FilterState{Search: "john.doe"}), 1)

	rec, err = ctl.Update(context.Background(), 2, models.AccountUser{Enabled: flag(false)})
	require.NoError(t, err)
	assert.False(t, *rec.Enabled)
	assert.Equal(t, "John", rec.FirstName)
}

func TestPartialClusterUpdate(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/clusters/all", func(c *gin.Context) { apitest.OK(c, SampleClusters()) })
	api.Engine.PUT("/kafka/clusters/:id", func(c *gin.Context) { apitest.OK(c, nil) })

	ctl := NewController(Clusters(), client, cell)
	ctl.Load(context.Background())

	rec, err := ctl.Update(context.Background(), 1, models.Cluster{KafkaVersion: "3.7.0"})
	require.NoError(t, err)
	assert.Equal(t, "kafka-prod-01", rec.Name)
	assert.Equal(t, "Production Kafka cluster for main workloads", rec.Description)
	assert.Equal(t, "3.7.0", rec.KafkaVersion)
	assert.Empty(t, ctl.Unconfirmed())
}

func TestMutationGuards(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET("/kafka/topics", func(c *gin.Context) { apitest.OK(c, SampleTopics()) })

	topics := NewController(Topics(), client, cell)
	topics.Load(context.Background())

	_, err := topics.Update(context.Background(), 404, models.Topic{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, topics.Remove(context.Background(), 404), ErrNotFound)
	_, err = topics.Create(context.Background(), models.Topic{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalid)

	logs := NewController(AuditLogs(), client, cell)
	_, err = logs.Create(context.Background(), models.AuditLogEntry{})
	assert.ErrorIs(t, err, ErrReadOnly)

	assert.Equal(t, 1, len(api.Requests()))
}

func TestCreateTopicResolvesClusterName(t *testing.T) {
	ctl := loadedTopics(t)
	rec, err := ctl.Create(context.Background(), models.Topic{Name: "payments", ClusterID: 2})
	require.Error(t, err)
	assert.Equal(t, "kafka-staging", rec.ClusterName)
	assert.Equal(t, 3, rec.Partitions)
	assert.Equal(t, "ACTIVE", rec.Status)
}

func blockingList(api *apitest.Server, path string, release <-chan struct{}, data any) {
	api.Engine.GET(path, func(c *gin.Context) {
		<-release
		apitest.OK(c, data)
	})
}

func TestLoadDiscardsResultAfterTenantSwitch(t *testing.T) {
	api, cell, client := setup(t)
	release := make(chan struct{})
	blockingList(api, "/kafka/topics", release, SampleTopics()[:1])

	ctl := NewController(Topics(), client, cell)
	done := make(chan LoadResult, 1)
	go func() { done <- ctl.Load(context.Background()) }()

	require.Eventually(t, func() bool { return api.Count(http.MethodGet, "/kafka/topics") == 1 }, 2*time.Second, 5*time.Millisecond)
	cell.switchTenant("globex")
	close(release)

	res := <-done
	assert.True(t, res.Stale)
	assert.Empty(t, ctl.Records())
}

func TestLoadDiscardsResultAfterClose(t *testing.T) {
	api, cell, client := setup(t)
	release := make(chan struct{})
	blockingList(api, "/users", release, SampleUsers())

	ctl := NewController(Users(), client, cell)
	done := make(chan LoadResult, 1)
	go func() { done <- ctl.Load(context.Background()) }()

	require.Eventually(t, func() bool { return api.Count(http.MethodGet, "/users") == 1 }, 2*time.Second, 5*time.Millisecond)
	ctl.Close()
	close(release)

	assert.True(t, (<-done).Stale)
	assert.Empty(t, ctl.Records())
	assert.True(t, ctl.Load(context.Background()).Stale)
	_, err := ctl.Create(context.Background(), models.AccountUser{Email: "x@y.z"})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestExportAuditLogs(t *testing.T) {
	logs := SampleAuditLogs()[:1]
	logs[0].ResourceName = "events, v2"

	out, err := Export(AuditLogs(), logs, ExportOptions{})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,Action,Resource Type,Resource Name,User,Status,Duration (ms),IP Address", lines[0])
	assert.Equal(t, `2025-08-22T11:45:00Z,CREATE_TOPIC,TOPIC,"events, v2",admin@enterprise.com,SUCCESS,1250,192.168.1.100`, lines[1])

	raw, err := Export(AuditLogs(), logs, ExportOptions{Raw: true})
	require.NoError(t, err)
	assert.Equal(t,
		"Timestamp,Action,Resource Type,Resource Name,User,Status,Duration (ms),IP Address\n"+
			"2025-08-22T11:45:00Z,CREATE_TOPIC,TOPIC,events, v2,admin@enterprise.com,SUCCESS,1250,192.168.1.100",
		string(raw))
}

func TestExportFilteredView(t *testing.T) {
	ctl := loadedTopics(t)
	out, err := ctl.Export(ctl.Apply(FilterState{Facets: map[string]string{"status": "INACTIVE"}}), ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(out), "\n"))
	assert.Contains(t, string(out), "notification-service,kafka-prod-01,INACTIVE,3,3,180000,67108864,86400000,none,")
}

func TestTenantViewFallback(t *testing.T) {
	api, cell, client := setup(t)
	api.Close()

	tenant, res := NewTenantView(client, cell, nil, nil).Load(context.Background())
	assert.True(t, res.Degraded)
	assert.Equal(t, "acme", tenant.Subdomain)
	assert.Equal(t, "admin@acme.io", tenant.AdminEmail)
	assert.Equal(t, 50, tenant.Limits.MaxUsers)
}

func TestTenantViewLoads(t *testing.T) {
	api, cell, client := setup(t)
	api.Engine.GET(TenantPath, func(c *gin.Context) {
		apitest.OK(c, models.Tenant{Name: "Acme", Subdomain: "acme", Plan: "Enterprise"})
	})

	tenant, res := NewTenantView(client, cell, nil, nil).Load(context.Background())
	assert.False(t, res.Degraded)
	assert.Equal(t, "Enterprise", tenant.Plan)
}
