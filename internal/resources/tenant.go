package resources

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/metrics"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/transport"
)

// TenantPath é o endpoint da organização corrente.
const TenantPath = "/tenant/current"

// TenantView carrega a organização corrente, com o mesmo fallback das listagens.
type TenantView struct {
	client  Fetcher
	scope   transport.SessionSource
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewTenantView(client Fetcher, scope transport.SessionSource, log *zap.Logger, m *metrics.Metrics) *TenantView {
	if log == nil {
		log = zap.NewNop()
	}
	return &TenantView{client: client, scope: scope, log: log, metrics: m}
}

// Load nunca falha: sem resposta válida, devolve o tenant de exemplo montado a partir da sessão.
func (v *TenantView) Load(ctx context.Context) (models.Tenant, LoadResult) {
	var t models.Tenant
	err := v.client.Do(ctx, http.MethodGet, TenantPath, nil, &t)
	if err == nil {
		return t, LoadResult{Count: 1}
	}
	v.log.Warn("falha ao carregar tenant, usando dados de exemplo", zap.Error(err))
	v.metrics.FetchFailed("tenant")
	v.metrics.FellBack("tenant")

	var sess models.Session
	if v.scope != nil {
		sess, _ = v.scope.Get()
	}
	return SampleTenant(sess), LoadResult{
		Count:    1,
		Degraded: true,
		Warning:  "falha ao carregar tenant; usando dados de exemplo",
	}
}

// SampleTenant é o tenant de exemplo; usa subdomínio e administrador da sessão quando houver.
func SampleTenant(sess models.Session) models.Tenant {
	t := models.Tenant{
		Name:       "Enterprise Corp",
		Subdomain:  "enterprise-corp",
		Status:     "ACTIVE",
		Plan:       "Professional",
		AdminEmail: "admin@enterprise.com",
		AdminName:  "Admin User",
		CreatedAt:  "2025-01-15T10:00:00Z",
		Stats: models.TenantStats{
			TotalUsers: 12, TotalClusters: 5, TotalTopics: 23,
			StorageUsed: 2.4, StorageLimit: 100,
		},
		Limits: models.TenantLimits{MaxUsers: 50, MaxClusters: 10, APIRateLimit: 1000, StorageLimit: 100},
	}
	if sess.TenantID != "" {
		t.Subdomain = sess.TenantID
	}
	if sess.Identity.Email != "" {
		t.AdminEmail = sess.Identity.Email
	}
	if name := sess.Identity.FullName(); name != "" {
		t.AdminName = name
	}
	return t
}
