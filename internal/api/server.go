// Package api expõe o console como servidor HTTP local (gin). Cada tela tem o
// seu controller; nenhuma coleção é compartilhada entre telas.
package api

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/example/tenant-console/internal/auth"
	"github.com/example/tenant-console/internal/dashboard"
	"github.com/example/tenant-console/internal/metrics"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/resources"
	"github.com/example/tenant-console/internal/transport"
)

type record = resources.Record

// Authenticator é o que o servidor usa do auth.Gateway.
type Authenticator interface {
	Login(ctx context.Context, username, password, tenantID string) (models.Session, error)
	Register(ctx context.Context, req auth.RegisterRequest) (models.Session, error)
	Logout(ctx context.Context) error
}

// Server reúne as telas do console.
type Server struct {
	auth     Authenticator
	sessions transport.SessionSource
	log      *zap.Logger

	dashboard *dashboard.Aggregator
	tenant    *resources.TenantView
	clusters  *view[models.Cluster]
	topics    *view[models.Topic]
	users     *view[models.AccountUser]
	auditLogs *view[models.AuditLogEntry]
}

// New cria o servidor. m pode ser nil.
func New(gw Authenticator, sessions transport.SessionSource, client resources.Fetcher, log *zap.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []resources.Option{resources.WithLogger(log), resources.WithMetrics(m)}
	return &Server{
		auth:      gw,
		sessions:  sessions,
		log:       log,
		dashboard: dashboard.NewAggregator(client, log, m),
		tenant:    resources.NewTenantView(client, sessions, log, m),
		clusters:  newView(resources.NewController(resources.Clusters(), client, sessions, opts...), false),
		topics:    newView(resources.NewController(resources.Topics(), client, sessions, opts...), false),
		users:     newView(resources.NewController(resources.Users(), client, sessions, opts...), false),
		auditLogs: newView(resources.NewController(resources.AuditLogs(), client, sessions, opts...), true),
	}
}

// Close encerra os controllers; cargas em andamento são descartadas.
func (s *Server) Close() {
	s.clusters.ctl.Close()
	s.topics.ctl.Close()
	s.users.ctl.Close()
	s.auditLogs.ctl.Close()
}

// invalidate força nova carga em todas as telas, usado quando a sessão muda.
func (s *Server) invalidate() {
	s.clusters.loaded.Store(false)
	s.topics.loaded.Store(false)
	s.users.loaded.Store(false)
	s.auditLogs.loaded.Store(false)
}

// view é uma tela de listagem: carrega na primeira visita ou com ?refresh=true.
// Visitas simultâneas compartilham a mesma carga.
type view[T record] struct {
	ctl      *resources.Controller[T]
	readOnly bool
	loaded   atomic.Bool
	loads    singleflight.Group
}

func newView[T record](ctl *resources.Controller[T], readOnly bool) *view[T] {
	return &view[T]{ctl: ctl, readOnly: readOnly}
}

func (v *view[T]) ensure(ctx context.Context, refresh bool) resources.LoadResult {
	if !refresh && v.loaded.Load() {
		return v.ctl.Status()
	}
	// A carga é de todos que esperam; o cancelamento de um não a interrompe.
	shared := context.WithoutCancel(ctx)
	r, _, _ := v.loads.Do("load", func() (any, error) {
		res := v.ctl.Load(shared)
		if !res.Stale {
			v.loaded.Store(true)
		}
		return res, nil
	})
	return r.(resources.LoadResult)
}
