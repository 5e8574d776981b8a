package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/tenant-console/internal/access"
	"github.com/example/tenant-console/internal/auth"
	"github.com/example/tenant-console/internal/config"
	"github.com/example/tenant-console/internal/crypto"
	"github.com/example/tenant-console/internal/db"
	"github.com/example/tenant-console/internal/logging"
	"github.com/example/tenant-console/internal/metrics"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/session"
	"github.com/example/tenant-console/internal/transport"
)

// app reúne as dependências montadas a partir da configuração.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	store    *session.Store
	client   *transport.Client
	gateway  *auth.Gateway
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp() (*app, error) {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "aviso: erro ao carregar .env: %v\n", err)
	}
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if globalFlags.apiURL != "" {
		cfg.APIURL = globalFlags.apiURL
	}

	a := &app{cfg: cfg, log: logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)}

	storage, err := a.openStorage()
	if err != nil {
		return nil, err
	}

	opts := []session.Option{session.WithLogger(a.log)}
	if cfg.SessionPassphrase != "" {
		sealer, err := crypto.NewSealer(cfg.SessionPassphrase)
		if err != nil {
			return nil, fmt.Errorf("erro ao preparar chave da sessão: %w", err)
		}
		opts = append(opts, session.WithSealer(sealer))
	}
	a.store = session.NewStore(storage, opts...)
	if err := a.store.Hydrate(); err != nil {
		a.log.Warn("sessão persistida ignorada", zap.Error(err))
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	a.client = transport.NewClient(cfg.APIURL, cfg.Timeout, a.store, nil)
	a.gateway = auth.NewGateway(a.client, a.store, a.log)
	return a, nil
}

func (a *app) openStorage() (session.Storage, error) {
	if a.cfg.Storage == "file" || a.cfg.Storage == "" {
		if err := os.MkdirAll(a.cfg.StateDir, 0o700); err != nil {
			return nil, err
		}
		return session.NewFileStorage(a.cfg.SessionFile()), nil
	}

	conn, err := db.Open(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no banco: %w", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		db.Close(conn)
		return nil, fmt.Errorf("erro ao migrar modelos: %w", err)
	}
	a.db = conn
	return db.NewKVStorage(conn), nil
}

func (a *app) Close() {
	db.Close(a.db)
	_ = a.log.Sync()
}

// requireSession aplica a mesma regra de acesso do servidor ao comando.
func (a *app) requireSession(path string) error {
	sess, ok := a.store.Get()
	active := ok && !sess.Expired(now())
	d := access.Decide(path, active)
	if d.Allow {
		return nil
	}
	if d.RedirectTo == access.LoginPath {
		if ok {
			return fmt.Errorf("sessão expirada; execute 'console login'")
		}
		return fmt.Errorf("nenhuma sessão ativa; execute 'console login'")
	}
	return fmt.Errorf("já existe uma sessão ativa no tenant %q; execute 'console logout' antes", sess.TenantID)
}

// requireRole é chamado depois de requireSession nas operações de escrita.
func (a *app) requireRole(allowed []models.Role) error {
	sess, _ := a.store.Get()
	if access.HasAnyRole(sess.Identity, allowed...) {
		return nil
	}
	return fmt.Errorf("acesso negado: %s não possui papel de escrita neste recurso", sess.Identity.Username)
}
