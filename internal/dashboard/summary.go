package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/metrics"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/resources"
	"github.com/example/tenant-console/internal/transport"
)

const (
	ClustersPath  = "/kafka/clusters/all"
	UsersPath     = "/users"
	ActivityPath  = "/kafka/audit-logs?size=10&sort=timestamp&direction=desc"
	activityLimit = 5
)

// Summary é o resumo exibido no dashboard. É recalculado por inteiro a cada chamada.
type Summary struct {
	TotalClusters   int                   `json:"totalClusters"`
	HealthyClusters int                   `json:"healthyClusters"`
	TotalTopics     int                   `json:"totalTopics"`
	TotalUsers      int                   `json:"totalUsers"`
	RecentActivity  []models.ActivityItem `json:"recentActivity"`

	// Degraded: nenhuma fonte respondeu e os números acima são o placeholder fixo.
	Degraded      bool     `json:"degraded"`
	FailedSources []string `json:"failedSources,omitempty"`
	Warning       string   `json:"warning,omitempty"`
}

// Placeholder é o resumo fabricado usado quando todas as fontes falham.
// Os números redondos indicam que o backend estava inacessível.
func Placeholder() Summary {
	return Summary{
		TotalClusters:   5,
		HealthyClusters: 4,
		TotalTopics:     23,
		TotalUsers:      12,
		RecentActivity:  []models.ActivityItem{},
	}
}

// Aggregator monta o Summary a partir de clusters, usuários e auditoria.
type Aggregator struct {
	client  resources.Fetcher
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAggregator(client resources.Fetcher, log *zap.Logger, m *metrics.Metrics) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{client: client, log: log, metrics: m, now: time.Now}
}

// Summarize nunca falha.
func (a *Aggregator) Summarize(ctx context.Context) Summary {
	var (
		clusters []models.Cluster
		users    []models.AccountUser
		logs     []models.AuditLogEntry
	)
	rep := Gather(ctx,
		From("clusters", list[models.Cluster](a.client, ClustersPath), nil, &clusters),
		From("users", list[models.AccountUser](a.client, UsersPath), nil, &users),
		From("audit-logs", page[models.AuditLogEntry](a.client, ActivityPath), nil, &logs),
	)

	for _, o := range rep.Outcomes {
		if o.Err != nil {
			a.log.Warn("fonte do dashboard falhou", zap.String("source", o.Source), zap.Error(o.Err))
			a.metrics.FetchFailed(o.Source)
		}
	}

	if rep.AllFailed() {
		a.metrics.FellBack("dashboard")
		s := Placeholder()
		s.Degraded = true
		s.FailedSources = rep.Failed()
		s.Warning = "falha ao carregar dados do dashboard; exibindo valores de exemplo"
		return s
	}

	s := a.compute(clusters, users, logs)
	if failed := rep.Failed(); len(failed) > 0 {
		s.FailedSources = failed
		s.Warning = fmt.Sprintf("dados parciais: falha em %s", strings.Join(failed, ", "))
	}
	return s
}

func (a *Aggregator) compute(clusters []models.Cluster, users []models.AccountUser, logs []models.AuditLogEntry) Summary {
	s := Summary{
		TotalClusters:  len(clusters),
		TotalUsers:     len(users),
		RecentActivity: make([]models.ActivityItem, 0, activityLimit),
	}
	for _, c := range clusters {
		if c.HealthStatus == "HEALTHY" {
			s.HealthyClusters++
		}
		s.TotalTopics += c.TopicCount
	}
	for i, l := range logs {
		if i == activityLimit {
			break
		}
		s.RecentActivity = append(s.RecentActivity, a.activity(i, l))
	}
	return s
}

// activity converte uma entrada de auditoria, preenchendo campos ausentes.
func (a *Aggregator) activity(i int, l models.AuditLogEntry) models.ActivityItem {
	item := models.ActivityItem{
		ID:        l.ID,
		Action:    l.Action,
		Resource:  l.ResourceName,
		Timestamp: l.Timestamp,
		Status:    l.Status,
		User:      l.UserEmail,
	}
	if item.ID == 0 {
		item.ID = int64(i)
	}
	if item.Action == "" {
		item.Action = "UNKNOWN"
	}
	if item.Resource == "" {
		item.Resource = "Unknown Resource"
	}
	if item.Timestamp == "" {
		item.Timestamp = a.now().UTC().Format(time.RFC3339)
	}
	if item.Status == "" {
		item.Status = "SUCCESS"
	}
	if item.User == "" {
		item.User = "system"
	}
	return item
}

func list[T any](client resources.Fetcher, path string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		var out []T
		if err := client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		if out == nil {
			return nil, fmt.Errorf("%w: lista ausente", transport.ErrShape)
		}
		return out, nil
	}
}

func page[T any](client resources.Fetcher, path string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		var p models.Page[T]
		if err := client.Do(ctx, http.MethodGet, path, nil, &p); err != nil {
			return nil, err
		}
		if p.Content == nil {
			return nil, fmt.Errorf("%w: content ausente", transport.ErrShape)
		}
		return p.Content, nil
	}
}
