package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/metrics"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/transport"
)

var (
	ErrNotFound = errors.New("registro não encontrado")
	ErrReadOnly = errors.New("recurso somente leitura")
	ErrClosed   = errors.New("controller encerrado")
	ErrInvalid  = errors.New("dados inválidos")
)

// Record é qualquer registro com identificador estável dentro da sua coleção.
type Record interface {
	RecordID() int64
}

// Fetcher é o subconjunto do transport.Client usado pelos controllers.
type Fetcher interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// MutationError indica que a mudança local foi aplicada, mas o servidor não a confirmou.
type MutationError struct {
	Resource string
	Op       string
	ID       int64
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s #%d não confirmado: %v", e.Op, e.Resource, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// LoadResult descreve o resultado de uma carga.
type LoadResult struct {
	Count    int    `json:"count"`
	Degraded bool   `json:"degraded"`
	Warning  string `json:"warning,omitempty"`
	// Stale: a resposta chegou depois de outra carga, de Close ou de troca de tenant e foi descartada.
	Stale bool `json:"stale,omitempty"`
}

// Controller mantém a coleção em memória de uma tela de listagem.
// Cada tela tem o seu; coleções não são compartilhadas.
type Controller[T Record] struct {
	desc    Descriptor[T]
	client  Fetcher
	scope   transport.SessionSource
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu          sync.RWMutex
	records     []T
	degraded    bool
	warning     string
	gen         uint64
	closed      bool
	unconfirmed map[int64]string
}

type Option func(*options)

type options struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func WithLogger(l *zap.Logger) Option      { return func(o *options) { o.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(o *options) { o.metrics = m } }
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// NewController cria o controller. scope pode ser nil; quando presente, respostas
// que chegam depois de uma troca de tenant são descartadas.
func NewController[T Record](desc Descriptor[T], client Fetcher, scope transport.SessionSource, opts ...Option) *Controller[T] {
	o := options{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		desc:        desc,
		client:      client,
		scope:       scope,
		log:         o.log.With(zap.String("resource", desc.Name)),
		metrics:     o.metrics,
		now:         o.now,
		unconfirmed: map[int64]string{},
	}
}

// Name é o nome do recurso.
func (c *Controller[T]) Name() string { return c.desc.Name }

// Columns é o cabeçalho de exportação.
func (c *Controller[T]) Columns() []string { return c.desc.Columns }

func (c *Controller[T]) tenant() string {
	if c.scope == nil {
		return ""
	}
	sess, ok := c.scope.Get()
	if !ok {
		return ""
	}
	return sess.TenantID
}

// Load busca a coleção completa do tenant corrente. Qualquer falha de transporte
// ou de formato troca a coleção pelos dados de exemplo e devolve um aviso; Load
// nunca falha.
func (c *Controller[T]) Load(ctx context.Context) LoadResult {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return LoadResult{Stale: true}
	}
	c.gen++
	gen, tenant := c.gen, c.tenant()
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen || tenant != c.tenant() {
		c.log.Debug("resposta obsoleta descartada", zap.Uint64("gen", gen))
		c.metrics.Stale(c.desc.Name)
		return LoadResult{Stale: true}
	}

	c.unconfirmed = map[int64]string{}
	if err != nil {
		c.log.Warn("falha ao carregar, usando dados de exemplo", zap.Error(err))
		c.metrics.FetchFailed(c.desc.Name)
		c.metrics.FellBack(c.desc.Name)
		c.records = c.desc.Samples()
		c.degraded = true
		c.warning = fmt.Sprintf("falha ao carregar %s; usando dados de exemplo", c.desc.Name)
	} else {
		c.records = items
		c.degraded = false
		c.warning = ""
	}
	return LoadResult{Count: len(c.records), Degraded: c.degraded, Warning: c.warning}
}

func (c *Controller[T]) fetch(ctx context.Context) ([]T, error) {
	if c.desc.Paged {
		var page models.Page[T]
		if err := c.client.Do(ctx, http.MethodGet, c.desc.ListPath, nil, &page); err != nil {
			return nil, err
		}
		if page.Content == nil {
			return nil, fmt.Errorf("%w: content ausente", transport.ErrShape)
		}
		return page.Content, nil
	}
	var items []T
	if err := c.client.Do(ctx, http.MethodGet, c.desc.ListPath, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("%w: lista ausente", transport.ErrShape)
	}
	return items, nil
}

// Records retorna uma cópia da coleção carregada.
func (c *Controller[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Status retorna o estado da última carga.
func (c *Controller[T]) Status() LoadResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return LoadResult{Count: len(c.records), Degraded: c.degraded, Warning: c.warning}
}

// Close encerra o controller; cargas em andamento serão descartadas.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
}

// Unconfirmed lista as mutações locais que o servidor não confirmou desde a última carga.
func (c *Controller[T]) Unconfirmed() map[int64]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int64]string, len(c.unconfirmed))
	for k, v := range c.unconfirmed {
		out[k] = v
	}
	return out
}

// Create adiciona o registro localmente com um id novo e depois o envia ao servidor.
// Se o servidor recusar, a mudança local permanece e o erro é *MutationError.
func (c *Controller[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T
	if c.desc.ItemPath == "" {
		return zero, ErrReadOnly
	}
	if c.desc.Validate != nil {
		if err := c.desc.Validate(input); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	id := nextID(c.records)
	rec := input
	if c.desc.Prepare != nil {
		rec = c.desc.Prepare(rec, c.records, c.now())
	}
	rec = c.desc.WithID(rec, id)
	c.records = append(c.records, rec)
	c.mu.Unlock()

	err := c.client.Do(ctx, http.MethodPost, c.desc.ItemPath, rec, nil)
	return rec, c.settle("create", id, err)
}

// Update mescla input no registro id localmente e envia a alteração.
func (c *Controller[T]) Update(ctx context.Context, id int64, input T) (T, error) {
	var zero T
	if c.desc.ItemPath == "" {
		return zero, ErrReadOnly
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, ErrNotFound
	}
	rec := c.desc.WithID(input, id)
	if c.desc.Merge != nil {
		rec = c.desc.WithID(c.desc.Merge(c.records[i], input), id)
	}
	if c.desc.Validate != nil {
		if err := c.desc.Validate(rec); err != nil {
			c.mu.Unlock()
			return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	c.records[i] = rec
	c.mu.Unlock()

	err := c.client.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.desc.ItemPath, id), rec, nil)
	return rec, c.settle("update", id, err)
}

// Remove retira o registro localmente e pede a remoção ao servidor.
func (c *Controller[T]) Remove(ctx context.Context, id int64) error {
	if c.desc.ItemPath == "" {
		return ErrReadOnly
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	c.records = slices.Delete(c.records, i, i+1)
	c.mu.Unlock()

	err := c.client.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", c.desc.ItemPath, id), nil, nil)
	return c.settle("delete", id, err)
}

// settle registra o resultado remoto de uma mutação. Não há rollback.
func (c *Controller[T]) settle(op string, id int64, err error) error {
	if err == nil {
		c.mu.Lock()
		delete(c.unconfirmed, id)
		c.mu.Unlock()
		return nil
	}
	c.mu.Lock()
	c.unconfirmed[id] = op
	c.mu.Unlock()
	c.log.Warn("mutação não confirmada pelo servidor", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	c.metrics.MutationFailed(c.desc.Name, op)
	return &MutationError{Resource: c.desc.Name, Op: op, ID: id, Err: err}
}

func (c *Controller[T]) indexOf(id int64) int {
	return slices.IndexFunc(c.records, func(r T) bool { return r.RecordID() == id })
}

func nextID[T Record](records []T) int64 {
	var max int64
	for _, r := range records {
		if r.RecordID() > max {
			max = r.RecordID()
		}
	}
	return max + 1
}
