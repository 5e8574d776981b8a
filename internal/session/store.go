package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/models"
)

// Chaves persistidas. As três primeiras precisam existir para reconstruir a
// sessão; KeyExpiresAt é opcional.
const (
	KeyToken     = "token"
	KeyTenantID  = "tenantId"
	KeyUser      = "user"
	KeyExpiresAt = "expiresAt"
)

// ErrIncomplete indica uma sessão sem token, tenant ou identidade.
var ErrIncomplete = errors.New("sessão incompleta")

// Sealer protege o token em repouso.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// Store é a célula de sessão do console: um único escritor (login/logout), muitos leitores.
type Store struct {
	mu      sync.RWMutex
	current models.Session
	present bool

	storage Storage
	sealer  Sealer
	log     *zap.Logger
}

type Option func(*Store)

// WithSealer cifra o token antes de persistir.
func WithSealer(s Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(st *Store) { st.log = l }
}

func NewStore(storage Storage, opts ...Option) *Store {
	st := &Store{storage: storage, log: zap.NewNop()}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Get retorna a sessão corrente, se houver.
func (s *Store) Get() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// Set persiste e publica a sessão. Se a persistência falhar, o estado em memória não muda.
func (s *Store) Set(sess models.Session) error {
	if !sess.Valid() {
		return ErrIncomplete
	}
	if sess.ExpiresAt.IsZero() {
		if exp, ok := TokenExpiry(sess.Token); ok {
			sess.ExpiresAt = exp
		}
	}

	user, err := json.Marshal(sess.Identity)
	if err != nil {
		return fmt.Errorf("erro ao serializar usuário: %w", err)
	}
	token := sess.Token
	if s.sealer != nil {
		if token, err = s.sealer.Seal(token); err != nil {
			return fmt.Errorf("erro ao cifrar token: %w", err)
		}
	}

	expiresAt := ""
	if !sess.ExpiresAt.IsZero() {
		expiresAt = sess.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.storage.Save(map[string]string{
		KeyToken:     token,
		KeyTenantID:  sess.TenantID,
		KeyUser:      string(user),
		KeyExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("erro ao persistir sessão: %w", err)
	}
	s.current, s.present = sess, true
	s.log.Debug("sessão definida", zap.String("tenant", sess.TenantID), zap.String("user", sess.Identity.Username))
	return nil
}

// Clear descarta a sessão no armazenamento e depois em memória. Se a remoção
// falhar a sessão continua ativa, para não reaparecer no próximo Hydrate.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(KeyToken, KeyTenantID, KeyUser, KeyExpiresAt); err != nil {
		return fmt.Errorf("erro ao remover sessão persistida: %w", err)
	}
	s.current, s.present = models.Session{}, false
	return nil
}

// Hydrate reconstrói a sessão a partir do armazenamento. Qualquer chave ausente
// ou ilegível resulta em sessão ausente, nunca em sessão parcial.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.present = models.Session{}, false

	values, err := s.storage.Load(KeyToken, KeyTenantID, KeyUser, KeyExpiresAt)
	if err != nil {
		return fmt.Errorf("erro ao ler sessão persistida: %w", err)
	}
	token, tenantID, rawUser := values[KeyToken], values[KeyTenantID], values[KeyUser]
	if token == "" || tenantID == "" || rawUser == "" {
		return nil
	}

	if s.sealer != nil {
		if token, err = s.sealer.Open(token); err != nil {
			s.log.Warn("token persistido ilegível, sessão ignorada", zap.Error(err))
			return nil
		}
	}
	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn("usuário persistido ilegível, sessão ignorada", zap.Error(err))
		return nil
	}

	sess := models.Session{Identity: user, TenantID: tenantID, Token: token}
	if !sess.Valid() {
		return nil
	}
	if raw := values[KeyExpiresAt]; raw != "" {
		exp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.log.Warn("expiração persistida ilegível, sessão ignorada", zap.Error(err))
			return nil
		}
		sess.ExpiresAt = exp
	} else if exp, ok := TokenExpiry(token); ok {
		sess.ExpiresAt = exp
	}
	s.current, s.present = sess, true
	return nil
}
