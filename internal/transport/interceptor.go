package transport

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/example/tenant-console/internal/models"
)

// Headers de contexto anexados a toda chamada de saída.
const (
	HeaderAuthorization = "Authorization"
	HeaderTenantID      = "X-Tenant-ID"
	HeaderRequestID     = "X-Request-ID"
)

// SessionSource é o acesso somente-leitura à sessão corrente.
type SessionSource interface {
	Get() (models.Session, bool)
}

// Interceptor decora cada requisição no momento do envio com o contexto de
// identidade e tenant lido da sessão corrente. Sem sessão, a requisição segue
// como está e a rejeição fica a cargo do serviço remoto.
type Interceptor struct {
	Session SessionSource
	Next    http.RoundTripper
}

// NewInterceptor cria o interceptor sobre next (http.DefaultTransport se nil).
func NewInterceptor(src SessionSource, next http.RoundTripper) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Interceptor{Session: src, Next: next}
}

func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip não pode alterar a requisição original.
	out := req.Clone(req.Context())
	Decorate(out, i.Session)
	return i.Next.RoundTrip(out)
}

// Decorate aplica os headers de contexto em req. Headers já definidos pelo
// chamador (ex.: X-Tenant-ID no login) são preservados.
func Decorate(req *http.Request, src SessionSource) {
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if src == nil {
		return
	}
	sess, ok := src.Get()
	if !ok {
		return
	}
	if sess.Token != "" && req.Header.Get(HeaderAuthorization) == "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+sess.Token)
	}
	if sess.TenantID != "" && req.Header.Get(HeaderTenantID) == "" {
		req.Header.Set(HeaderTenantID, sess.TenantID)
	}
}
