package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/session"
	"github.com/example/tenant-console/internal/transport"
)

// Gateway executa as trocas de login e cadastro e é, junto com Logout, o único
// escritor do session.Store.
type Gateway struct {
	client *transport.Client
	store  *session.Store
	log    *zap.Logger
	now    func() time.Time
}

func NewGateway(client *transport.Client, store *session.Store, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{client: client, store: store, log: log, now: time.Now}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenantId"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        models.User `json:"user"`
	TenantID    string      `json:"tenantId"`
}

// Login autentica no tenant informado e grava a sessão. Em qualquer falha o
// store não é alterado. Não há retentativa.
func (g *Gateway) Login(ctx context.Context, username, password, tenantID string) (models.Session, error) {
	switch {
	case username == "":
		return models.Session{}, validation("username", "usuário é obrigatório")
	case password == "":
		return models.Session{}, validation("password", "senha é obrigatória")
	case tenantID == "":
		return models.Session{}, validation("tenantId", "tenant é obrigatório")
	}

	headers := http.Header{}
	headers.Set(transport.HeaderTenantID, tenantID)
	var resp loginResponse
	err := g.client.DoWithHeaders(ctx, http.MethodPost, "/auth/login", headers,
		loginRequest{Username: username, Password: password, TenantID: tenantID}, &resp)
	if err != nil {
		f := classify(err, "falha no login")
		g.log.Warn("login falhou", zap.String("tenant", tenantID), zap.Stringer("kind", f.Kind), zap.Error(err))
		return models.Session{}, f
	}
	if resp.AccessToken == "" || resp.User.Username == "" {
		return models.Session{}, &Failure{Kind: KindMalformedResponse, Message: "resposta de login sem token ou usuário"}
	}

	sess := models.Session{Identity: resp.User, TenantID: tenantID, Token: resp.AccessToken}
	if exp, ok := session.TokenExpiry(resp.AccessToken); ok {
		sess.ExpiresAt = exp
	} else if resp.ExpiresIn > 0 {
		sess.ExpiresAt = g.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if err := g.store.Set(sess); err != nil {
		return models.Session{}, &Failure{Kind: KindStorage, Message: "erro ao gravar sessão", Err: err}
	}
	g.log.Info("login efetuado", zap.String("tenant", tenantID), zap.String("user", sess.Identity.Username))
	return sess, nil
}

// Register valida localmente, cadastra a organização e faz login com o e-mail
// do administrador no subdomínio escolhido. Se o login seguinte falhar, o
// resultado é KindAccountCreatedLoginFailed: a conta já existe no servidor.
func (g *Gateway) Register(ctx context.Context, req RegisterRequest) (models.Session, error) {
	if err := req.Validate(); err != nil {
		return models.Session{}, err
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if req.Locale == "" {
		req.Locale = "en_US"
	}

	headers := http.Header{}
	headers.Set(transport.HeaderTenantID, req.Subdomain)
	if err := g.client.DoWithHeaders(ctx, http.MethodPost, "/auth/register", headers, req, nil); err != nil {
		f := classify(err, "falha no cadastro")
		if f.Kind == KindInvalidCredentials {
			f.Kind, f.Message = KindRejected, "cadastro recusado"
		}
		g.log.Warn("cadastro falhou", zap.String("subdomain", req.Subdomain), zap.Error(err))
		return models.Session{}, f
	}

	sess, err := g.Login(ctx, req.Email, req.Password, req.Subdomain)
	if err != nil {
		return models.Session{}, &Failure{
			Kind:    KindAccountCreatedLoginFailed,
			Message: "conta criada, mas o login automático falhou",
			Err:     err,
		}
	}
	return sess, nil
}

// Logout avisa o servidor (melhor esforço) e descarta a sessão local.
func (g *Gateway) Logout(ctx context.Context) error {
	if _, ok := g.store.Get(); ok {
		if err := g.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
			g.log.Debug("logout remoto ignorado", zap.Error(err))
		}
	}
	return g.store.Clear()
}

func classify(err error, msg string) *Failure {
	var se *transport.StatusError
	switch {
	case errors.Is(err, transport.ErrUnreachable):
		return &Failure{Kind: KindUnreachable, Message: "serviço de identidade inacessível", Err: err}
	case errors.Is(err, transport.ErrShape):
		return &Failure{Kind: KindMalformedResponse, Message: "resposta inválida do serviço de identidade", Err: err}
	case errors.Is(err, transport.ErrUnsuccessful):
		return &Failure{Kind: KindInvalidCredentials, Message: "credenciais inválidas", Err: err}
	case errors.As(err, &se):
		switch se.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return &Failure{Kind: KindInvalidCredentials, Message: "credenciais inválidas", Err: err}
		}
		return &Failure{Kind: KindRejected, Message: msg, Err: err}
	}
	return &Failure{Kind: KindRejected, Message: msg, Err: err}
}
