package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims que o console lê do access token. A assinatura não é verificada aqui:
// quem valida o token é o serviço remoto.
type Claims struct {
	TenantID string `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

// TokenExpiry extrai o exp de um JWT. ok=false para tokens opacos ou sem exp.
func TokenExpiry(token string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
