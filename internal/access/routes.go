package access

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/tenant-console/internal/transport"
)

// Pontos de entrada fixos.
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// Region é a classificação de uma rota navegável.
type Region int

const (
	Protected Region = iota
	Public
)

var publicPaths = map[string]struct{}{
	"/login":    {},
	"/register": {},
}

// RegionOf classifica o caminho. Tudo que não é público é protegido.
func RegionOf(path string) Region {
	p := strings.TrimRight(path, "/")
	if _, ok := publicPaths[p]; ok {
		return Public
	}
	return Protected
}

// Decision é o resultado de Decide: seguir ou redirecionar.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide é função pura da presença de sessão; é reavaliada a cada navegação.
func Decide(path string, hasSession bool) Decision {
	switch RegionOf(path) {
	case Public:
		if hasSession {
			return Decision{RedirectTo: LandingPath}
		}
		return Decision{Allow: true}
	default:
		if !hasSession {
			return Decision{RedirectTo: LoginPath}
		}
		if path == "/" || path == "" {
			return Decision{RedirectTo: LandingPath}
		}
		return Decision{Allow: true}
	}
}

// Middleware aplica Decide a cada requisição. Sessão expirada conta como ausente.
func Middleware(src transport.SessionSource) gin.HandlerFunc {
	return MiddlewareAt(src, time.Now)
}

// MiddlewareAt é Middleware com relógio injetável.
func MiddlewareAt(src transport.SessionSource, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := src.Get()
		active := ok && !sess.Expired(now())
		d := Decide(c.Request.URL.Path, active)
		if !d.Allow {
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()
			return
		}
		if active {
			c.Set("session", sess)
		}
		c.Next()
	}
}
