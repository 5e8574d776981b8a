package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/tenant-console/internal/access"
	"github.com/example/tenant-console/internal/models"
)

// RegisterRoutes registra as rotas do console local.
// /healthz e /metrics ficam fora do controle de acesso.
func RegisterRoutes(r *gin.Engine, s *Server, gatherer prometheus.Gatherer) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	ui := r.Group("/")
	ui.Use(access.Middleware(s.sessions))
	{
		ui.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, access.LandingPath) })

		// Públicas
		ui.GET("/login", loginFormHandler())
		ui.POST("/login", loginHandler(s))
		ui.GET("/register", registerFormHandler())
		ui.POST("/register", registerHandler(s))

		// Protegidas
		ui.POST("/logout", logoutHandler(s))
		ui.GET("/whoami", whoamiHandler())
		ui.GET("/dashboard", dashboardHandler(s))
		ui.GET("/tenants", tenantHandler(s))
	}

	ui.GET("/kafka/topology", topologyHandler(s))

	// Escrita: VIEWER só lê; gestão de usuários é dos administradores.
	clusters := ui.Group("/kafka/clusters")
	registerResource(clusters, s.clusters, access.Writers)
	topics := ui.Group("/kafka/topics")
	registerResource(topics, s.topics, access.Writers)
	users := ui.Group("/users")
	registerResource(users, s.users, access.Administrators)
	audit := ui.Group("/kafka/audit-logs")
	registerResource(audit, s.auditLogs, nil)
}

func registerResource[T record](g *gin.RouterGroup, v *view[T], writers []models.Role) {
	g.GET("", listHandler(v))
	g.GET("/export", exportHandler(v))
	if v.readOnly {
		return
	}
	w := g.Group("", access.RequireRole(writers...))
	w.POST("", createHandler(v))
	w.PUT("/:id", updateHandler(v))
	w.DELETE("/:id", deleteHandler(v))
}
