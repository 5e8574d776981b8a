package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/tenant-console/internal/auth"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/resources"
	"github.com/example/tenant-console/internal/topology"
)

// =================================================================================
// AUTHENTICATION HANDLERS
// =================================================================================

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenantId" binding:"required"`
}

type sessionResponse struct {
	User     models.User `json:"user"`
	TenantID string      `json:"tenantId"`
}

func loginFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"fields": []string{"username", "password", "tenantId"}})
	}
}

func loginHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
			return
		}

		sess, err := s.auth.Login(c.Request.Context(), req.Username, req.Password, req.TenantID)
		if err != nil {
			authError(c, err)
			return
		}
		s.invalidate()
		c.JSON(http.StatusOK, sessionResponse{User: sess.Identity, TenantID: sess.TenantID})
	}
}

func registerFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"fields":            []string{"organizationName", "subdomain", "firstName", "lastName", "email", "password", "confirmPassword", "phone", "timezone", "locale"},
			"minPasswordLength": auth.MinPasswordLength,
		})
	}
}

func registerHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
			return
		}

		sess, err := s.auth.Register(c.Request.Context(), req)
		if err != nil {
			authError(c, err)
			return
		}
		s.invalidate()
		c.JSON(http.StatusCreated, sessionResponse{User: sess.Identity, TenantID: sess.TenantID})
	}
}

func logoutHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.auth.Logout(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao encerrar sessão"})
			return
		}
		s.invalidate()
		c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
	}
}

func whoamiHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessVal, _ := c.Get("session")
		sess := sessVal.(models.Session)
		c.JSON(http.StatusOK, gin.H{
			"user":      sess.Identity,
			"tenantId":  sess.TenantID,
			"expiresAt": sess.ExpiresAt,
		})
	}
}

// authError traduz o tipo da falha em status HTTP.
func authError(c *gin.Context, err error) {
	var fail *auth.Failure
	if !errors.As(err, &fail) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch fail.Kind {
	case auth.KindValidation:
		status = http.StatusBadRequest
	case auth.KindInvalidCredentials:
		status = http.StatusUnauthorized
	case auth.KindRejected:
		status = http.StatusConflict
	case auth.KindUnreachable, auth.KindMalformedResponse:
		status = http.StatusBadGateway
	case auth.KindAccountCreatedLoginFailed:
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"error": fail.Message, "kind": fail.Kind.String(), "field": fail.Field})
}

// =================================================================================
// DASHBOARD & TENANT HANDLERS
// =================================================================================

func dashboardHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.dashboard.Summarize(c.Request.Context()))
	}
}

func tenantHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, res := s.tenant.Load(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"tenant": tenant, "degraded": res.Degraded, "warning": res.Warning})
	}
}

// topologyHandler usa as mesmas coleções das telas de clusters e tópicos.
func topologyHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		refresh := c.Query("refresh") == "true"
		cr := s.clusters.ensure(c.Request.Context(), refresh)
		tr := s.topics.ensure(c.Request.Context(), refresh)
		if cr.Stale || tr.Stale {
			c.JSON(http.StatusConflict, gin.H{"error": "sessão alterada durante a carga; tente novamente"})
			return
		}
		sess, _ := s.sessions.Get()
		g := topology.Build(sess.TenantID, s.clusters.ctl.Records(), s.topics.ctl.Records(), c.Query("cluster"))
		c.JSON(http.StatusOK, gin.H{"graph": g, "degraded": cr.Degraded || tr.Degraded})
	}
}

// =================================================================================
// RESOURCE HANDLERS
// =================================================================================

type listResponse[T record] struct {
	Items       []T                 `json:"items"`
	Total       int                 `json:"total"`
	Degraded    bool                `json:"degraded"`
	Warning     string              `json:"warning,omitempty"`
	Facets      map[string][]string `json:"facets"`
	Unconfirmed map[int64]string    `json:"unconfirmed,omitempty"`
}

// filterFrom lê q e as facetas do recurso da query string.
func filterFrom[T record](c *gin.Context, v *view[T]) resources.FilterState {
	f := resources.FilterState{Search: c.Query("q"), Facets: map[string]string{}}
	for _, name := range v.ctl.FacetNames() {
		if val := c.Query(name); val != "" {
			f.Facets[name] = val
		}
	}
	return f
}

func listHandler[T record](v *view[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := v.ensure(c.Request.Context(), c.Query("refresh") == "true")
		if res.Stale {
			c.JSON(http.StatusConflict, gin.H{"error": "sessão alterada durante a carga; tente novamente"})
			return
		}

		facets := map[string][]string{}
		for _, name := range v.ctl.FacetNames() {
			facets[name] = v.ctl.FacetValues(name)
		}
		c.JSON(http.StatusOK, listResponse[T]{
			Items:       v.ctl.Apply(filterFrom(c, v)),
			Total:       res.Count,
			Degraded:    res.Degraded,
			Warning:     res.Warning,
			Facets:      facets,
			Unconfirmed: v.ctl.Unconfirmed(),
		})
	}
}

// Headers do export CSV, que não tem corpo JSON para levar o aviso.
const (
	HeaderDegraded = "X-Console-Degraded"
	HeaderWarning  = "X-Console-Warning"
)

func exportHandler[T record](v *view[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := v.ensure(c.Request.Context(), false)
		if res.Stale {
			c.JSON(http.StatusConflict, gin.H{"error": "sessão alterada durante a carga; tente novamente"})
			return
		}
		if res.Degraded {
			c.Header(HeaderDegraded, "true")
		}
		if res.Warning != "" {
			c.Header(HeaderWarning, res.Warning)
		}
		out, err := v.ctl.Export(v.ctl.Apply(filterFrom(c, v)), resources.ExportOptions{Raw: c.Query("raw") == "true"})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao exportar"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=kafka-%s.csv", v.ctl.Name()))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	}
}

func createHandler[T record](v *view[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
			return
		}
		v.ensure(c.Request.Context(), false)
		rec, err := v.ctl.Create(c.Request.Context(), in)
		mutationResponse(c, http.StatusCreated, rec, err)
	}
}

func updateHandler[T record](v *view[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
			return
		}
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
			return
		}
		v.ensure(c.Request.Context(), false)
		rec, err := v.ctl.Update(c.Request.Context(), id, in)
		mutationResponse(c, http.StatusOK, rec, err)
	}
}

func deleteHandler[T record](v *view[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
			return
		}
		v.ensure(c.Request.Context(), false)
		err = v.ctl.Remove(c.Request.Context(), id)
		if err == nil {
			c.Status(http.StatusNoContent)
			return
		}
		mutationResponse[any](c, http.StatusNoContent, nil, err)
	}
}

// mutationResponse: falha remota responde 202 com o registro local e o aviso,
// pois a mudança otimista continua aplicada.
func mutationResponse[R any](c *gin.Context, okStatus int, rec R, err error) {
	var merr *resources.MutationError
	switch {
	case err == nil:
		c.JSON(okStatus, rec)
	case errors.As(err, &merr):
		c.JSON(http.StatusAccepted, gin.H{"item": rec, "warning": merr.Error(), "unconfirmed": true})
	case errors.Is(err, resources.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, resources.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, resources.ErrReadOnly):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case errors.Is(err, resources.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
