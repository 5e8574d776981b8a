package access

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/tenant-console/internal/models"
)

// Conjuntos de papéis usados pelas rotas de escrita.
var (
	Administrators = []models.Role{models.RoleAdmin, models.RoleTenantAdmin}
	Writers        = []models.Role{models.RoleAdmin, models.RoleTenantAdmin, models.RoleUser}
)

// HasAnyRole informa se a identidade possui algum dos papéis.
// A flag tenantAdmin vale como TENANT_ADMIN.
func HasAnyRole(u models.User, allowed ...models.Role) bool {
	for _, r := range allowed {
		if u.Roles.Has(r) {
			return true
		}
		if r == models.RoleTenantAdmin && u.TenantAdmin {
			return true
		}
	}
	return false
}

// RequireRole garante que a sessão possui um dos papéis esperados.
// Deve vir depois de Middleware, que coloca a sessão no contexto.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get("session")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "sem contexto de sessão"})
			return
		}
		sess, ok := val.(models.Session)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "sessão inválida"})
			return
		}
		if !HasAnyRole(sess.Identity, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso negado"})
			return
		}
		c.Next()
	}
}
