package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
)

// TenantFromSlug resolves the :slug path param of public routes.
func TenantFromSlug(resolver *tenancy.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := resolver.BySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			httperr.FromError(c, err, "tenant_lookup_failed")
			c.Abort()
			return
		}
		attachTenant(c, t)
		c.Next()
	}
}

// TenantFromClaims resolves the tenant of an authenticated admin request.
// It must run after AuthMiddleware.
func TenantFromClaims(resolver *tenancy.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(ContextTenantID)
		tenantID, isUUID := id.(uuid.UUID)
		if !ok || !isUUID {
			abortUnauthorized(c, "missing_tenant")
			return
		}

		t, err := resolver.ByID(c.Request.Context(), tenantID)
		if err != nil {
			httperr.FromError(c, err, "tenant_lookup_failed")
			c.Abort()
			return
		}
		attachTenant(c, t)
		c.Next()
	}
}

func attachTenant(c *gin.Context, t tenancy.Tenant) {
	c.Request = c.Request.WithContext(tenancy.WithTenant(c.Request.Context(), t))
}

// Tenant returns the tenant resolved for this request.
func Tenant(c *gin.Context) (tenancy.Tenant, bool) {
	return tenancy.FromContext(c.Request.Context())
}
