package http

import (
	"net/http"

	"obotcall/internal/domain"

	"github.com/gin-gonic/gin"
)

// Route-specific gates. Each assumes the auth middleware already attached an
// AuthContext; the admin key bypasses plan and role gates entirely.

func (s *Server) requireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdminRequest(c) {
			c.Next()
			return
		}
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		if err := s.entitlements.RequireFeature(actx, feature); err != nil {
			writeGuardError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) requireQuota(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdminRequest(c) {
			c.Next()
			return
		}
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		if err := s.entitlements.CheckUsage(c.Request.Context(), actx, kind); err != nil {
			writeGuardError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) requireSeats() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdminRequest(c) {
			c.Next()
			return
		}
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		if err := s.entitlements.CheckSeats(actx); err != nil {
			writeGuardError(c, err)
			return
		}
		c.Next()
	}
}

// requirePermission checks the caller's tenant role against a named
// permission through the policy engine. Engine errors fail closed.
func (s *Server) requirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdminRequest(c) {
			c.Next()
			return
		}
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		if s.roles == nil {
			writeErrorCode(c, http.StatusInternalServerError, codeInternal, "policy engine unavailable")
			return
		}
		allowed, err := s.roles.Allow(c.Request.Context(), actx.User.Role, permission)
		if err != nil || !allowed {
			writeErrorCode(c, http.StatusForbidden, codeForbidden, "role does not permit this operation")
			return
		}
		c.Next()
	}
}
