package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"obotcall/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	authContextKey = "auth_context"
	adminBypassKey = "admin_bypass"
)

// authMiddleware runs the front of the guard chain: bearer extraction,
// identity verification, directory resolution, subscription check. A failure
// at any step aborts the request; later guards never run.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.adminAPIKey != "" {
			if key := strings.TrimSpace(c.GetHeader("X-Admin-Key")); key != "" {
				if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) == 1 {
					c.Set(adminBypassKey, true)
					c.Next()
					return
				}
				writeErrorCode(c, http.StatusUnauthorized, codeUnauthenticated, "invalid admin key")
				return
			}
		}
		if s.authInitErr != nil || s.verifier == nil || s.resolver == nil {
			writeErrorCode(c, http.StatusInternalServerError, codeInternal, "auth configuration error")
			return
		}

		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeErrorCode(c, http.StatusUnauthorized, codeUnauthenticated, "missing token")
			return
		}
		subject, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			writeErrorCode(c, http.StatusUnauthorized, codeUnauthenticated, "invalid token")
			return
		}
		actx, err := s.resolver.Resolve(c.Request.Context(), subject)
		if err != nil {
			writeGuardError(c, err)
			return
		}
		c.Set(authContextKey, actx)
		c.Next()
	}
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}

func authContextFrom(c *gin.Context) (domain.AuthContext, bool) {
	raw, ok := c.Get(authContextKey)
	if !ok {
		return domain.AuthContext{}, false
	}
	actx, ok := raw.(domain.AuthContext)
	return actx, ok
}

func isAdminRequest(c *gin.Context) bool {
	return c.GetBool(adminBypassKey)
}

// mustAuthContext fetches the resolved context for handlers that act on the
// caller's tenant. The admin key carries no tenant, so it cannot reach these.
func mustAuthContext(c *gin.Context) (domain.AuthContext, bool) {
	actx, ok := authContextFrom(c)
	if !ok {
		writeErrorCode(c, http.StatusForbidden, codeForbidden, "tenant context required")
		return domain.AuthContext{}, false
	}
	return actx, true
}
