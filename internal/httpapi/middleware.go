package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devlabhq/devlab/internal/auth"
	"github.com/devlabhq/devlab/internal/member"
)

const memberContextKey = "authenticatedMember"

// requireAuth gates protected routes: extract the access token (cookie
// first, Authorization header as fallback), verify it, resolve the member,
// and attach it to the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := extractAccessToken(c)
		if !ok {
			respondError(c, auth.ErrMissingAccessToken)
			return
		}

		m, err := s.auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(memberContextKey, m)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) (string, bool) {
	if value, err := c.Cookie(accessCookieName); err == nil && value != "" {
		return value, true
	}
	return bearerToken(c.GetHeader("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	tokenStr := value[len(bearer):]
	if tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}

// memberFromContext returns the member attached by requireAuth.
func memberFromContext(c *gin.Context) (*member.Member, bool) {
	v, exists := c.Get(memberContextKey)
	if !exists {
		return nil, false
	}
	m, ok := v.(*member.Member)
	return m, ok
}

// corsMiddleware allows configured origins with credentials and exposes
// the Authorization response header for non-cookie clients.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.cfg.CORS.AllowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
