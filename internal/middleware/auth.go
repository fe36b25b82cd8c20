package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/response"
)

const actorKey = "actor"

type AuthMiddleware struct {
	tokens *service.TokenManager
}

func NewAuthMiddleware(tokens *service.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// extractToken checks the Authorization header first, then the auth
// cookie, then the "token" query parameter. The query form exists for
// websocket clients that cannot set headers.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	return c.Query("token")
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, fmt.Errorf("%w: authorization required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		actor, err := m.tokens.Verify(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth attaches an actor when a valid token is present and
// continues anonymously otherwise. Malformed tokens are ignored here
// rather than rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if actor, err := m.tokens.Verify(tokenString); err == nil {
				c.Set(actorKey, actor)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			response.Error(c, fmt.Errorf("%w: authorization required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, fmt.Errorf("%w: insufficient role", apperror.ErrForbidden))
		c.Abort()
	}
}

// CurrentActor returns the authenticated actor, or nil on anonymous
// requests.
func CurrentActor(c *gin.Context) *model.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*model.Actor)
	if !ok {
		return nil
	}
	return actor
}
