package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

type ActorResolver interface {
	Actor(token string) (string, error)
}

// Actor attaches the user named by a valid bearer token. Requests without a
// token, or with an invalid one, pass through anonymously.
func Actor(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}
		if name, err := resolver.Actor(strings.TrimSpace(parts[1])); err == nil {
			c.Set(actorKey, name)
		}
		c.Next()
	}
}

// ActorName returns the signed-in user's name, or "" when anonymous.
func ActorName(c *gin.Context) string {
	return c.GetString(actorKey)
}
