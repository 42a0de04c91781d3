package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AgentIDKey is the key used to store the authenticated agent ID in the context
	AgentIDKey = "agent_id"
)

// AgentClaims carries the agent identity of a signed token
type AgentClaims struct {
	AgentID string `json:"agent_id"`
	jwt.RegisteredClaims
}

// AgentAuth middleware verifies the Bearer token and stores the agent ID
// in the context. Requests without a valid HS256 token are rejected.
func AgentAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing or malformed Authorization header",
			}})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &AgentClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			}})
			return
		}

		agentID, err := uuid.Parse(claims.AgentID)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Token carries no valid agent identity",
			}})
			return
		}

		c.Set(AgentIDKey, agentID)
		c.Next()
	}
}

// GetAgentID retrieves the authenticated agent ID from the gin context if present
func GetAgentID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(AgentIDKey); exists {
		if agentID, ok := id.(uuid.UUID); ok {
			return agentID
		}
	}
	return uuid.Nil
}
