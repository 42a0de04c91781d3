package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "field-agent-signing-secret"

func signAgentToken(t *testing.T, secret string, agentID string, expiresAt time.Time) string {
	t.Helper()
	claims := AgentClaims{
		AgentID: agentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAgentAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() (*gin.Engine, *uuid.UUID) {
		router := gin.New()
		router.Use(AgentAuth(testSecret))
		var captured uuid.UUID
		router.GET("/test", func(c *gin.Context) {
			captured = GetAgentID(c)
			c.Status(http.StatusOK)
		})
		return router, &captured
	}

	t.Run("ValidTokenSetsAgentID", func(t *testing.T) {
		router, captured := newRouter()
		agentID := uuid.New()
		token := signAgentToken(t, testSecret, agentID.String(), time.Now().Add(time.Hour))

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, agentID, *captured)
	})

	t.Run("MissingAuthorizationHeader", func(t *testing.T) {
		router, _ := newRouter()

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing or malformed Authorization header")
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		router, _ := newRouter()

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		router, _ := newRouter()
		token := signAgentToken(t, "some-other-secret", uuid.New().String(), time.Now().Add(time.Hour))

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid or expired token")
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		router, _ := newRouter()
		token := signAgentToken(t, testSecret, uuid.New().String(), time.Now().Add(-time.Hour))

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("UnexpectedSigningMethod", func(t *testing.T) {
		router, _ := newRouter()
		// alg=none tokens must never pass HMAC verification
		token := jwt.NewWithClaims(jwt.SigningMethodNone, AgentClaims{AgentID: uuid.New().String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("TokenWithoutAgentID", func(t *testing.T) {
		router, _ := newRouter()
		token := signAgentToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour))

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Token carries no valid agent identity")
	})
}

func TestGetAgentID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnsAgentIDFromContext", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		agentID := uuid.New()
		c.Set(AgentIDKey, agentID)

		assert.Equal(t, agentID, GetAgentID(c))
	})

	t.Run("ReturnsNilUUIDWhenAbsent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Equal(t, uuid.Nil, GetAgentID(c))
	})

	t.Run("ReturnsNilUUIDWhenWrongType", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(AgentIDKey, "not-a-uuid-type")
		assert.Equal(t, uuid.Nil, GetAgentID(c))
	})
}
