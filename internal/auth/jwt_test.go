package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	token, err := verifier.IssueToken("admin", time.Minute)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		sub, ok := verifier.ValidateToken("Bearer " + token)
		assert.True(t, ok)
		assert.Equal(t, "admin", sub)
	})

	t.Run("bare token without prefix", func(t *testing.T) {
		sub, ok := verifier.ValidateToken(token)
		assert.True(t, ok)
		assert.Equal(t, "admin", sub)
	})

	t.Run("empty header", func(t *testing.T) {
		_, ok := verifier.ValidateToken("")
		assert.False(t, ok)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, ok := verifier.ValidateToken("Bearer not-a-jwt")
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTVerifier("other-secret")
		_, ok := other.ValidateToken("Bearer " + token)
		assert.False(t, ok)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := verifier.IssueToken("admin", -time.Minute)
		require.NoError(t, err)
		_, ok := verifier.ValidateToken("Bearer " + expired)
		assert.False(t, ok)
	})

	t.Run("missing sub claim", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Minute).Unix(),
		})
		signed, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, ok := verifier.ValidateToken("Bearer " + signed)
		assert.False(t, ok)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := NewJWTVerifier("test-secret")

	router := gin.New()
	router.POST("/admin", Middleware(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})

	t.Run("authorized", func(t *testing.T) {
		token, err := verifier.IssueToken("admin", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
