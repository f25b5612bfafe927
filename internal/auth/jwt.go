package auth

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens presented on admin endpoints.
type TokenVerifier interface {
	ValidateToken(authHeader string) (string, bool)
}

// JWTVerifier validates HS256-signed admin tokens.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// ValidateToken checks the Authorization header and returns the token
// subject when the signature and claims are valid.
func (v *JWTVerifier) ValidateToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}

	sub, err := v.subjectFromToken(authHeader)
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		return "", false
	}

	return sub, true
}

func (v *JWTVerifier) subjectFromToken(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("no sub claim in token")
	}

	return sub, nil
}

// IssueToken signs a short-lived admin token for the given subject. Used by
// the token CLI and by tests.
func (v *JWTVerifier) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(v.secret)
}

// Middleware is a gin middleware that rejects requests without a valid
// admin token. The verified subject is stored in the gin context.
func Middleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := verifier.ValidateToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set("subject", subject)
		c.Next()
	}
}
