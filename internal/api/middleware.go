package api

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/service"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextSubjectKey   = "subject"
	ContextRequestIDKey = "requestID"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// AuthMiddleware creates a Gin middleware for bearer token authentication.
func AuthMiddleware(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := tokens.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				abortWithError(c, http.StatusUnauthorized, err.Error())
			}
			return
		}
		if claims.Subject == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)
		c.Next()
	}
}

// RequestIDMiddleware echoes the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Helper to return an envelope error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	log.Printf("WARN: %s %s rejected (%d): %s [%s]", c.Request.Method, c.Request.URL.Path, code, message, c.GetString(ContextRequestIDKey))
	c.AbortWithStatusJSON(code, bridge.Failed(bridge.KindUnauthorized, message))
}
