package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestSizeLimitMiddleware limits the size of request bodies to prevent memory exhaustion
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// RequestIDMiddleware tags every request with an ID, reusing the caller's
// X-Request-ID header when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// CORSMiddleware allows cross-origin requests from the given origins.
// A "*" entry allows every origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}

	return cors.New(corsConfig)
}

// RecoveryMiddleware turns a panic in any handler into a 500 response
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Error: recovered from panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
			"Failed to process the request", fmt.Sprint(recovered))
		c.Abort()
	})
}
