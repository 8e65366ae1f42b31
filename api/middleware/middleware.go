package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"

	"github.com/kestrelbank/kestrel/config"
	"github.com/kestrelbank/kestrel/internal/apierror"
)

const (
	// Context keys under which the authenticated caller's credentials are
	// stashed for the handlers.
	UsernameKey = "auth_username"
	SecretKey   = "auth_secret"
)

// RateLimitMiddleware creates a middleware for rate limiting using Tollbooth
func RateLimitMiddleware(conf *config.Configuration) gin.HandlerFunc {
	if conf.RateLimit.RequestsPerSecond == nil || conf.RateLimit.Burst == nil {
		// Rate limiting is disabled
		return func(c *gin.Context) {
			c.Next()
		}
	}

	rps := *conf.RateLimit.RequestsPerSecond
	burst := *conf.RateLimit.Burst
	ttl := time.Duration(*conf.RateLimit.CleanupIntervalSec) * time.Second

	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{
		DefaultExpirationTTL: ttl,
	})
	lmt.SetBurst(burst)
	return func(c *gin.Context) {
		httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request)
		if httpError != nil {
			c.AbortWithStatusJSON(httpError.StatusCode, gin.H{"error": httpError.Message})
			return
		}
		c.Next()
	}
}

// BasicAuthMiddleware extracts the caller's username and secret from a basic
// Authorization header. A missing or malformed header is rejected here;
// whether the credentials actually verify is the service's decision, so the
// secret is passed through untouched.
func BasicAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, secret, ok := decodeBasicAuth(c.GetHeader("Authorization"))
		if !ok {
			apiErr := apierror.NewAPIError(apierror.ErrInvalidAuth, "Invalid authorization header.", nil)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  apiErr,
			})
			return
		}
		c.Set(UsernameKey, username)
		c.Set(SecretKey, secret)
		c.Next()
	}
}

func decodeBasicAuth(header string) (username, secret string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return "", "", false
	}
	username, secret, ok = strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return "", "", false
	}
	return username, secret, true
}
