package middleware

import (
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowedHosts rejects requests whose Host header is not in the
// ALLOWED_HOSTS env list (comma-separated). An empty list or a "*" entry
// disables the check, which is the development default.
func AllowedHosts() gin.HandlerFunc {
	raw := os.Getenv("ALLOWED_HOSTS")

	allowed := map[string]bool{}
	wildcard := raw == ""
	for _, h := range strings.Split(raw, ",") {
		h = strings.TrimSpace(h)
		if h == "*" {
			wildcard = true
		} else if h != "" {
			allowed[strings.ToLower(h)] = true
		}
	}

	return func(c *gin.Context) {
		if wildcard {
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		if !allowed[strings.ToLower(host)] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid host header"})
			c.Abort()
			return
		}
		c.Next()
	}
}
