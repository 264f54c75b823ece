package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS allows the dashboard and the extension surfaces to call the
// API. Origins ending in "*" match by prefix so a configured
// "chrome-extension://*" admits any extension ID.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	exact := make(map[string]struct{}, len(allowedOrigins))
	prefixes := make([]string, 0, len(allowedOrigins))
	allowAny := false
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "*":
			allowAny = true
		case strings.HasSuffix(origin, "*"):
			prefixes = append(prefixes, strings.TrimSuffix(origin, "*"))
		case origin != "":
			exact[origin] = struct{}{}
		}
	}

	originAllowed := func(origin string) bool {
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAny {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if originAllowed(origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization,Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
