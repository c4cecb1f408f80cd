package auth

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		formAction := "'self'"
		if host := c.Request.Host; host != "" {
			// 'self' can fail behind proxies like cloudflared
			formAction = "'self' https://" + host
		}

		// Thumbnails may point at any http(s) host; the thumbnail route
		// redirects there when the image is not cached
		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https: http:; "+
				"connect-src 'self'; "+
				"frame-ancestors 'self'; "+
				"form-action "+formAction)

		c.Next()
	}
}
