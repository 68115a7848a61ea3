package middleware

import "github.com/gin-gonic/gin"

// NoStore keeps browsers and proxies from caching responses. Report cards and
// marks carry personal data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
