package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solterra-dev/solterra/api/internal/config"
)

// AdminAuth guards the admin API with HTTP Basic authentication.
// Credentials come from configuration; comparison is constant-time so the
// check does not leak credential length or prefix.
func AdminAuth(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Refuse everything if credentials were never configured rather
		// than leaving the admin surface open.
		if cfg.User == "" || cfg.Password == "" {
			unauthorized(c)
			return
		}

		user, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c)
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.User)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
		if !userMatch || !passMatch {
			if log := GetLogger(c); log != nil {
				log.Warn("Admin authentication failed", map[string]interface{}{
					"ip":   c.ClientIP(),
					"path": c.Request.URL.Path,
				})
			}
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="Secure Admin Area"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Authentication required",
		},
	})
}
