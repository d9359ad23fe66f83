package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erensevin/recipe-api/config"
	"github.com/erensevin/recipe-api/models"
)

// AuthUserKey is the gin context key holding the authenticated username.
const AuthUserKey = "auth_user"

// Auth returns HTTP Basic authentication middleware checking the supplied
// credentials against cfg.
//
// Responses:
//
//	500 {"detail": "Authentication not configured properly"}  either value in cfg is empty
//	401 {"detail": "Invalid credentials"}                     missing or mismatched credentials
//
// The configuration is checked first, so an unconfigured server rejects
// every request with 500 whatever the client sends.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Configured() {
			slog.Error("basic auth requested but AUTH_USERNAME or AUTH_PASSWORD is unset",
				"request_id", c.GetString(RequestIDKey))
			_ = c.Error(models.NewScrapeError(models.ErrCodeServerMisconfigured, "auth credentials not configured", nil))
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.DetailResponse{
				Detail: "Authentication not configured properly",
			})
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !credentialsMatch(user, pass, cfg) {
			_ = c.Error(models.NewScrapeError(models.ErrCodeUnauthorized, "invalid basic auth credentials", nil))
			c.Header("WWW-Authenticate", "Basic")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.DetailResponse{
				Detail: "Invalid credentials",
			})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// credentialsMatch compares both values without short-circuiting.
func credentialsMatch(user, pass string, cfg config.AuthConfig) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password))
	return userOK&passOK == 1
}
