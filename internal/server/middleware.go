package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/guard"
)

// RouteGuard redirects anonymous users away from protected pages and
// authenticated users away from login/registration. Until the session has
// been hydrated it renders the loading page instead of deciding.
func RouteGuard(state guard.State, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Decide(c.Request.URL.Path, state)

		switch decision.Action {
		case guard.Wait:
			c.Header("Retry-After", "1")
			c.HTML(http.StatusServiceUnavailable, "loading", gin.H{"Title": "Carregando", "Refresh": true})
			c.Abort()

		case guard.Redirect:
			log.Debug().
				Str("path", c.Request.URL.Path).
				Str("target", decision.Target).
				Bool("authenticated", state.IsAuthenticated()).
				Msg("Route guard redirect")
			redirect(c, decision.Target)
			c.Abort()

		default:
			c.Next()
		}
	}
}

// redirect uses 302 for safe methods and 303 after form posts
func redirect(c *gin.Context, target string) {
	status := http.StatusFound
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	c.Redirect(status, target)
}
