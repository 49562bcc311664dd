package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
	"github.com/duynhne/workshop-console/internal/logger"
	"github.com/duynhne/workshop-console/middleware"
)

// RequireGuard evaluates guards against the session at the moment the request
// arrives. A denied request is redirected and never reaches the view.
func RequireGuard(session *logicv1.SessionState, guards ...logicv1.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := logicv1.Navigation{URL: c.Request.URL.RequestURI()}
		d := logicv1.Evaluate(session.Snapshot(), nav, guards...)
		if d.Guard != "" {
			middleware.ObserveGuardDecision(d.Guard, d.Allowed)
		}
		if d.Allowed {
			c.Next()
			return
		}

		logger.FromContext(c.Request.Context()).Debug().
			Str("guard", d.Guard).
			Str("url", nav.URL).
			Str("redirect", d.Redirect).
			Msg("Navigation denied")
		c.Redirect(http.StatusFound, d.Redirect)
		c.Abort()
	}
}
