package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cookieName = "clinic_session"

	ctxSessionID = "session_id"
	ctxUserID    = "current_user_id"
)

// Middleware guarantees every request carries a session id, issuing the
// cookie on first contact.
func Middleware(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(cookieName, sid, maxAge, "/", "", false, true)
		}
		c.Set(ctxSessionID, sid)
		c.Next()
	}
}

// ID returns the request's session id. Middleware must have run.
func ID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// RequireUser aborts with a redirect to the login page unless the session
// belongs to an authenticated user.
func RequireUser(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ID(c)

		userID, ok, err := store.Get(c.Request.Context(), sid, FieldUserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}
		if !ok || userID == "" {
			_ = store.Flash(c.Request.Context(), sid, FlashError, "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
