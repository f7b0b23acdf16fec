package middleware

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/models"
)

const sessionUserKey = "user"

// SessionUser is the slim identity stored in the cookie session for
// the server-rendered pages. Independent of the bearer-token API.
type SessionUser struct {
	ID   string
	Name string
	Role string
}

func init() {
	gob.Register(SessionUser{})
}

// SaveSessionUser records the logged-in user on the cookie session.
func SaveSessionUser(c *gin.Context, user models.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, SessionUser{
		ID:   user.ID.Hex(),
		Name: user.Name,
		Role: string(user.Role),
	})
	return session.Save()
}

// ClearSession destroys the cookie session.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	return session.Save()
}

// SessionUserFrom returns the session identity, if any.
func SessionUserFrom(c *gin.Context) (SessionUser, bool) {
	value := sessions.Default(c).Get(sessionUserKey)
	user, ok := value.(SessionUser)
	return user, ok
}

// IsAuthenticated guards the server-rendered pages; unauthenticated
// visitors are redirected to the login form.
func IsAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionUserFrom(c); !ok {
			c.Redirect(http.StatusFound, "/api/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsOrganizer restricts a page to session users with the Organizer role.
func IsOrganizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := SessionUserFrom(c)
		if !ok || user.Role != string(models.RoleOrganizer) {
			c.String(http.StatusForbidden, "Forbidden: You do not have organizer privileges.")
			c.Abort()
			return
		}
		c.Next()
	}
}
