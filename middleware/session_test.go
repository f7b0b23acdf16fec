package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventease/eventease-api/models"
)

func sessionEngine() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-session-secret"))
	r.Use(sessions.Sessions("test_session", store))

	r.GET("/login-as-organizer", func(c *gin.Context) {
		user := models.User{ID: primitive.NewObjectID(), Name: "Ann", Role: models.RoleOrganizer}
		_ = SaveSessionUser(c, user)
		c.Status(http.StatusOK)
	})
	r.GET("/login-as-attendee", func(c *gin.Context) {
		user := models.User{ID: primitive.NewObjectID(), Name: "Bob", Role: models.RoleAttendee}
		_ = SaveSessionUser(c, user)
		c.Status(http.StatusOK)
	})
	r.GET("/dashboard", IsAuthenticated(), func(c *gin.Context) {
		user, _ := SessionUserFrom(c)
		c.String(http.StatusOK, user.Name)
	})
	r.GET("/organizer-page", IsOrganizer(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/logout", func(c *gin.Context) {
		_ = ClearSession(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestIsAuthenticatedRedirectsWithoutSession(t *testing.T) {
	r := sessionEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/auth/login", w.Header().Get("Location"))
}

func TestSessionLoginThenDashboard(t *testing.T) {
	r := sessionEngine()

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as-organizer", nil))
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann", w.Body.String())
}

func TestIsOrganizerBlocksAttendeeSession(t *testing.T) {
	r := sessionEngine()

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as-attendee", nil))
	require.Equal(t, http.StatusOK, login.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/organizer-page", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClearSessionLogsOut(t *testing.T) {
	r := sessionEngine()

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as-organizer", nil))
	cookies := login.Result().Cookies()

	logout := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(logout, req)
	require.Equal(t, http.StatusOK, logout.Code)

	w := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range logout.Result().Cookies() {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}
