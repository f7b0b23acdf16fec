package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedEngine(user *models.User, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		if user != nil {
			SetCurrentUser(c, *user)
		}
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGuarded(t *testing.T, user *models.User, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	guardedEngine(user, guard).ServeHTTP(w, req)
	return w
}

func TestOrganizerGuard(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{name: "organizer allowed", user: &models.User{Role: models.RoleOrganizer}, want: http.StatusOK},
		{name: "admin allowed", user: &models.User{Role: models.RoleAdmin}, want: http.StatusOK},
		{name: "attendee blocked", user: &models.User{Role: models.RoleAttendee}, want: http.StatusUnauthorized},
		{name: "no user blocked", user: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGuarded(t, tt.user, Organizer())
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Not authorized, you are not an organizer", body["message"])
			}
		})
	}
}

func TestAdminGuard(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{name: "admin allowed", user: &models.User{Role: models.RoleAdmin}, want: http.StatusOK},
		{name: "organizer blocked", user: &models.User{Role: models.RoleOrganizer}, want: http.StatusUnauthorized},
		{name: "attendee blocked", user: &models.User{Role: models.RoleAttendee}, want: http.StatusUnauthorized},
		{name: "no user blocked", user: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGuarded(t, tt.user, Admin())
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Not authorized, you are not an admin", body["message"])
			}
		})
	}
}

func TestProtectRejectsBeforeLookup(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	r.GET("/private", Protect(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "no header", header: "", message: "Not authorized, no token"},
		{name: "wrong scheme", header: "Basic abc", message: "Not authorized, no token"},
		{name: "bad token", header: "Bearer not.a.token", message: "Not authorized, token failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestCurrentUserRoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleAttendee}
	SetCurrentUser(c, user)

	got, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}
