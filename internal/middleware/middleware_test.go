package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthAndRoles(t *testing.T) {
	issuer := auth.NewIssuer("secret")
	r := gin.New()
	r.GET("/me", AuthMiddleware(issuer), func(c *gin.Context) {
		org, user := Tenant(c)
		c.JSON(http.StatusOK, gin.H{"org": org, "user": user, "role": Role(c)})
	})
	r.GET("/admin", AuthMiddleware(issuer), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	staffToken, err := issuer.Issue(&models.User{ID: 4, OrganizationID: 2, Role: models.RoleStaff})
	require.NoError(t, err)
	ownerToken, err := issuer.Issue(&models.User{ID: 1, OrganizationID: 2, Role: models.RoleOwner})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"bad scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer abc", http.StatusUnauthorized},
		{"staff me", "/me", "Bearer " + staffToken, http.StatusOK},
		{"query token", "/me?access_token=" + staffToken, "", http.StatusOK},
		{"staff admin", "/admin", "Bearer " + staffToken, http.StatusForbidden},
		{"owner admin", "/admin", "Bearer " + ownerToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestLocalRateLimit(t *testing.T) {
	cfg := RateLimitConfig{Name: "t", Requests: 2, Window: time.Hour}
	r := gin.New()
	r.POST("/x", RateLimit(NewLimiter(nil, cfg), cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{200, 200, 429}, codes)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
