package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/cache"
	"github.com/BruksfildServices01/care-scheduler/internal/config"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	dispatcher := audit.NewDispatcher()
	t.Cleanup(dispatcher.Close)

	mail := mailer.NewAsync(mailer.NoopSender{})

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Config:   &config.Config{JWTSecret: "test-secret", DefaultHourlyRate: "30"},
		Audit:    dispatcher,
		Mail:     mail,
		Notifier: notify.NewService(db, notify.NewLocalHub(), mail),
		Files:    storage.NewService(db, nil),
		Locker:   cache.NewLocalLocker(),
	})
	return r
}

func TestRoutesSmoke(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/me/staff", http.StatusUnauthorized},
		{http.MethodGet, "/api/public/unknown-org", http.StatusNotFound},
		{http.MethodGet, "/api/public/invitations/not-a-token", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
