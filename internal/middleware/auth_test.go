package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

type seenRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *seenRecorder) UpdateLastSeen(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userID)
	return nil
}

func (r *seenRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func newRouter(repo UserActivityRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/", AuthMiddleware(secret), ActivityMiddleware(repo))
	auth.GET("/me", func(c *gin.Context) {
		session, _ := util.SessionFromContext(c)
		c.String(http.StatusOK, session.UserID)
	})
	auth.GET("/admin", RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, role model.UserRole) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{
		UUIDBase: model.UUIDBase{ID: "u-" + string(role)},
		Email:    string(role) + "@example.com",
		Role:     role,
	}, secret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	repo := &seenRecorder{}
	r := newRouter(repo)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", bearer(t, model.Learner), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Eventually(t, func() bool {
		seen := repo.seen()
		return len(seen) == 1 && seen[0] == "u-learner"
	}, time.Second, 10*time.Millisecond)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(&seenRecorder{})

	for role, want := range map[model.UserRole]int{
		model.Learner: http.StatusForbidden,
		model.Admin:   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", bearer(t, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}
