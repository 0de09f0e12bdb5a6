package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/testutil"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app *App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	a := &App{Config: testutil.Config(t)}
	require.NoError(t, a.build(db, nil))
	return &testServer{app: a, db: db}
}

func (s *testServer) token(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, testutil.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"cache":"disabled"`)
}

func TestRegisterLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"email":    "amy@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"email":    "amy@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "amy@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)

	w, resp = s.do(t, http.MethodGet, "/api/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"display_name":"amy"`)

	w, _ = s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "amy@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "bo@example.com")
	token := s.token(t, user)

	w, _ := s.do(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/user/profile", token, map[string]interface{}{
		"interests":    []string{"web-dev"},
		"primary_goal": "hobby",
		"weekly_hours": 80,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/user/profile", token, map[string]interface{}{
		"interests":    []string{"web-dev"},
		"primary_goal": "hobby",
		"weekly_hours": 6,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile model.UserProfile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, 6, profile.WeeklyHours)
	assert.Equal(t, user.ID, profile.UserID)
}

func TestRoadmapCompletionEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := testutil.CreateUser(t, s.db, "cal@example.com")
	other := testutil.CreateUser(t, s.db, "dot@example.com")
	token := s.token(t, owner)

	w, resp := s.do(t, http.MethodPost, "/api/roadmaps", token, map[string]interface{}{
		"title":       "Rust",
		"skill_tag":   "rust",
		"total_weeks": 2,
		"weeks": []map[string]interface{}{{
			"title": "Ownership",
			"steps": []map[string]interface{}{{
				"title":     "Borrowing",
				"resources": []map[string]interface{}{{"title": "The Book", "type": "blog", "estimated_minutes": 30}},
			}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var roadmap model.Roadmap
	require.NoError(t, json.Unmarshal(resp.Data, &roadmap))
	require.Len(t, roadmap.Weeks, 2)

	week := roadmap.Weeks[0]
	step := week.Steps[0]
	path := "/api/roadmaps/" + roadmap.ID + "/weeks/" + week.ID + "/steps/" + step.ID + "/resources/" + step.Resources[0].ID

	w, _ = s.do(t, http.MethodPatch, path, token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPatch, path, s.token(t, other), map[string]bool{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = s.do(t, http.MethodPatch, path, token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		XPAwarded     int  `json:"xp_awarded"`
		WeekCompleted bool `json:"week_completed"`
		Roadmap       struct {
			Status      string `json:"status"`
			CurrentWeek int    `json:"current_week"`
		} `json:"roadmap"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 25+100, result.XPAwarded)
	assert.True(t, result.WeekCompleted)
	assert.Equal(t, "in_progress", result.Roadmap.Status)
	assert.Equal(t, 2, result.Roadmap.CurrentWeek)

	w, _ = s.do(t, http.MethodPatch, path, token, map[string]bool{"completed": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/roadmaps/"+roadmap.ID, s.token(t, other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogAndEnroll(t *testing.T) {
	s := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "eli@example.com")
	token := s.token(t, user)
	public := testutil.PublicRoadmap(t, s.db, "DevOps", "devops", 1, 1)

	w, resp := s.do(t, http.MethodGet, "/api/roadmaps/catalog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), public.ID)

	w, _ = s.do(t, http.MethodPost, "/api/roadmaps/"+public.ID+"/enroll", token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/roadmaps/"+public.ID+"/enroll", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/roadmaps/recommended", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	learner := testutil.CreateUser(t, s.db, "fox@example.com")
	admin := &model.User{Email: "root@example.com", Password: "x", Role: model.Admin}
	require.NoError(t, s.db.Create(admin).Error)

	badge := map[string]interface{}{
		"code":        "streak-3",
		"name":        "Warming Up",
		"category":    "streak",
		"tier":        "bronze",
		"requirement": map[string]interface{}{"kind": "streak_days", "threshold": 3},
	}

	w, _ := s.do(t, http.MethodPost, "/api/admin/badges", s.token(t, learner), badge)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/admin/badges", s.token(t, admin), badge)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/admin/badges", s.token(t, admin), badge)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/badges", s.token(t, learner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), "streak-3")
}

func TestFollowEndpoints(t *testing.T) {
	s := newTestServer(t)
	me := testutil.CreateUser(t, s.db, "gia@example.com")
	them := testutil.CreateUser(t, s.db, "hux@example.com")
	token := s.token(t, me)

	w, _ := s.do(t, http.MethodPost, "/api/users/"+me.ID+"/follow", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/users/unknown/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/users/"+them.ID+"/follow", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"followers":1`)

	w, resp = s.do(t, http.MethodGet, "/api/users/"+them.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(resp.Data), "hux@example.com")
}
