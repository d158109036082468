package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sahayak_backend/internal/config"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "admin-pass-123"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("SAHAYAK_ADMIN_PASSWORD", adminPassword)

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "app-test-secret-app-test-secret-app", ExpireTime: time.Hour},
		Store:     config.StoreConfig{Backend: "memory", Seed: true},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Security:  config.SecurityConfig{BcryptCost: 4},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}

	a := &App{}
	require.NoError(t, build(context.Background(), cfg, nil, a))
	return a
}

func (a *App) call(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *App) login(t *testing.T, role, email, password string) string {
	t.Helper()
	code, env := a.call(t, http.MethodPost, "/api/login", "", gin.H{"role": role, "email": email, "password": password})
	require.Equal(t, http.StatusOK, code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealthIsPublic(t *testing.T) {
	a := newTestApp(t)
	code, env := a.call(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"store":"memory"`)
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	a := newTestApp(t)

	code, _ := a.call(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.call(t, http.MethodGet, "/api/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newTestApp(t)

	code, _ := a.call(t, http.MethodPost, "/api/login", "", gin.H{"role": "admin", "email": "admin@sahayak.local", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.call(t, http.MethodPost, "/api/login", "", gin.H{"role": "principal", "email": "admin@sahayak.local", "password": adminPassword})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestQuizLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, env := a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Asha", "email": "asha@school.test", "password": "teach-pass-1",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Asha again", "email": "ASHA@school.test", "password": "teach-pass-1",
	})
	assert.Equal(t, http.StatusConflict, code)

	teacher := a.login(t, "teacher", "asha@school.test", "teach-pass-1")

	code, env = a.call(t, http.MethodPost, "/api/teacher/students", teacher, gin.H{
		"name": "Meera", "email": "meera@school.test", "password": "learn-pass-1", "grade": "7",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var student struct {
		ID        string `json:"id"`
		TeacherID string `json:"teacherId"`
	}
	decode(t, env, &student)
	assert.NotEmpty(t, student.TeacherID)

	code, env = a.call(t, http.MethodPost, "/api/teacher/courses", teacher, gin.H{
		"title": "Photosynthesis", "modules": []string{"light", "chlorophyll"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var course struct {
		ID string `json:"id"`
	}
	decode(t, env, &course)

	quizPath := "/api/teacher/courses/" + course.ID + "/quiz"
	code, _ = a.call(t, http.MethodPut, quizPath, teacher, gin.H{
		"questions": []gin.H{{"question": "Q1", "options": []string{"A", "B", "C"}, "correctAnswer": "A"}},
	})
	assert.Equal(t, http.StatusBadRequest, code, "three options")

	code, env = a.call(t, http.MethodPut, quizPath, teacher, gin.H{
		"topic": "plants",
		"questions": []gin.H{
			{"question": "Q1", "options": []string{"A", "B", "C", "D"}, "correctAnswer": "A"},
			{"question": "Q2", "options": []string{"A", "B", "C", "D"}, "correctAnswer": "C"},
		},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	pupil := a.login(t, "student", "meera@school.test", "learn-pass-1")

	code, env = a.call(t, http.MethodGet, "/api/student/courses", pupil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), course.ID)

	code, env = a.call(t, http.MethodGet, "/api/student/courses/"+course.ID+"/quiz", pupil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "correctAnswer")

	code, _ = a.call(t, http.MethodGet, "/api/student/courses/"+course.ID+"/result", pupil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.call(t, http.MethodPost, "/api/student/courses/"+course.ID+"/quiz/submit", pupil, gin.H{
		"answers": map[string]string{"0": "A", "1": "B"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var result struct {
		ID             string  `json:"id"`
		Score          float64 `json:"score"`
		CorrectAnswers int     `json:"correctAnswers"`
		Graded         bool    `json:"graded"`
	}
	decode(t, env, &result)
	assert.InDelta(t, 50.0, result.Score, 0.001)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.False(t, result.Graded)

	// a student never reaches staff routes
	code, _ = a.call(t, http.MethodGet, "/api/teacher/courses/"+course.ID+"/results", pupil, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.call(t, http.MethodGet, "/api/teacher/courses/"+course.ID+"/statuses", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"status":"Needs Help"`)

	code, env = a.call(t, http.MethodPost, "/api/teacher/results/"+result.ID+"/grade", teacher, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	decode(t, env, &result)
	assert.True(t, result.Graded)

	code, env = a.call(t, http.MethodGet, "/api/student/courses/"+course.ID+"/result", pupil, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &result)
	assert.True(t, result.Graded)

	code, env = a.call(t, http.MethodGet, "/api/teacher/analytics/courses", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"average":50`)
}

func TestRoleGating(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, _ := a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Ravi", "email": "ravi@school.test", "password": "teach-pass-2",
	})
	require.Equal(t, http.StatusCreated, code)
	teacher := a.login(t, "teacher", "ravi@school.test", "teach-pass-2")

	// admins pass staff checks
	code, _ = a.call(t, http.MethodGet, "/api/teacher/students", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.call(t, http.MethodGet, "/api/admin/teachers", teacher, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(t, http.MethodGet, "/api/student/courses", teacher, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(t, http.MethodGet, "/api/student/courses", admin, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestDeletedAccountTokenIsRejected(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, env := a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Kiran", "email": "kiran@school.test", "password": "teach-pass-3",
	})
	require.Equal(t, http.StatusCreated, code)
	var teacher struct {
		ID string `json:"id"`
	}
	decode(t, env, &teacher)
	token := a.login(t, "teacher", "kiran@school.test", "teach-pass-3")

	code, _ = a.call(t, http.MethodDelete, "/api/admin/teachers/"+teacher.ID, admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.call(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestChangePassword(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, env := a.call(t, http.MethodPut, "/api/profile/password", admin, gin.H{
		"currentPassword": "not-the-password", "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":false}`, string(env.Data))

	code, env = a.call(t, http.MethodPut, "/api/profile/password", admin, gin.H{
		"currentPassword": adminPassword, "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":true}`, string(env.Data))

	a.login(t, "admin", "admin@sahayak.local", "brand-new-pass")
}

func TestTokenQueryParameter(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, env := a.call(t, http.MethodGet, "/api/profile?token="+admin, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(string(env.Data), `"role":"admin"`))
}

func TestDirectoryUpdatesValidateInput(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, "admin", "admin@sahayak.local", adminPassword)

	code, env := a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Asha", "email": "asha@school.test", "password": "teach-pass-1",
	})
	require.Equal(t, http.StatusCreated, code)
	var teacher struct {
		ID string `json:"id"`
	}
	decode(t, env, &teacher)
	path := "/api/admin/teachers/" + teacher.ID

	for _, body := range []gin.H{
		{"password": ""},
		{"password": "short"},
		{"password": strings.Repeat("x", 80)},
		{"email": ""},
		{"email": "not-an-email"},
		{"name": ""},
	} {
		code, _ = a.call(t, http.MethodPut, path, admin, body)
		assert.Equal(t, http.StatusBadRequest, code, "%v", body)
	}

	code, _ = a.call(t, http.MethodPost, "/api/login", "", gin.H{"role": "teacher", "email": "asha@school.test", "password": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	a.login(t, "teacher", "asha@school.test", "teach-pass-1")

	code, _ = a.call(t, http.MethodPost, "/api/admin/teachers", admin, gin.H{
		"name": "Ravi", "email": "ravi@school.test", "password": strings.Repeat("y", 80),
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.call(t, http.MethodPut, "/api/profile/password", admin, gin.H{
		"currentPassword": adminPassword, "newPassword": strings.Repeat("z", 80),
	})
	assert.Equal(t, http.StatusBadRequest, code)
}
