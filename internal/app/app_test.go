package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doglingo_backend/internal/config"
	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
)

var (
	testApp     *App
	testAppErr  error
	testAppOnce sync.Once
)

// app builds the application once per test binary; the prometheus
// collectors register globally, so NewApp cannot run twice.
func app(t *testing.T) *App {
	t.Helper()
	testAppOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		mediaDir, err := os.MkdirTemp("", "doglingo-media")
		if err != nil {
			testAppErr = err
			return
		}

		cfg := &config.Config{}
		cfg.Server.Port = "0"
		cfg.Database.Driver = "memory"
		cfg.JWT.Secret = "test-secret-test-secret-test-secret"
		cfg.JWT.ExpireTime = time.Hour
		cfg.Storage.LocalPath = mediaDir

		testApp, testAppErr = NewApp(cfg)
	})
	require.NoError(t, testAppErr)
	return testApp
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// signUp registers a fresh user and logs them in, returning the token and
// the user record.
func signUp(t *testing.T, a *App, username string) (string, model.User) {
	t.Helper()

	rec, _ := doJSON(t, a, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"dogName":  "Buddy",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, a, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decodeData(t, env, &login)
	require.NotEmpty(t, login.Token)
	return login.Token, login.User
}

func seededLessons(t *testing.T, a *App) []model.Lesson {
	t.Helper()
	rec, env := doJSON(t, a, http.MethodGet, "/api/lessons", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var lessons []model.Lesson
	decodeData(t, env, &lessons)
	require.GreaterOrEqual(t, len(lessons), 2)
	return lessons
}

func TestHealthEndpoint(t *testing.T) {
	a := app(t)

	rec, env := doJSON(t, a, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	decodeData(t, env, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory", health.Components["database"])
}

func TestLessonCatalog(t *testing.T) {
	a := app(t)

	lessons := seededLessons(t, a)
	assert.Equal(t, "Basic Commands", lessons[0].Title)
	assert.Equal(t, "Advanced Commands", lessons[1].Title)

	rec, env := doJSON(t, a, http.MethodGet, "/api/lessons/"+lessons[0].ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var lesson model.Lesson
	decodeData(t, env, &lesson)
	assert.Equal(t, lessons[0].ID, lesson.ID)

	rec, _ = doJSON(t, a, http.MethodGet, "/api/lessons/not-a-lesson", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLessonExercises(t *testing.T) {
	a := app(t)
	lessons := seededLessons(t, a)

	rec, env := doJSON(t, a, http.MethodGet, "/api/lessons/"+lessons[0].ID+"/exercises", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var exercises []model.Exercise
	decodeData(t, env, &exercises)
	require.NotEmpty(t, exercises)
	assert.Equal(t, model.MultipleChoice, exercises[0].Type)

	// Unknown lesson gets an empty list, not an error.
	rec, env = doJSON(t, a, http.MethodGet, "/api/lessons/not-a-lesson/exercises", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, env, &exercises)
	assert.Empty(t, exercises)
}

func TestRegisterConflicts(t *testing.T) {
	a := app(t)
	signUp(t, a, "taken")

	rec, env := doJSON(t, a, http.MethodPost, "/api/register", "", gin.H{
		"username": "taken",
		"email":    "fresh@example.com",
		"password": "password123",
		"dogName":  "Rex",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "username")

	rec, env = doJSON(t, a, http.MethodPost, "/api/register", "", gin.H{
		"username": "fresh",
		"email":    "taken@example.com",
		"password": "password123",
		"dogName":  "Rex",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "email")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := app(t)
	signUp(t, a, "casey")

	rec, _ := doJSON(t, a, http.MethodPost, "/api/login", "", gin.H{
		"username": "casey",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProgressRequiresAuth(t *testing.T) {
	a := app(t)
	lessons := seededLessons(t, a)

	rec, _ := doJSON(t, a, http.MethodPost, "/api/user/someone/progress", "", gin.H{
		"lessonId": lessons[0].ID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, a, http.MethodGet, "/api/user/someone/progress", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProgressRejectsOtherUsers(t *testing.T) {
	a := app(t)
	lessons := seededLessons(t, a)
	token, _ := signUp(t, a, "robin")
	_, other := signUp(t, a, "jamie")

	rec, _ := doJSON(t, a, http.MethodPost, fmt.Sprintf("/api/user/%s/progress", other.ID), token, gin.H{
		"lessonId": lessons[0].ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, a, http.MethodPatch, "/api/user/"+other.ID, token, gin.H{
		"dogName": "Impostor",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgressRoundTrip(t *testing.T) {
	a := app(t)
	lessons := seededLessons(t, a)
	token, user := signUp(t, a, "morgan")

	progressPath := fmt.Sprintf("/api/user/%s/progress", user.ID)

	// Unknown lesson is rejected before anything is written.
	rec, _ := doJSON(t, a, http.MethodPost, progressPath, token, gin.H{
		"lessonId": "not-a-lesson",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := doJSON(t, a, http.MethodPost, progressPath, token, gin.H{
		"lessonId":  lessons[0].ID,
		"completed": true,
		"score":     100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.ProgressResult
	decodeData(t, env, &result)
	assert.Equal(t, 1, result.Progress.Attempts)
	assert.True(t, result.Progress.Completed)
	assert.Equal(t, 100, result.Progress.Score)
	assert.Equal(t, 1, result.StreakAfter)

	// A perfect completed first lesson unlocks the seeded completion and
	// accuracy achievements in one pass.
	titles := make([]string, len(result.NewUnlocks))
	for i, unlock := range result.NewUnlocks {
		titles[i] = unlock.Title
	}
	assert.ElementsMatch(t, []string{"First Command Master", "Perfect Practice"}, titles)

	// Second attempt lands on the same row.
	rec, env = doJSON(t, a, http.MethodPost, progressPath, token, gin.H{
		"lessonId": lessons[0].ID,
		"score":    80,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var second service.ProgressResult
	decodeData(t, env, &second)
	assert.Equal(t, result.Progress.ID, second.Progress.ID)
	assert.Equal(t, 2, second.Progress.Attempts)
	assert.Empty(t, second.NewUnlocks)

	rec, env = doJSON(t, a, http.MethodGet, progressPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []model.UserProgress
	decodeData(t, env, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, lessons[0].ID, rows[0].LessonID)

	// The unlock rewards landed on the profile.
	rec, env = doJSON(t, a, http.MethodGet, fmt.Sprintf("/api/user/%s/achievements", user.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unlocked []model.UnlockedAchievement
	decodeData(t, env, &unlocked)
	assert.Len(t, unlocked, 2)
	for _, u := range unlocked {
		require.NotNil(t, u.Achievement)
	}
}

func TestUpdateOwnProfile(t *testing.T) {
	a := app(t)
	token, user := signUp(t, a, "quinn")

	rec, env := doJSON(t, a, http.MethodPatch, "/api/user/"+user.ID, token, gin.H{
		"dogName": "Biscuit",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.User
	decodeData(t, env, &updated)
	assert.Equal(t, "Biscuit", updated.DogName)
	assert.Equal(t, user.Username, updated.Username)
}

func TestCheckAnswerEndpoint(t *testing.T) {
	a := app(t)
	lessons := seededLessons(t, a)
	token, _ := signUp(t, a, "sasha")

	rec, env := doJSON(t, a, http.MethodGet, "/api/lessons/"+lessons[0].ID+"/exercises", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exercises []model.Exercise
	decodeData(t, env, &exercises)
	require.NotEmpty(t, exercises)

	checkPath := "/api/exercises/" + exercises[0].ID + "/check"

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "correct answer", answer: "sit", want: true},
		{name: "wrong answer", answer: "stay", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, a, http.MethodPost, checkPath, token, gin.H{
				"answer": tt.answer,
			})
			require.Equal(t, http.StatusOK, rec.Code)

			var verdict struct {
				IsCorrect bool `json:"isCorrect"`
			}
			decodeData(t, env, &verdict)
			assert.Equal(t, tt.want, verdict.IsCorrect)
		})
	}

	rec, _ = doJSON(t, a, http.MethodPost, "/api/exercises/not-an-exercise/check", token, gin.H{
		"answer": "sit",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManualUnlockIsIdempotent(t *testing.T) {
	a := app(t)
	token, user := signUp(t, a, "dana")

	rec, env := doJSON(t, a, http.MethodGet, "/api/achievements", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var definitions []model.Achievement
	decodeData(t, env, &definitions)
	require.NotEmpty(t, definitions)

	unlockPath := fmt.Sprintf("/api/user/%s/achievements", user.ID)
	body := gin.H{"achievementId": definitions[0].ID}

	rec, env = doJSON(t, a, http.MethodPost, unlockPath, token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	var first model.UserAchievement
	decodeData(t, env, &first)

	rec, env = doJSON(t, a, http.MethodPost, unlockPath, token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	var second model.UserAchievement
	decodeData(t, env, &second)

	assert.Equal(t, first.ID, second.ID)

	rec, env = doJSON(t, a, http.MethodGet, unlockPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unlocked []model.UnlockedAchievement
	decodeData(t, env, &unlocked)
	assert.Len(t, unlocked, 1)
}

func TestAdminCreateLessonAndExercise(t *testing.T) {
	a := app(t)
	token, _ := signUp(t, a, "taylor")

	rec, env := doJSON(t, a, http.MethodPost, "/api/admin/lessons", token, gin.H{
		"title":             "Leash Walking",
		"description":       "Loose-leash walking around distractions",
		"category":          "outdoors",
		"difficulty":        2,
		"exercises":         4,
		"estimatedDuration": 10,
		"icon":              "fas fa-dog",
		"order":             3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var lesson model.Lesson
	decodeData(t, env, &lesson)
	require.NotEmpty(t, lesson.ID)

	rec, env = doJSON(t, a, http.MethodPost, "/api/admin/lessons/"+lesson.ID+"/exercises", token, gin.H{
		"type":     "multiple-choice",
		"question": "Which side should your dog walk on?",
		"options": []gin.H{
			{"id": "left", "text": "Left"},
			{"id": "right", "text": "Right"},
		},
		"correctAnswer": "left",
		"order":         1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var exercise model.Exercise
	decodeData(t, env, &exercise)
	assert.Equal(t, lesson.ID, exercise.LessonID)

	// An answer outside the option set is rejected.
	rec, _ = doJSON(t, a, http.MethodPost, "/api/admin/lessons/"+lesson.ID+"/exercises", token, gin.H{
		"type":     "multiple-choice",
		"question": "Which side should your dog walk on?",
		"options": []gin.H{
			{"id": "left", "text": "Left"},
			{"id": "right", "text": "Right"},
		},
		"correctAnswer": "behind",
		"order":         2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
