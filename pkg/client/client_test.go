package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"
	"doglingo_backend/internal/util"
)

// fakeServer serves a minimal slice of the API and counts hits per path.
type fakeServer struct {
	*httptest.Server
	lessonHits   int64
	progressHits int64
	progress     []model.UserProgress
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/lessons", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fs.lessonHits, 1)
		writeEnvelope(t, w, http.StatusOK, []model.Lesson{
			{Title: "Basic Commands", Order: 1},
			{Title: "Advanced Commands", Order: 2},
		})
	})
	mux.HandleFunc("/api/user/u1/progress", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt64(&fs.progressHits, 1)
			writeEnvelope(t, w, http.StatusOK, fs.progress)
		case http.MethodPost:
			row := model.UserProgress{UserID: "u1", LessonID: "l1", Attempts: 1}
			fs.progress = append(fs.progress, row)
			writeEnvelope(t, w, http.StatusOK, service.ProgressResult{
				Progress:    &row,
				StreakAfter: 1,
			})
		}
	})
	mux.HandleFunc("/api/lessons/missing", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusNotFound, nil)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	message := "success"
	if status >= 400 {
		message = "Resource not found"
	}
	require.NoError(t, json.NewEncoder(w).Encode(util.Response{
		Code:    status,
		Message: message,
		Data:    data,
	}))
}

func TestClientCachesGets(t *testing.T) {
	ctx := context.Background()
	server := newFakeServer(t)
	client := New(server.URL)

	first, err := client.Lessons(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Basic Commands", first[0].Title)

	// The second read is served from the cache.
	second, err := client.Lessons(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&server.lessonHits))

	client.Invalidate("/api/lessons")
	_, err = client.Lessons(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&server.lessonHits))
}

func TestClientRecordProgressInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	server := newFakeServer(t)
	client := New(server.URL)

	before, err := client.Progress(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, before)

	result, err := client.RecordProgress(ctx, "u1", service.ProgressRequest{LessonID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Progress.Attempts)

	// The cached empty list was dropped by the write.
	after, err := client.Progress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "l1", after[0].LessonID)
	assert.EqualValues(t, 2, atomic.LoadInt64(&server.progressHits))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	ctx := context.Background()
	server := newFakeServer(t)
	client := New(server.URL)

	_, err := client.Lesson(ctx, "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Resource not found", apiErr.Message)

	// Errors are never cached.
	_, err = client.Lesson(ctx, "missing")
	assert.Error(t, err)
}

func TestClientInvalidateAll(t *testing.T) {
	ctx := context.Background()
	server := newFakeServer(t)
	client := New(server.URL)

	_, err := client.Lessons(ctx)
	require.NoError(t, err)

	client.InvalidateAll()

	_, err = client.Lessons(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&server.lessonHits))
}
