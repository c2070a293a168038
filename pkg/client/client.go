// Package client is the Go consumer of the DogLingo API: typed calls with a
// key-addressed response cache, filling the role the web front end's query
// client plays. GETs are cached per path; mutations invalidate the keys they
// affect.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/service"

	"github.com/go-resty/resty/v2"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type cacheEntry struct {
	data    json.RawMessage
	fetched time.Time
}

type Client struct {
	http *resty.Client
	ttl  time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func New(baseURL string) *Client {
	return &Client{
		http:  resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		ttl:   5 * time.Minute,
		cache: make(map[string]cacheEntry),
	}
}

// SetToken attaches the bearer token used on authenticated routes.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	c.mu.RLock()
	entry, ok := c.cache[path]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetched) < c.ttl {
		return json.Unmarshal(entry.data, out)
	}

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return err
	}
	data, err := decode(resp)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cache[path] = cacheEntry{data: data, fetched: time.Now()}
	c.mu.Unlock()

	return json.Unmarshal(data, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	data, err := decode(resp)
	if err != nil {
		return err
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func decode(resp *resty.Response) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, &APIError{Status: resp.StatusCode(), Message: env.Message}
	}
	return env.Data, nil
}

// Invalidate drops one cached path; InvalidateAll drops everything.
func (c *Client) Invalidate(path string) {
	c.mu.Lock()
	delete(c.cache, path)
	c.mu.Unlock()
}

func (c *Client) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) Lessons(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := c.get(ctx, "/api/lessons", &lessons)
	return lessons, err
}

func (c *Client) Lesson(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := c.get(ctx, "/api/lessons/"+id, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) Exercises(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := c.get(ctx, "/api/lessons/"+lessonID+"/exercises", &exercises)
	return exercises, err
}

func (c *Client) Achievements(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := c.get(ctx, "/api/achievements", &achievements)
	return achievements, err
}

func (c *Client) Progress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := c.get(ctx, "/api/user/"+userID+"/progress", &progress)
	return progress, err
}

// RecordProgress posts a lesson attempt and drops the user's cached
// progress so the next read sees the new row.
func (c *Client) RecordProgress(ctx context.Context, userID string, req service.ProgressRequest) (*service.ProgressResult, error) {
	var result service.ProgressResult
	err := c.send(ctx, http.MethodPost, "/api/user/"+userID+"/progress", req, &result)
	if err != nil {
		return nil, err
	}
	c.Invalidate("/api/user/" + userID + "/progress")
	return &result, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, upd model.UserUpdate) (*model.User, error) {
	var user model.User
	err := c.send(ctx, http.MethodPatch, "/api/user/"+userID, upd, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UserAchievements(ctx context.Context, userID string) ([]model.UnlockedAchievement, error) {
	var achievements []model.UnlockedAchievement
	err := c.get(ctx, "/api/user/"+userID+"/achievements", &achievements)
	return achievements, err
}

func (c *Client) UnlockAchievement(ctx context.Context, userID, achievementID string) (*model.UserAchievement, error) {
	var unlock model.UserAchievement
	err := c.send(ctx, http.MethodPost, "/api/user/"+userID+"/achievements",
		map[string]string{"achievementId": achievementID}, &unlock)
	if err != nil {
		return nil, err
	}
	c.Invalidate("/api/user/" + userID + "/achievements")
	return &unlock, nil
}
