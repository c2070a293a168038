package service

import (
	"context"
	"errors"
	"time"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
	"doglingo_backend/internal/util"
	"doglingo_backend/pkg/logger"

	"go.uber.org/zap"
)

type ProgressService struct {
	Store        repository.Storage
	Achievements *AchievementService

	// now is the clock the streak bookkeeping reads; injectable so day
	// boundaries can be crossed in tests.
	now func() time.Time
}

func NewProgressService(store repository.Storage, achievements *AchievementService) *ProgressService {
	return &ProgressService{
		Store:        store,
		Achievements: achievements,
		now:          time.Now,
	}
}

// ProgressRequest is the body of a progress POST. Attempts are counted by
// the server, not the client.
type ProgressRequest struct {
	LessonID  string `json:"lessonId" binding:"required"`
	Completed *bool  `json:"completed"`
	Score     *int   `json:"score" binding:"omitempty,min=0,max=100"`
}

// ProgressResult is the outcome of one recorded attempt, including any
// achievements the attempt unlocked.
type ProgressResult struct {
	Progress    *model.UserProgress `json:"progress"`
	NewUnlocks  []model.Achievement `json:"newUnlocks,omitempty"`
	StreakAfter int                 `json:"streak"`
}

func (s *ProgressService) ProgressFor(ctx context.Context, userID string) ([]model.UserProgress, error) {
	return s.Store.GetUserProgress(ctx, userID)
}

// Record upserts the (user, lesson) progress row for one attempt: the
// attempt counter goes up by one, the streak is kept current, and
// achievement rules are re-evaluated afterwards.
func (s *ProgressService) Record(ctx context.Context, userID string, req ProgressRequest) (*ProgressResult, error) {
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.GetLesson(ctx, req.LessonID); err != nil {
		return nil, err
	}

	attempts := 1
	if existing, err := s.Store.GetLessonProgress(ctx, userID, req.LessonID); err == nil {
		attempts = existing.Attempts + 1
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	streak, err := s.touchStreak(ctx, user)
	if err != nil {
		return nil, err
	}

	progress, err := s.Store.UpdateUserProgress(ctx, userID, req.LessonID, model.ProgressUpdate{
		Completed: req.Completed,
		Score:     req.Score,
		Attempts:  &attempts,
	})
	if err != nil {
		return nil, err
	}

	newly, err := s.Achievements.Evaluate(ctx, userID)
	if err != nil {
		// The attempt itself is recorded; a failed rule pass is logged
		// and the next attempt re-evaluates from scratch.
		logger.Log.Error("achievement evaluation failed",
			zap.String("userId", userID), zap.Error(err))
		newly = nil
	}

	return &ProgressResult{
		Progress:    progress,
		NewUnlocks:  newly,
		StreakAfter: streak,
	}, nil
}

// touchStreak keeps the daily training streak current: the first attempt of
// a new day extends the streak when yesterday had one, otherwise restarts
// it at 1. Further attempts on the same day leave it alone.
func (s *ProgressService) touchStreak(ctx context.Context, user *model.User) (int, error) {
	last, ok, err := s.lastAttempt(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	today := startOfDay(s.now())
	streak := user.Streak

	switch {
	case !ok:
		streak = 1
	case !startOfDay(last).Before(today):
		return streak, nil // already trained today
	case startOfDay(last).Equal(today.AddDate(0, 0, -1)):
		streak++
	default:
		streak = 1
	}

	if _, err := s.Store.UpdateUser(ctx, user.ID, model.UserUpdate{Streak: &streak}); err != nil {
		return 0, err
	}
	return streak, nil
}

func (s *ProgressService) lastAttempt(ctx context.Context, userID string) (time.Time, bool, error) {
	rows, err := s.Store.GetUserProgress(ctx, userID)
	if err != nil {
		return time.Time{}, false, err
	}
	var latest time.Time
	for _, row := range rows {
		if row.LastAttempt.After(latest) {
			latest = row.LastAttempt
		}
	}
	return latest, !latest.IsZero(), nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
