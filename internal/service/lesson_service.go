package service

import (
	"context"
	"encoding/json"
	"time"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
	"doglingo_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	lessonCacheKey = "doglingo:lessons"
	lessonCacheTTL = 10 * time.Minute
)

type LessonService struct {
	Store repository.Storage
	Redis *redis.Client
}

func NewLessonService(store repository.Storage, rdb *redis.Client) *LessonService {
	return &LessonService{
		Store: store,
		Redis: rdb,
	}
}

// GetLessons returns the catalog ordered by display order, served from the
// redis cache when possible. Cache trouble is logged, never surfaced.
func (s *LessonService) GetLessons(ctx context.Context) ([]model.Lesson, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, lessonCacheKey).Result()
		if err == nil {
			var lessons []model.Lesson
			if err := json.Unmarshal([]byte(val), &lessons); err == nil {
				return lessons, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("lesson cache read failed", zap.Error(err))
		}
	}

	lessons, err := s.Store.GetLessons(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(lessons); err == nil {
			if err := s.Redis.Set(ctx, lessonCacheKey, data, lessonCacheTTL).Err(); err != nil {
				logger.Log.Warn("lesson cache write failed", zap.Error(err))
			}
		}
	}

	return lessons, nil
}

func (s *LessonService) GetLesson(ctx context.Context, id string) (*model.Lesson, error) {
	return s.Store.GetLesson(ctx, id)
}

func (s *LessonService) GetExercises(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	return s.Store.GetExercisesByLesson(ctx, lessonID)
}

func (s *LessonService) GetExercise(ctx context.Context, id string) (*model.Exercise, error) {
	return s.Store.GetExercise(ctx, id)
}

func (s *LessonService) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	if err := s.Store.CreateLesson(ctx, lesson); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// CreateExercise validates the answer encoding against the exercise type
// before the row is written, then verifies the lesson exists.
func (s *LessonService) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return err
	}
	if _, err := s.Store.GetLesson(ctx, exercise.LessonID); err != nil {
		return err
	}
	return s.Store.CreateExercise(ctx, exercise)
}

// CheckAnswer grades a submitted answer server-side.
func (s *LessonService) CheckAnswer(ctx context.Context, exerciseID string, submitted model.Answer) (bool, *model.Exercise, error) {
	exercise, err := s.Store.GetExercise(ctx, exerciseID)
	if err != nil {
		return false, nil, err
	}

	var correct bool
	switch exercise.Type {
	case model.DragDrop:
		correct = exercise.CorrectAnswer.MatchesPairs(submitted.Pairs)
	default:
		correct = exercise.CorrectAnswer.Matches(submitted.OptionID)
	}
	return correct, exercise, nil
}

func (s *LessonService) invalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, lessonCacheKey).Err(); err != nil {
		logger.Log.Warn("lesson cache invalidation failed", zap.Error(err))
	}
}
