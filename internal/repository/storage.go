package repository

import (
	"context"

	"doglingo_backend/internal/model"
)

// Storage is the persistence contract of the application. Two
// implementations exist: GormStorage on MySQL and MemStorage on in-process
// maps. Both satisfy the same semantics: reads return util.ErrNotFound for
// absent rows, creates return util.ErrDuplicate on uniqueness violations,
// and UpdateUserProgress keeps exactly one row per (user, lesson) pair.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)

	// Lessons
	GetLessons(ctx context.Context) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id string) (*model.Lesson, error)
	CreateLesson(ctx context.Context, lesson *model.Lesson) error

	// Exercises
	GetExercisesByLesson(ctx context.Context, lessonID string) ([]model.Exercise, error)
	GetExercise(ctx context.Context, id string) (*model.Exercise, error)
	CreateExercise(ctx context.Context, exercise *model.Exercise) error

	// Progress
	GetUserProgress(ctx context.Context, userID string) ([]model.UserProgress, error)
	GetLessonProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error)
	UpdateUserProgress(ctx context.Context, userID, lessonID string, upd model.ProgressUpdate) (*model.UserProgress, error)

	// Achievements
	GetAchievements(ctx context.Context) ([]model.Achievement, error)
	CreateAchievement(ctx context.Context, achievement *model.Achievement) error
	GetUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error)
	UnlockAchievement(ctx context.Context, userID, achievementID string) (*model.UserAchievement, error)
}
