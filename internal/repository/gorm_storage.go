package repository

import (
	"context"
	"errors"
	"time"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage is the persistent Storage implementation. It relies on the
// composite unique indexes declared on the models, so the progress upsert
// and the achievement unlock are single atomic statements.
type GormStorage struct {
	DB *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{DB: db}
}

var _ Storage = (*GormStorage)(nil)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return util.ErrDuplicate
	}
	return err
}

func (s *GormStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

func (s *GormStorage) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(user)
	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (s *GormStorage) GetLessons(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := s.DB.WithContext(ctx).Order("display_order asc").Find(&lessons).Error
	return lessons, translate(err)
}

func (s *GormStorage) GetLesson(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := s.DB.WithContext(ctx).First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

func (s *GormStorage) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	if lesson.Difficulty == 0 {
		lesson.Difficulty = 1
	}
	return translate(s.DB.WithContext(ctx).Create(lesson).Error)
}

func (s *GormStorage) GetExercisesByLesson(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	exercises := []model.Exercise{}
	err := s.DB.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("display_order asc").
		Find(&exercises).Error
	return exercises, translate(err)
}

func (s *GormStorage) GetExercise(ctx context.Context, id string) (*model.Exercise, error) {
	var exercise model.Exercise
	err := s.DB.WithContext(ctx).First(&exercise, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (s *GormStorage) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	return translate(s.DB.WithContext(ctx).Create(exercise).Error)
}

func (s *GormStorage) GetUserProgress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	progress := []model.UserProgress{}
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&progress).Error
	return progress, translate(err)
}

func (s *GormStorage) GetLessonProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, translate(err)
	}
	return &progress, nil
}

// UpdateUserProgress upserts the one progress row of the (user, lesson)
// pair in a single INSERT ... ON DUPLICATE KEY UPDATE statement; last_attempt
// is refreshed either way.
func (s *GormStorage) UpdateUserProgress(ctx context.Context, userID, lessonID string, upd model.ProgressUpdate) (*model.UserProgress, error) {
	now := time.Now()

	row := model.UserProgress{
		UUIDBase:    model.UUIDBase{ID: model.GenerateUUID()},
		UserID:      userID,
		LessonID:    lessonID,
		LastAttempt: now,
	}
	upd.Apply(&row)

	assignments := map[string]interface{}{"last_attempt": now}
	if upd.Completed != nil {
		assignments["completed"] = *upd.Completed
	}
	if upd.Score != nil {
		assignments["score"] = *upd.Score
	}
	if upd.Attempts != nil {
		assignments["attempts"] = *upd.Attempts
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&row).Error
	if err != nil {
		return nil, translate(err)
	}

	// Re-read so the caller sees the surviving row (the insert id is
	// discarded when the statement hit the existing row).
	return s.GetLessonProgress(ctx, userID, lessonID)
}

func (s *GormStorage) GetAchievements(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := s.DB.WithContext(ctx).Find(&achievements).Error
	return achievements, translate(err)
}

func (s *GormStorage) CreateAchievement(ctx context.Context, achievement *model.Achievement) error {
	return translate(s.DB.WithContext(ctx).Create(achievement).Error)
}

func (s *GormStorage) GetUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	unlocks := []model.UserAchievement{}
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&unlocks).Error
	return unlocks, translate(err)
}

// UnlockAchievement records a one-way unlock fact. Re-unlocking the same
// pair returns the existing row instead of inserting a duplicate.
func (s *GormStorage) UnlockAchievement(ctx context.Context, userID, achievementID string) (*model.UserAchievement, error) {
	row := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	err := s.DB.WithContext(ctx).Create(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, translate(err)
	}

	var existing model.UserAchievement
	err = s.DB.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&existing).Error
	if err != nil {
		return nil, translate(err)
	}
	return &existing, nil
}
