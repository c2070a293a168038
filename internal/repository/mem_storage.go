package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/util"
)

// MemStorage is the ephemeral Storage implementation on in-process maps.
// It enforces the same contract as GormStorage: username/email uniqueness,
// one progress row per (user, lesson), idempotent unlocks. The mutex is held
// across every read-then-write, so the upsert cannot race with itself.
type MemStorage struct {
	mu               sync.RWMutex
	users            map[string]model.User
	lessons          map[string]model.Lesson
	exercises        map[string]model.Exercise
	progress         map[string]model.UserProgress
	achievements     map[string]model.Achievement
	userAchievements map[string]model.UserAchievement
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:            make(map[string]model.User),
		lessons:          make(map[string]model.Lesson),
		exercises:        make(map[string]model.Exercise),
		progress:         make(map[string]model.UserProgress),
		achievements:     make(map[string]model.Achievement),
		userAchievements: make(map[string]model.UserAchievement),
	}
}

func (s *MemStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &user, nil
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, util.ErrNotFound
}

func (s *MemStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, util.ErrNotFound
}

func (s *MemStorage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return util.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = model.GenerateUUID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemStorage) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	upd.Apply(&user)
	s.users[id] = user
	return &user, nil
}

func (s *MemStorage) GetLessons(ctx context.Context) ([]model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lessons := make([]model.Lesson, 0, len(s.lessons))
	for _, lesson := range s.lessons {
		lessons = append(lessons, lesson)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons, nil
}

func (s *MemStorage) GetLesson(ctx context.Context, id string) (*model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &lesson, nil
}

func (s *MemStorage) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lesson.ID == "" {
		lesson.ID = model.GenerateUUID()
	}
	if lesson.Difficulty == 0 {
		lesson.Difficulty = 1
	}
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *MemStorage) GetExercisesByLesson(ctx context.Context, lessonID string) ([]model.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exercises := []model.Exercise{}
	for _, exercise := range s.exercises {
		if exercise.LessonID == lessonID {
			exercises = append(exercises, exercise)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Order < exercises[j].Order })
	return exercises, nil
}

func (s *MemStorage) GetExercise(ctx context.Context, id string) (*model.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exercise, ok := s.exercises[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &exercise, nil
}

func (s *MemStorage) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exercise.ID == "" {
		exercise.ID = model.GenerateUUID()
	}
	s.exercises[exercise.ID] = *exercise
	return nil
}

func (s *MemStorage) GetUserProgress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress := []model.UserProgress{}
	for _, row := range s.progress {
		if row.UserID == userID {
			progress = append(progress, row)
		}
	}
	return progress, nil
}

func (s *MemStorage) GetLessonProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.lessonProgressLocked(userID, lessonID)
	if !ok {
		return nil, util.ErrNotFound
	}
	return &row, nil
}

func (s *MemStorage) lessonProgressLocked(userID, lessonID string) (model.UserProgress, bool) {
	for _, row := range s.progress {
		if row.UserID == userID && row.LessonID == lessonID {
			return row, true
		}
	}
	return model.UserProgress{}, false
}

func (s *MemStorage) UpdateUserProgress(ctx context.Context, userID, lessonID string, upd model.ProgressUpdate) (*model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.lessonProgressLocked(userID, lessonID)
	if !ok {
		row = model.UserProgress{
			UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
			UserID:   userID,
			LessonID: lessonID,
		}
	}
	upd.Apply(&row)
	row.LastAttempt = time.Now()
	s.progress[row.ID] = row
	return &row, nil
}

func (s *MemStorage) GetAchievements(ctx context.Context) ([]model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	achievements := make([]model.Achievement, 0, len(s.achievements))
	for _, achievement := range s.achievements {
		achievements = append(achievements, achievement)
	}
	return achievements, nil
}

func (s *MemStorage) CreateAchievement(ctx context.Context, achievement *model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if achievement.ID == "" {
		achievement.ID = model.GenerateUUID()
	}
	if achievement.XPReward == 0 {
		achievement.XPReward = 50
	}
	s.achievements[achievement.ID] = *achievement
	return nil
}

func (s *MemStorage) GetUserAchievements(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unlocks := []model.UserAchievement{}
	for _, unlock := range s.userAchievements {
		if unlock.UserID == userID {
			unlocks = append(unlocks, unlock)
		}
	}
	return unlocks, nil
}

func (s *MemStorage) UnlockAchievement(ctx context.Context, userID, achievementID string) (*model.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.userAchievements {
		if existing.UserID == userID && existing.AchievementID == achievementID {
			e := existing
			return &e, nil
		}
	}
	unlock := model.UserAchievement{
		UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	s.userAchievements[unlock.ID] = unlock
	return &unlock, nil
}
