package service

import (
	"context"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
	"doglingo_backend/pkg/logger"

	"go.uber.org/zap"
)

type AchievementService struct {
	Store repository.Storage
	Users *UserService
}

func NewAchievementService(store repository.Storage) *AchievementService {
	return &AchievementService{
		Store: store,
		Users: NewUserService(store),
	}
}

func (s *AchievementService) List(ctx context.Context) ([]model.Achievement, error) {
	return s.Store.GetAchievements(ctx)
}

func (s *AchievementService) Create(ctx context.Context, achievement *model.Achievement) error {
	return s.Store.CreateAchievement(ctx, achievement)
}

// UserAchievements returns the user's unlocks joined with their definitions.
func (s *AchievementService) UserAchievements(ctx context.Context, userID string) ([]model.UnlockedAchievement, error) {
	unlocks, err := s.Store.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	definitions, err := s.Store.GetAchievements(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Achievement, len(definitions))
	for _, def := range definitions {
		byID[def.ID] = def
	}

	enriched := make([]model.UnlockedAchievement, len(unlocks))
	for i, unlock := range unlocks {
		enriched[i] = model.UnlockedAchievement{UserAchievement: unlock}
		if def, ok := byID[unlock.AchievementID]; ok {
			d := def
			enriched[i].Achievement = &d
		}
	}
	return enriched, nil
}

// Unlock records the unlock fact and awards the achievement's XP the first
// time only; repeating the call is a no-op beyond returning the row.
func (s *AchievementService) Unlock(ctx context.Context, userID, achievementID string) (*model.UserAchievement, error) {
	already, err := s.alreadyUnlocked(ctx, userID, achievementID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Store.UnlockAchievement(ctx, userID, achievementID)
	if err != nil {
		return nil, err
	}

	if !already {
		s.awardReward(ctx, userID, achievementID)
	}
	return unlock, nil
}

// Evaluate walks the locked achievements of a user and unlocks every one
// whose rule is now satisfied. Returns the newly unlocked definitions.
func (s *AchievementService) Evaluate(ctx context.Context, userID string) ([]model.Achievement, error) {
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	definitions, err := s.Store.GetAchievements(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.Store.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(unlocks))
	for _, unlock := range unlocks {
		unlocked[unlock.AchievementID] = true
	}

	progress, err := s.Store.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newly []model.Achievement
	for _, def := range definitions {
		if unlocked[def.ID] || !s.satisfied(def, user, progress) {
			continue
		}
		if _, err := s.Store.UnlockAchievement(ctx, userID, def.ID); err != nil {
			return newly, err
		}
		s.awardReward(ctx, userID, def.ID)
		newly = append(newly, def)
	}
	return newly, nil
}

func (s *AchievementService) satisfied(def model.Achievement, user *model.User, progress []model.UserProgress) bool {
	switch def.Type {
	case model.StreakAchievement:
		return user.Streak >= def.Requirement
	case model.CompletionAchievement:
		completed := 0
		for _, row := range progress {
			if row.Completed {
				completed++
			}
		}
		return completed >= def.Requirement
	case model.AccuracyAchievement:
		for _, row := range progress {
			if row.Completed && row.Score >= def.Requirement {
				return true
			}
		}
		return false
	case model.MilestoneAchievement:
		return user.TotalXP >= def.Requirement
	}
	return false
}

func (s *AchievementService) alreadyUnlocked(ctx context.Context, userID, achievementID string) (bool, error) {
	unlocks, err := s.Store.GetUserAchievements(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, unlock := range unlocks {
		if unlock.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (s *AchievementService) awardReward(ctx context.Context, userID, achievementID string) {
	definitions, err := s.Store.GetAchievements(ctx)
	if err != nil {
		logger.Log.Error("achievement reward lookup failed", zap.Error(err))
		return
	}
	for _, def := range definitions {
		if def.ID != achievementID {
			continue
		}
		if _, err := s.Users.AwardXP(ctx, userID, def.XPReward); err != nil {
			logger.Log.Error("achievement reward award failed", zap.Error(err))
		}
		return
	}
}
