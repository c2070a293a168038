package model

import (
	"time"
)

type AchievementType string

const (
	StreakAchievement     AchievementType = "streak"
	CompletionAchievement AchievementType = "completion"
	AccuracyAchievement   AchievementType = "accuracy"
	MilestoneAchievement  AchievementType = "milestone"
)

// swagger:model Achievement
type Achievement struct {
	UUIDBase
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Icon        string          `gorm:"size:100;not null" json:"icon"`
	Type        AchievementType `gorm:"size:30;not null" json:"type"`
	Requirement int             `gorm:"not null" json:"requirement"`
	XPReward    int             `gorm:"column:xp_reward;default:50" json:"xpReward"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records that a user unlocked an achievement. Unlocking is
// a one-way fact; the composite index makes repeat unlocks idempotent.
type UserAchievement struct {
	UUIDBase
	UserID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"userId"`
	AchievementID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// UnlockedAchievement is a user's unlock joined with its definition, the
// shape the achievements page consumes.
type UnlockedAchievement struct {
	UserAchievement
	Achievement *Achievement `json:"achievement,omitempty"`
}
