package model

import (
	"time"
)

// swagger:model UserProgress
type UserProgress struct {
	UUIDBase
	UserID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_lesson" json:"userId"`
	LessonID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_lesson" json:"lessonId"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	Score       int       `gorm:"default:0" json:"score"`
	Attempts    int       `gorm:"default:0" json:"attempts"`
	LastAttempt time.Time `json:"lastAttempt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// ProgressUpdate carries the mutable progress fields of one attempt. Nil
// leaves a field untouched; last_attempt is always refreshed by the store.
type ProgressUpdate struct {
	Completed *bool `json:"completed"`
	Score     *int  `json:"score" binding:"omitempty,min=0,max=100"`
	Attempts  *int  `json:"attempts" binding:"omitempty,min=0"`
}

func (u *ProgressUpdate) Apply(p *UserProgress) {
	if u.Completed != nil {
		p.Completed = *u.Completed
	}
	if u.Score != nil {
		p.Score = *u.Score
	}
	if u.Attempts != nil {
		p.Attempts = *u.Attempts
	}
}
