package model

import (
	"time"
)

// swagger:model User
type User struct {
	UUIDBase
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	DogName   string    `gorm:"size:100;not null" json:"dogName"`
	Streak    int       `gorm:"default:0" json:"streak"`
	TotalXP   int       `gorm:"column:total_xp;default:0" json:"totalXp"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// UserUpdate enumerates the fields a PATCH may touch. Nil leaves the
// field as it is; id, credentials and created_at are not updatable.
type UserUpdate struct {
	DogName *string `json:"dogName"`
	Streak  *int    `json:"streak" binding:"omitempty,min=0"`
	TotalXP *int    `json:"totalXp" binding:"omitempty,min=0"`
}

func (u *UserUpdate) Apply(user *User) {
	if u.DogName != nil {
		user.DogName = *u.DogName
	}
	if u.Streak != nil {
		user.Streak = *u.Streak
	}
	if u.TotalXP != nil {
		user.TotalXP = *u.TotalXP
	}
}
