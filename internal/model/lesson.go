package model

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title             string `gorm:"size:200;not null" json:"title"`
	Description       string `gorm:"size:500;not null" json:"description"`
	Category          string `gorm:"size:100;not null" json:"category"`
	Difficulty        int    `gorm:"default:1" json:"difficulty"`
	ExerciseCount     int    `gorm:"not null" json:"exercises"`
	EstimatedDuration int    `gorm:"not null" json:"estimatedDuration"` // minutes
	IsLocked          bool   `gorm:"default:false" json:"isLocked"`
	Icon              string `gorm:"size:100;not null" json:"icon"`
	Order             int    `gorm:"column:display_order;not null;index" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
