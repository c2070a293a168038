package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple-choice"
	DragDrop       ExerciseType = "drag-drop"
	Audio          ExerciseType = "audio"
)

// Option is one selectable choice or draggable item of an exercise.
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// OptionList is stored as a JSON column.
type OptionList []Option

func (l OptionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *OptionList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into OptionList", value)
	}
	return json.Unmarshal(data, l)
}

// swagger:model Exercise
type Exercise struct {
	UUIDBase
	LessonID      string       `gorm:"type:varchar(36);not null;index" json:"lessonId"`
	Type          ExerciseType `gorm:"size:30;not null" json:"type"`
	Question      string       `gorm:"size:500;not null" json:"question"`
	Options       OptionList   `gorm:"type:json;not null" json:"options"`
	CorrectAnswer Answer       `gorm:"type:text;not null" json:"correctAnswer"`
	Explanation   *string      `gorm:"size:1000" json:"explanation"`
	AudioURL      *string      `gorm:"size:255" json:"audioUrl"`
	ImageURL      *string      `gorm:"size:255" json:"imageUrl"`
	Order         int          `gorm:"column:display_order;not null" json:"order"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// Validate checks that the stored answer variant matches the type tag and
// refers only to options the exercise actually has.
func (e *Exercise) Validate() error {
	switch e.Type {
	case MultipleChoice, Audio:
		if e.CorrectAnswer.Kind != AnswerSingle {
			return errors.New("single-answer exercise requires an option id answer")
		}
		if !e.hasOption(e.CorrectAnswer.OptionID) {
			return fmt.Errorf("answer %q is not an option of the exercise", e.CorrectAnswer.OptionID)
		}
	case DragDrop:
		if e.CorrectAnswer.Kind != AnswerMatching {
			return errors.New("drag-drop exercise requires a matching answer")
		}
		if len(e.CorrectAnswer.Pairs) == 0 {
			return errors.New("matching answer has no pairs")
		}
		for itemID := range e.CorrectAnswer.Pairs {
			if !e.hasOption(itemID) {
				return fmt.Errorf("matching item %q is not an option of the exercise", itemID)
			}
		}
	default:
		return fmt.Errorf("unknown exercise type %q", e.Type)
	}
	return nil
}

func (e *Exercise) hasOption(id string) bool {
	for _, o := range e.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
