// Package exercise holds the in-process answer lifecycle of a single
// exercise: tentative selection, submission, skipping and reset. Nothing in
// here persists; recording a result is a separate call against the API.
package exercise

import (
	"errors"

	"doglingo_backend/internal/model"
)

type State int

const (
	Unanswered State = iota
	AnsweredCorrect
	AnsweredIncorrect
)

var (
	ErrAlreadyAnswered = errors.New("exercise already answered")
	ErrNoSelection     = errors.New("no option selected")
	ErrWrongKind       = errors.New("operation does not apply to this exercise type")
)

// Session drives one exercise instance through
// unanswered -> answered-correct | answered-incorrect, terminal until Reset.
type Session struct {
	exercise  *model.Exercise
	state     State
	selection string
	board     *Board
}

func NewSession(ex *model.Exercise) *Session {
	s := &Session{exercise: ex}
	if ex.Type == model.DragDrop {
		s.board = NewBoard()
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Selection() string { return s.selection }

// Select records a tentative choice. It is a no-op once answered.
func (s *Session) Select(optionID string) error {
	if s.state != Unanswered {
		return ErrAlreadyAnswered
	}
	if s.exercise.Type == model.DragDrop {
		return ErrWrongKind
	}
	s.selection = optionID
	return nil
}

// Assign places a draggable item into a drop zone.
func (s *Session) Assign(itemID, zoneID string) error {
	if s.state != Unanswered {
		return ErrAlreadyAnswered
	}
	if s.exercise.Type != model.DragDrop {
		return ErrWrongKind
	}
	s.board.Assign(itemID, zoneID)
	return nil
}

// Submit grades the current selection or board against the exercise's
// correct answer and moves to the terminal state.
func (s *Session) Submit() (bool, error) {
	if s.state != Unanswered {
		return false, ErrAlreadyAnswered
	}

	var correct bool
	switch s.exercise.Type {
	case model.DragDrop:
		if len(s.board.Assignments()) == 0 {
			return false, ErrNoSelection
		}
		correct = s.exercise.CorrectAnswer.MatchesPairs(s.board.Assignments())
	default:
		if s.selection == "" {
			return false, ErrNoSelection
		}
		correct = s.exercise.CorrectAnswer.Matches(s.selection)
	}

	if correct {
		s.state = AnsweredCorrect
	} else {
		s.state = AnsweredIncorrect
	}
	return correct, nil
}

// Skip counts as an incorrect answer regardless of any selection.
func (s *Session) Skip() error {
	if s.state != Unanswered {
		return ErrAlreadyAnswered
	}
	s.state = AnsweredIncorrect
	return nil
}

// Reset returns to unanswered and clears selection and board.
func (s *Session) Reset() {
	s.state = Unanswered
	s.selection = ""
	if s.board != nil {
		s.board.Clear()
	}
}

func (s *Session) IsCorrect() bool { return s.state == AnsweredCorrect }
