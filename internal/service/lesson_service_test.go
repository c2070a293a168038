package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
	"doglingo_backend/internal/util"
)

func newLessonFixture(t *testing.T) (*LessonService, *model.Lesson) {
	t.Helper()
	store := repository.NewMemStorage()
	svc := NewLessonService(store, nil) // redis is optional

	lesson := &model.Lesson{Title: "Basic Commands", Order: 1}
	require.NoError(t, store.CreateLesson(context.Background(), lesson))
	return svc, lesson
}

func TestLessonServiceGetLessonsWithoutCache(t *testing.T) {
	svc, lesson := newLessonFixture(t)

	lessons, err := svc.GetLessons(context.Background())
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, lesson.ID, lessons[0].ID)
}

func TestLessonServiceCreateExercise(t *testing.T) {
	ctx := context.Background()
	svc, lesson := newLessonFixture(t)

	options := model.OptionList{{ID: "sit", Text: "SIT"}, {ID: "stay", Text: "STAY"}}

	tests := []struct {
		name     string
		exercise model.Exercise
		wantErr  bool
		errIs    error
	}{
		{
			name: "valid exercise",
			exercise: model.Exercise{
				LessonID:      lesson.ID,
				Type:          model.MultipleChoice,
				Question:      "Which signal means sit?",
				Options:       options,
				CorrectAnswer: model.SingleAnswer("sit"),
			},
		},
		{
			name: "answer not in options",
			exercise: model.Exercise{
				LessonID:      lesson.ID,
				Type:          model.MultipleChoice,
				Question:      "Which signal means sit?",
				Options:       options,
				CorrectAnswer: model.SingleAnswer("rollover"),
			},
			wantErr: true,
		},
		{
			name: "unknown lesson",
			exercise: model.Exercise{
				LessonID:      "missing",
				Type:          model.MultipleChoice,
				Question:      "Which signal means sit?",
				Options:       options,
				CorrectAnswer: model.SingleAnswer("sit"),
			},
			wantErr: true,
			errIs:   util.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateExercise(ctx, &tt.exercise)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestLessonServiceCheckAnswer(t *testing.T) {
	ctx := context.Background()
	svc, lesson := newLessonFixture(t)

	choice := &model.Exercise{
		LessonID:      lesson.ID,
		Type:          model.MultipleChoice,
		Question:      "Which signal means sit?",
		Options:       model.OptionList{{ID: "sit"}, {ID: "stay"}},
		CorrectAnswer: model.SingleAnswer("sit"),
		Order:         1,
	}
	require.NoError(t, svc.CreateExercise(ctx, choice))

	matching := &model.Exercise{
		LessonID: lesson.ID,
		Type:     model.DragDrop,
		Question: "Match the signals",
		Options:  model.OptionList{{ID: "sit"}, {ID: "stay"}},
		CorrectAnswer: model.MatchingAnswer(map[string]string{
			"sit":  "pointing-down",
			"stay": "palm-up",
		}),
		Order: 2,
	}
	require.NoError(t, svc.CreateExercise(ctx, matching))

	tests := []struct {
		name       string
		exerciseID string
		submitted  model.Answer
		want       bool
	}{
		{name: "correct choice", exerciseID: choice.ID, submitted: model.SingleAnswer("sit"), want: true},
		{name: "wrong choice", exerciseID: choice.ID, submitted: model.SingleAnswer("stay"), want: false},
		{
			name:       "correct matching",
			exerciseID: matching.ID,
			submitted:  model.MatchingAnswer(map[string]string{"sit": "pointing-down", "stay": "palm-up"}),
			want:       true,
		},
		{
			name:       "partial matching",
			exerciseID: matching.ID,
			submitted:  model.MatchingAnswer(map[string]string{"sit": "pointing-down"}),
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, exercise, err := svc.CheckAnswer(ctx, tt.exerciseID, tt.submitted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, correct)
			assert.Equal(t, tt.exerciseID, exercise.ID)
		})
	}

	_, _, err := svc.CheckAnswer(ctx, "missing", model.SingleAnswer("sit"))
	assert.ErrorIs(t, err, util.ErrNotFound)
}
