package database

import (
	"context"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
)

// Seed installs the default lesson catalog and achievement definitions when
// the store is empty. It runs against the Storage interface, so the memory
// driver gets the same content as a fresh database.
func Seed(ctx context.Context, store repository.Storage) error {
	lessons, err := store.GetLessons(ctx)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		if err := seedLessons(ctx, store); err != nil {
			return err
		}
	}

	achievements, err := store.GetAchievements(ctx)
	if err != nil {
		return err
	}
	if len(achievements) == 0 {
		if err := seedAchievements(ctx, store); err != nil {
			return err
		}
	}

	return nil
}

func seedLessons(ctx context.Context, store repository.Storage) error {
	basics := &model.Lesson{
		Title:             "Basic Commands",
		Description:       "Learn sit, stay, and down commands",
		Category:          "basics",
		Difficulty:        1,
		ExerciseCount:     6,
		EstimatedDuration: 15,
		Icon:              "fas fa-graduation-cap",
		Order:             1,
	}
	if err := store.CreateLesson(ctx, basics); err != nil {
		return err
	}

	advanced := &model.Lesson{
		Title:             "Advanced Commands",
		Description:       "Master complex behaviors and tricks",
		Category:          "advanced",
		Difficulty:        2,
		ExerciseCount:     8,
		EstimatedDuration: 20,
		Icon:              "fas fa-running",
		Order:             2,
	}
	if err := store.CreateLesson(ctx, advanced); err != nil {
		return err
	}

	explanation := "Each command has a specific hand signal that helps reinforce the verbal command"
	audioURL := "/audio/commands.mp3"
	exercises := []*model.Exercise{
		{
			LessonID: basics.ID,
			Type:     model.MultipleChoice,
			Question: "Which command tells your dog to lower its hindquarters to the ground?",
			Options: model.OptionList{
				{ID: "sit", Text: "SIT", Description: "Basic sitting position"},
				{ID: "stay", Text: "STAY", Description: "Remain in position"},
				{ID: "come", Text: "COME", Description: "Return to owner"},
			},
			CorrectAnswer: model.SingleAnswer("sit"),
			Order:         1,
		},
		{
			LessonID: advanced.ID,
			Type:     model.DragDrop,
			Question: "Match the command with the correct hand signal",
			Options: model.OptionList{
				{ID: "sit", Text: "SIT", Description: "Basic sitting position"},
				{ID: "stay", Text: "STAY", Description: "Remain in position"},
				{ID: "come", Text: "COME", Description: "Return to owner"},
			},
			CorrectAnswer: model.MatchingAnswer(map[string]string{
				"sit":  "pointing-down",
				"stay": "palm-up",
				"come": "open-palm",
			}),
			Explanation: &explanation,
			AudioURL:    &audioURL,
			Order:       1,
		},
	}
	for _, exercise := range exercises {
		if err := store.CreateExercise(ctx, exercise); err != nil {
			return err
		}
	}
	return nil
}

func seedAchievements(ctx context.Context, store repository.Storage) error {
	achievements := []*model.Achievement{
		{
			Title:       "First Command Master",
			Description: "Completed your first \"Sit\" lesson",
			Icon:        "fas fa-medal",
			Type:        model.CompletionAchievement,
			Requirement: 1,
			XPReward:    100,
		},
		{
			Title:       "Week Warrior",
			Description: "7-day training streak",
			Icon:        "fas fa-fire",
			Type:        model.StreakAchievement,
			Requirement: 7,
			XPReward:    200,
		},
		{
			Title:       "Perfect Practice",
			Description: "100% lesson accuracy",
			Icon:        "fas fa-paw",
			Type:        model.AccuracyAchievement,
			Requirement: 100,
			XPReward:    150,
		},
	}
	for _, achievement := range achievements {
		if err := store.CreateAchievement(ctx, achievement); err != nil {
			return err
		}
	}
	return nil
}
