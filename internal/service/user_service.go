package service

import (
	"context"

	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
)

type UserService struct {
	Store repository.Storage
}

func NewUserService(store repository.Storage) *UserService {
	return &UserService{Store: store}
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.Store.GetUser(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	return s.Store.UpdateUser(ctx, id, upd)
}

// AwardXP adds xp to the user's running total.
func (s *UserService) AwardXP(ctx context.Context, id string, xp int) (*model.User, error) {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	total := user.TotalXP + xp
	return s.Store.UpdateUser(ctx, id, model.UserUpdate{TotalXP: &total})
}
