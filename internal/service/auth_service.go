package service

import (
	"context"
	"errors"

	"doglingo_backend/internal/config"
	"doglingo_backend/internal/model"
	"doglingo_backend/internal/repository"
	"doglingo_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Store repository.Storage
	Cfg   *config.Config
}

func NewAuthService(store repository.Storage, cfg *config.Config) *AuthService {
	return &AuthService{
		Store: store,
		Cfg:   cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	if _, err := s.Store.GetUserByUsername(ctx, user.Username); err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, util.ErrNotFound) {
		return err
	}
	if _, err := s.Store.GetUserByEmail(ctx, user.Email); err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.Store.CreateUser(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
