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

func TestUserServiceAwardXP(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemStorage()
	svc := NewUserService(store)

	user := &model.User{Username: "alex", Email: "alex@example.com", Password: "hash", DogName: "Buddy", TotalXP: 50}
	require.NoError(t, store.CreateUser(ctx, user))

	updated, err := svc.AwardXP(ctx, user.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.TotalXP)

	// Awards accumulate on the running total.
	updated, err = svc.AwardXP(ctx, user.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 175, updated.TotalXP)

	_, err = svc.AwardXP(ctx, "missing", 10)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
