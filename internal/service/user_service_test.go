package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/service"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(newFakeUserRepo())

	user, err := svc.CreateUser(ctx, " Alice ", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)

	_, err = svc.CreateUser(ctx, "alice", "pw2", domain.RoleUser)
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	_, err = svc.CreateUser(ctx, "bob", "", domain.RoleUser)
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = svc.CreateUser(ctx, "bob", "pw", domain.Role("owner"))
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestUserService_SetUserActive(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(newFakeUserRepo(domain.User{ID: 3, Username: "c", Role: domain.RoleUser, IsActive: true}))

	user, err := svc.SetUserActive(ctx, 3, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	_, err = svc.SetUserActive(ctx, 99, true)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestActor_CanAccess(t *testing.T) {
	admin := service.Actor{UserID: 1, Role: domain.RoleAdmin}
	client := service.Actor{UserID: 2, Role: domain.RoleUser}

	assert.True(t, admin.CanAccess(2))
	assert.True(t, client.CanAccess(2))
	assert.False(t, client.CanAccess(3))
}
