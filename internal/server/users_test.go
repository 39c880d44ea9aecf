package server

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-partner/internal/config"
	"github.com/jonathan/interview-partner/internal/types"
)

func setupTestUserService(_ *testing.T) *UserService {
	return NewUserService(&config.PasswordConfig{BcryptCost: 10}) // lowest allowed cost keeps tests fast
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.SignupRequest{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.False(t, user.IsGuest)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := svc.Login(ctx, &types.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserService_RegisterDefaultsName(t *testing.T) {
	svc := setupTestUserService(t)

	user, err := svc.Register(context.Background(), &types.SignupRequest{Email: "grace@navy.mil", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Name)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.SignupRequest{Email: "dup@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.SignupRequest{Email: "DUP@example.com", Password: "other12"})
	var exists *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "dup@example.com", exists.Email)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.SignupRequest{Email: "user@example.com", Password: "right-password"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: "right-password"})
	assert.IsType(t, &ErrInvalidCredentials{}, err, "unknown email looks like a wrong password")
}

func TestUserService_Get(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.SignupRequest{Email: "me@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Get(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = svc.Get(ctx, "ghost@example.com")
	assert.IsType(t, &ErrUserNotFound{}, err)
}

func TestUserService_SeedDemoAccounts(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedDemoAccounts(ctx, DemoAccounts))
	require.NoError(t, svc.SeedDemoAccounts(ctx, DemoAccounts), "seeding twice skips existing accounts")

	for _, demo := range DemoAccounts {
		user, err := svc.Login(ctx, &types.LoginRequest{Email: demo.Email, Password: demo.Password})
		require.NoError(t, err, demo.Email)
		assert.Equal(t, demo.Email, user.Email)
	}
}

func TestUserService_Guest(t *testing.T) {
	svc := setupTestUserService(t)

	a := svc.Guest()
	b := svc.Guest()
	assert.True(t, a.IsGuest)
	assert.True(t, strings.HasPrefix(a.ID, "guest_"))
	assert.Len(t, a.ID, len("guest_")+12)
	assert.NotEqual(t, a.ID, b.ID)

	_, err := svc.Get(context.Background(), a.ID)
	assert.Error(t, err, "guests are not stored")
}

func TestUserService_ConcurrentRegister(t *testing.T) {
	svc := setupTestUserService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, &types.SignupRequest{Email: "race@example.com", Password: "secret1"})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one registration wins")
}
