package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-partner/internal/config"
	"github.com/jonathan/interview-partner/internal/types"
)

// DemoAccount is a practice account seeded at startup.
type DemoAccount struct {
	Name     string
	Email    string
	Password string
}

// DemoAccounts are the accounts the browser client advertises on its login page.
var DemoAccounts = []DemoAccount{
	{Name: "Test User", Email: "test@example.com", Password: "password123"},
	{Name: "Admin", Email: "admin@interview.com", Password: "admin123"},
	{Name: "Demo", Email: "demo@demo.com", Password: "demo123"},
}

type account struct {
	user         types.User
	passwordHash string
}

// UserService keeps practice accounts in memory. Accounts are keyed by their
// normalized email, which doubles as the user id.
type UserService struct {
	passwordConfig *config.PasswordConfig
	now            func() time.Time

	mu       sync.RWMutex
	accounts map[string]*account
}

// NewUserService creates an empty user service.
func NewUserService(passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		passwordConfig: passwordConfig,
		now:            time.Now,
		accounts:       make(map[string]*account),
	}
}

// SeedDemoAccounts registers the given demo accounts, skipping emails that already exist.
func (s *UserService) SeedDemoAccounts(ctx context.Context, accounts []DemoAccount) error {
	for _, a := range accounts {
		_, err := s.Register(ctx, &types.SignupRequest{Name: a.Name, Email: a.Email, Password: a.Password})
		if err != nil {
			if _, exists := err.(*ErrEmailAlreadyExists); exists {
				continue
			}
			return fmt.Errorf("failed to seed %s: %w", a.Email, err)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with a bcrypt password hash.
func (s *UserService) Register(_ context.Context, req *types.SignupRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, &ErrValidation{Field: "Email", Message: "required"}
	}

	// Hash outside the lock; bcrypt is slow.
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	acc := &account{
		user: types.User{
			ID:        email,
			Name:      name,
			Email:     email,
			CreatedAt: s.now().UTC(),
		},
		passwordHash: passwordHash,
	}
	s.accounts[email] = acc

	user := acc.user
	return &user, nil
}

// Login checks credentials. Unknown emails and wrong passwords produce the same error.
func (s *UserService) Login(_ context.Context, req *types.LoginRequest) (*types.User, error) {
	s.mu.RLock()
	acc, ok := s.accounts[normalizeEmail(req.Email)]
	s.mu.RUnlock()

	if !ok {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, acc.passwordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	user := acc.user
	return &user, nil
}

// Get returns a registered user by id.
func (s *UserService) Get(_ context.Context, userID string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[normalizeEmail(userID)]
	if !ok {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	user := acc.user
	return &user, nil
}

// Guest creates an anonymous user. Guests are not stored; their token carries everything.
func (s *UserService) Guest() *types.User {
	return &types.User{
		ID:        "guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Name:      "Guest",
		IsGuest:   true,
		CreatedAt: s.now().UTC(),
	}
}
