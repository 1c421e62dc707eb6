package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"virtualevents/internal/domain"
)

const (
	bcryptCost     = 10
	minPasswordLen = 6
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-z0-9._-]{3,15}$`)
)

type authService struct {
	userRepo domain.UserRepository
	tokens   domain.TokenIssuer
}

// NewAuthService creates an AuthService with the given repository and issuer.
func NewAuthService(userRepo domain.UserRepository, tokens domain.TokenIssuer) domain.AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, name, username, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(name, username, email, password); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique indexes remain the real guarantee under
	// concurrent registrations.
	if _, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, fmt.Errorf("email or username already in use: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAttendee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("email or username already in use: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func validateRegistration(name, username, email, password string) error {
	var fields []string
	if n := len(name); n < 2 || n > 100 {
		fields = append(fields, "name must be between 2 and 100 characters")
	}
	if !usernameRegexp.MatchString(username) {
		fields = append(fields, "username must be 3-15 characters (lowercase letters, digits, . _ -)")
	}
	if !emailRegexp.MatchString(email) {
		fields = append(fields, "invalid email format")
	}
	if len(password) < minPasswordLen {
		fields = append(fields, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
