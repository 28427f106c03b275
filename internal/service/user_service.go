package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/auth"
	"github.com/mostafayousef44200444-rgb/backend/internal/model"
	"github.com/mostafayousef44200444-rgb/backend/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a new account and returns a signed identity token.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	email := normaliseEmail(req.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("email", email).Msg("registration with taken email")
		return nil, model.ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Password:  hash,
		Role:      model.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	// The unique email index closes the check-then-insert race.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user registered")

	return &model.AuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
		User:    *user,
	}, nil
}

// Login verifies credentials and returns a signed identity token. The failure
// message never reveals whether the email exists.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredential
	}

	user, err := s.userRepo.FindByEmail(ctx, normaliseEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, model.ErrInvalidCredential
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user logged in")

	return &model.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    *user,
	}, nil
}

// GetAll retrieves every registered user.
func (s *userService) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// validateRegisterRequest checks the registration payload.
func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Request body is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "First and last name are required")
	}
	if normaliseEmail(req.Email) == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Email is required")
	}
	if len(req.Password) < 6 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Password must be at least 6 characters")
	}
	return nil
}

// normaliseEmail lowercases and trims an email so uniqueness is
// case-insensitive.
func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
