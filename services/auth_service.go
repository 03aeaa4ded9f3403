package services

import (
	"fmt"
	"log/slog"

	"orbit-gateway/auth"
	"orbit-gateway/domain"
	"orbit-gateway/errors"
	"orbit-gateway/repositories"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(email, password, displayName string) (Token, error)
}

type Token string

type AuthService struct {
	log       *slog.Logger
	users     repositories.IUserRepository
	directory *repositories.BadgerDirectory
	gate      *auth.Gate
}

func NewAuthService(log *slog.Logger, users repositories.IUserRepository,
	directory *repositories.BadgerDirectory, gate *auth.Gate) IAuthService {
	return &AuthService{log: log, users: users, directory: directory, gate: gate}
}

func (s *AuthService) Register(email, password, displayName string) (Token, error) {
	// Business rules (email format, password complexity) are checked before
	// any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Email: email, Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing stays in the service layer so the repository never sees a
	// plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.users.CreateUser(email, hashedPassword)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the email is taken.
	}

	// The directory profile makes the new user resolvable as a sender.
	if err := s.directory.SaveProfile(domain.UserProfile{ID: userID, DisplayName: displayName}); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	token, err := s.gate.GenerateToken(userID, []string{"user"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.gate.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
