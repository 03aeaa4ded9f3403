package services

import (
	"log/slog"
	"testing"
	"time"

	"orbit-gateway/auth"
	"orbit-gateway/errors"
	"orbit-gateway/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (IAuthService, *repositories.BadgerDirectory, *auth.Gate) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	gate := auth.NewGate("test-secret", time.Hour)
	directory := repositories.NewBadgerDirectory(db)
	users := repositories.NewUserRepository(db)
	return NewAuthService(log, users, directory, gate), directory, gate
}

func TestAuthService_Register_Then_Login(t *testing.T) {
	req := require.New(t)
	service, directory, gate := newAuthService(t)
	email := "alice@example.com"
	password := "ComplexPass123!"

	// Given a fresh registration
	token, err := service.Register(email, password, "Alice")
	req.NoError(err)
	req.NotEmpty(token)

	// Then the issued token resolves through the gate
	userID, err := gate.Resolve(string(token))
	req.NoError(err)

	// And the user is resolvable as a sender
	profile, err := directory.LookupUser(userID)
	req.NoError(err)
	req.Equal("Alice", profile.DisplayName)

	// And the credentials work for login
	loginToken, err := service.Login(email, password)
	req.NoError(err)
	resolved, err := gate.Resolve(string(loginToken))
	req.NoError(err)
	req.Equal(userID, resolved)
}

func TestAuthService_Register_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	service, _, _ := newAuthService(t)
	email := "alice@example.com"
	password := "ComplexPass123!"

	_, err := service.Register(email, password, "Alice")
	req.NoError(err)

	_, err = service.Register(email, password, "Impostor")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestAuthService_Register_Weak_Password(t *testing.T) {
	req := require.New(t)
	service, _, _ := newAuthService(t)

	_, err := service.Register("alice@example.com", "simple", "Alice")
	req.ErrorIs(err, errors.ErrInvalidPassword)
}

func TestAuthService_Login_Failures(t *testing.T) {
	req := require.New(t)
	service, _, _ := newAuthService(t)
	email := "alice@example.com"

	_, err := service.Register(email, "ComplexPass123!", "Alice")
	req.NoError(err)

	// Wrong password and unknown account fail the same way
	_, err = service.Login(email, "WrongPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	_, err = service.Login("nobody@example.com", "ComplexPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
