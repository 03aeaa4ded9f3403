package auth

import (
	"testing"
	"time"

	"orbit-gateway/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGate_Generate_And_Resolve(t *testing.T) {
	req := require.New(t)
	gate := NewGate("test-secret", time.Hour)
	userID := uuid.NewString()

	token, err := gate.GenerateToken(userID, []string{"user"})
	req.NoError(err)

	resolved, err := gate.Resolve(token)
	req.NoError(err)
	req.Equal(userID, resolved)
}

func TestGate_Resolve_Rejects_Garbage(t *testing.T) {
	req := require.New(t)
	gate := NewGate("test-secret", time.Hour)

	_, err := gate.Resolve("not-a-token")
	req.ErrorIs(err, errors.ErrUnauthorized)

	_, err = gate.Resolve("")
	req.ErrorIs(err, errors.ErrUnauthorized)
}

func TestGate_Resolve_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	gate := NewGate("test-secret", time.Hour)
	other := NewGate("another-secret", time.Hour)

	token, err := other.GenerateToken(uuid.NewString(), nil)
	req.NoError(err)

	_, err = gate.Resolve(token)
	req.ErrorIs(err, errors.ErrUnauthorized)
}

func TestGate_Resolve_Rejects_Expired(t *testing.T) {
	req := require.New(t)
	gate := NewGate("test-secret", -time.Minute)

	token, err := gate.GenerateToken(uuid.NewString(), nil)
	req.NoError(err)

	_, err = gate.Resolve(token)
	req.ErrorIs(err, errors.ErrUnauthorized)
}

func TestPassword_Hash_And_Compare(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("Sup3r$ecretPass")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	match, err := ComparePassword("Sup3r$ecretPass", hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)
}

func TestPassword_Unique_Salts(t *testing.T) {
	req := require.New(t)

	hash1, err := HashPassword("Sup3r$ecretPass")
	req.NoError(err)
	hash2, err := HashPassword("Sup3r$ecretPass")
	req.NoError(err)
	req.NotEqual(hash1, hash2)
}

func TestValidateRegister(t *testing.T) {
	req := require.New(t)

	// A complex password with a valid email passes
	req.NoError(ValidateRegister(RegisterRequest{
		Email: "alice@example.com", Password: "Sup3r$ecretPass",
	}))

	// Malformed email
	req.Error(ValidateRegister(RegisterRequest{
		Email: "not-an-email", Password: "Sup3r$ecretPass",
	}))

	// Too short
	req.Error(ValidateRegister(RegisterRequest{
		Email: "alice@example.com", Password: "Sh0rt$",
	}))

	// Long enough but no special character
	req.ErrorIs(ValidateRegister(RegisterRequest{
		Email: "alice@example.com", Password: "NoSpecialChar123",
	}), errors.ErrInvalidPassword)
}
