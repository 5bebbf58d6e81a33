package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/workout-scheduler-go/pkg/database"
)

func newTestService() *Service {
	s := NewService("jwt-secret", "master-secret")
	s.BcryptCost = bcrypt.MinCost
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestService()

	token, err := s.CreateToken("admin")
	require.NoError(t, err)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	other := NewService("another-secret", "master-secret")
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	s := newTestService()
	claims := &Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwtAlgorithm, claims).SignedString(s.JWTSecret)
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.Error(t, err)
}

func TestHMACKeys(t *testing.T) {
	s := newTestService()

	key := s.GenerateHMACKey("gym.app")
	userID, err := s.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "gym.app", userID)

	_, err = s.VerifyHMACKey("gym.app.deadbeef")
	assert.EqualError(t, err, "invalid signature")

	_, err = s.VerifyHMACKey("nodot")
	assert.EqualError(t, err, "invalid key format")

	_, err = NewService("jwt-secret", "rotated").VerifyHMACKey(key)
	assert.Error(t, err)
}

func TestPasswords(t *testing.T) {
	s := newTestService()
	hash, err := s.HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestEnsureAdminExists(t *testing.T) {
	db, err := database.InitDB(database.Options{DataPath: "file:" + t.Name() + "?mode=memory&cache=shared", Quiet: true})
	require.NoError(t, err)
	s := newTestService()

	require.NoError(t, s.EnsureAdminExists(db, "coach", "s3cret"))
	require.NoError(t, s.EnsureAdminExists(db, "other", "ignored"))

	var users []database.MasterUser
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "coach", users[0].Username)
	assert.True(t, CheckPasswordHash("s3cret", users[0].PasswordHash))
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "****", KeyPreview("short"))
	assert.Equal(t, "gym...beef", KeyPreview("gym.app.deadbeef"))
}
