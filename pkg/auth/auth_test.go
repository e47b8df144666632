package auth

import (
	"context"
	"testing"
	"time"

	"carrental/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789"

func testUser() *model.User {
	return &model.User{
		ID:       "65a000000000000000000001",
		Username: "jane",
		Email:    "jane@rental.io",
		Phone:    "+919876543210",
		Role:     model.RoleUser,
	}
}

func TestJWTMaker_RoundTrip(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)

	token, err := maker.Generate(testUser())
	require.NoError(t, err)

	claims, err := maker.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "65a000000000000000000001", claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "jane@rental.io", claims.Email)
}

func TestJWTMaker_Expired(t *testing.T) {
	maker := &jwtMaker{secret: []byte(testSecret), ttl: time.Minute, now: time.Now}
	maker.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := maker.Generate(testUser())
	require.NoError(t, err)

	maker.now = time.Now
	_, err = maker.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTMaker_Rejects(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)
	other := NewJWTMaker("another-secret-0123456789", time.Hour)

	foreign, err := other.Generate(testUser())
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x", Role: model.RoleAdmin})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole := testUser()
	badRole.Role = "root"
	badRoleToken, err := maker.Generate(badRole)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"alg none":     noneToken,
		"unknown role": badRoleToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := maker.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, hasher.Compare(hash, "secret1"))
	assert.Error(t, hasher.Compare(hash, "secret2"))
}

func TestIdentity(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	user := &Identity{UserID: "u1", Role: model.RoleUser}
	ctx := WithIdentity(context.Background(), user)
	got, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Same(t, user, got)

	assert.True(t, user.CanActOn("u1"))
	assert.False(t, user.CanActOn("u2"))
	assert.False(t, user.IsAdmin())

	admin := &Identity{UserID: "a1", Role: model.RoleAdmin}
	assert.True(t, admin.CanActOn("u2"))
	assert.True(t, admin.IsAdmin())

	var nobody *Identity
	assert.False(t, nobody.CanActOn("u1"))
}
