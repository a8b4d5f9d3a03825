package main

import (
	"testing"
	"time"

	"userapi/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenIssueAndVerify(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice", "alice@bar.baz", "secret", false)

	token, err := generateAuthToken(user)
	require.NoError(t, err)

	resolved := verifyAuthToken(token)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)

	// identical state signs to an identical token
	again, err := generateAuthToken(user)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	// a moved counter produces a different token
	user.RevokedTokenCount++
	fresh, err := generateAuthToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
}

func TestVerifyAuthTokenFailsClosed(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "bob", "bob@bar.baz", "secret", false)

	token, err := generateAuthToken(user)
	require.NoError(t, err)

	// tampered token resolves to no identity, no panic, no error
	assert.Nil(t, verifyAuthToken(token+"x"))
	assert.Nil(t, verifyAuthToken("not-a-token"))
	assert.Nil(t, verifyAuthToken(""))

	// token signed under a different key
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": user.ID})
	forged, err := other.SignedString([]byte("wrong-key"))
	require.NoError(t, err)
	assert.Nil(t, verifyAuthToken(forged))
}

func TestTimedTokenPurposeSeparation(t *testing.T) {
	setupTestDB(t)

	token, err := generateTimedToken("foo@bar.baz", confirmSalt)
	require.NoError(t, err)

	email, err := verifyTimedToken(token, confirmSalt, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.baz", email)

	// a confirmation token cannot be replayed as a recovery token
	_, err = verifyTimedToken(token, recoverySalt, time.Hour)
	assert.ErrorIs(t, err, errTokenInvalid)
}

func TestTimedTokenExpiry(t *testing.T) {
	setupTestDB(t)

	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "foo@bar.baz",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
	})
	token, err := stale.SignedString(timedKey(confirmSalt))
	require.NoError(t, err)

	// expired is distinguishable from forged
	_, err = verifyTimedToken(token, confirmSalt, time.Hour)
	assert.ErrorIs(t, err, errTokenExpired)

	_, err = verifyTimedToken("wrongtokenindeed", confirmSalt, time.Hour)
	assert.ErrorIs(t, err, errTokenInvalid)

	// maxAge <= 0 means unbounded
	email, err := verifyTimedToken(token, confirmSalt, 0)
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.baz", email)
}

func TestPasswordNeverStoredRaw(t *testing.T) {
	u := &models.User{}
	require.NoError(t, u.SetPassword("hunter2"))
	assert.NotEqual(t, "hunter2", u.Password)
	assert.True(t, u.VerifyPassword("hunter2"))
	assert.False(t, u.VerifyPassword("hunter3"))

	// most recent value wins
	require.NoError(t, u.SetPassword("correct horse"))
	assert.False(t, u.VerifyPassword("hunter2"))
	assert.True(t, u.VerifyPassword("correct horse"))
}
