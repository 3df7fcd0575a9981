package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, expiresAt, err := m.GenerateAccessToken(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AttendantID)
	assert.Equal(t, RoleAttendant, claims.Role)
}

func Test_JWTManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	token, _, err := NewJWTManager("secret", time.Hour).GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(expired)
	assert.Error(t, err)
}

func Test_GenerateReceiptNo(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	no := GenerateReceiptNo(at)

	assert.Regexp(t, regexp.MustCompile(`^RC-20240315-[0-9A-F]{8}$`), no)
	assert.NotEqual(t, no, GenerateReceiptNo(at))
}
