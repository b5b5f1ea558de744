package security_test

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/security"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionService() *security.SessionService {
	return security.NewSessionService(&config.SessionConfig{
		SecretKey:  "test-secret",
		SessionTTL: "12h",
		CookieName: "dms_session",
	})
}

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	svc := testSessionService()

	user := &model.User{
		UUID:     "user1",
		Username: "employee1",
		IsStaff:  false,
	}

	tokenStr, session, err := svc.GenerateSessionToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	require.NotNil(t, session)

	assert.Equal(t, "user1", session.UserUUID)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), session.ExpireAt, time.Minute)

	claims, err := svc.ValidateToken(tokenStr, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserUUID)
	assert.Equal(t, "employee1", claims.Username)
	assert.Equal(t, session.UUID, claims.SessionUUID)
	assert.False(t, claims.IsStaff)
}

func TestGenerateSessionToken_StaffFlagCarried(t *testing.T) {
	svc := testSessionService()

	user := &model.User{UUID: "admin1", Username: "admin_demo", IsStaff: true}

	tokenStr, _, err := svc.GenerateSessionToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenStr, []byte("test-secret"))
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := testSessionService()

	tokenStr, _, err := svc.GenerateSessionToken(&model.User{UUID: "user1", Username: "employee1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr, []byte("other-secret"))

	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := testSessionService()

	_, err := svc.ValidateToken("not-a-token", []byte("test-secret"))

	assert.Error(t, err)
}

func TestGenerateSessionToken_BadTTL(t *testing.T) {
	svc := security.NewSessionService(&config.SessionConfig{
		SecretKey:  "test-secret",
		SessionTTL: "не длительность",
	})

	_, _, err := svc.GenerateSessionToken(&model.User{UUID: "user1"})

	assert.Error(t, err)
}
