package auth

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timecard-backend-go/internal/repository/postgresql"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"

	testOperator = "payroll-admin"
	testPassword = "password123"
)

// authTestDB opens the integration database; tests are skipped when
// TEST_DATABASE_URL is not set.
func authTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed auth tests")
	}
	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), "TRUNCATE TABLE refresh_tokens")
		db.Close()
	})
	return db
}

func newTestAuthService(t *testing.T, db *database.DB) auth.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	jwtRepo := postgresql.NewJWTRepository(db)
	operator := Operator{Username: testOperator, PasswordHash: string(hash)}
	return NewAuthService(db, operator, jwtService, jwtRepo)
}

func testSession() auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: testOperator, Password: testPassword}, testSession())

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, resp.RefreshTokenExpiresIn, int64(0))
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	_, err := svc.Login(ctx, auth.LoginRequest{Username: testOperator, Password: "wrong"}, testSession())
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	_, err := svc.Login(ctx, auth.LoginRequest{Username: "someone-else", Password: testPassword}, testSession())
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	login, err := svc.Login(ctx, auth.LoginRequest{Username: testOperator, Password: testPassword}, testSession())
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	_, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	login, err := svc.Login(ctx, auth.LoginRequest{Username: testOperator, Password: testPassword}, testSession())
	require.NoError(t, err)

	// An access token is a valid JWT but carries the wrong type claim.
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	db := authTestDB(t)
	svc := newTestAuthService(t, db)

	login, err := svc.Login(ctx, auth.LoginRequest{Username: testOperator, Password: testPassword}, testSession())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
