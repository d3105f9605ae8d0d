package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository
	users  map[string]user.User
	linked []string
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	u, err := f.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	provider := user.OAuthProviderGoogle
	u.OAuthProvider = &provider
	u.OAuthProviderID = &googleID
	f.users[u.ID] = u
	f.linked = append(f.linked, googleID)
	return u, nil
}

type fakeAdminRepo struct {
	admin.AdminRepository
	byUser map[string]admin.Admin
}

func (f *fakeAdminRepo) GetByUserID(ctx context.Context, userID string) (admin.Admin, error) {
	a, ok := f.byUser[userID]
	if !ok {
		return admin.Admin{}, admin.ErrAdminNotFound
	}
	return a, nil
}

type fakeTokenRepo struct {
	stored  map[string]bool
	revoked map[string]bool
}

func (f *fakeTokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	f.stored[token] = true
	return nil
}

func (f *fakeTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	return !f.stored[token] || f.revoked[token], nil
}

func (f *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc    auth.AuthService
	jwt    jwt.Service
	users  *fakeUserRepo
	tokens *fakeTokenRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	users := &fakeUserRepo{users: map[string]user.User{
		"u-admin":  {ID: "u-admin", Email: "admin@example.com", PasswordHash: &hashed},
		"u-plain":  {ID: "u-plain", Email: "plain@example.com", PasswordHash: &hashed},
		"u-google": {ID: "u-google", Email: "google@example.com"},
	}}
	admins := &fakeAdminRepo{byUser: map[string]admin.Admin{
		"u-admin":  {ID: "a-admin", UserID: "u-admin"},
		"u-google": {ID: "a-google", UserID: "u-google"},
	}}
	tokens := &fakeTokenRepo{stored: map[string]bool{}, revoked: map[string]bool{}}
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour, false)

	return fixture{
		svc:    NewAuthService(fakeTx{}, users, admins, jwtService, tokens),
		jwt:    jwtService,
		users:  users,
		tokens: tokens,
	}
}

var session = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: " Admin@Example.com ", Password: "password123"}, session)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.True(t, f.tokens.stored[resp.RefreshToken])

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	adminID, _ := token.Get("admin_id")
	assert.Equal(t, "a-admin", adminID)
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"wrong password", auth.LoginRequest{Email: "admin@example.com", Password: "nope"}, auth.ErrInvalidCredentials},
		{"unknown email", auth.LoginRequest{Email: "ghost@example.com", Password: "password123"}, auth.ErrInvalidCredentials},
		{"google only", auth.LoginRequest{Email: "google@example.com", Password: "password123"}, auth.ErrInvalidCredentials},
		{"not an admin", auth.LoginRequest{Email: "plain@example.com", Password: "password123"}, auth.ErrNotAnAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tt.req, session)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "bad"}, session)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "password123"}, session)
	require.NoError(t, err)

	resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// The refresh token is not rotated, so it stays usable until logout or expiry
	again, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, again.AccessToken)

	// An access token is not a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_EmptyToken(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.LoginWithGoogle(ctx, auth.GoogleUser{GoogleID: "g-1", Email: "Google@Example.com", VerifiedEmail: true}, session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, []string{"g-1"}, f.users.linked)

	// Already linked to a different Google account
	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleUser{GoogleID: "g-2", Email: "google@example.com", VerifiedEmail: true}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginWithGoogle_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoginWithGoogle(ctx, auth.GoogleUser{GoogleID: "g", Email: "google@example.com"}, session)
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)

	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleUser{GoogleID: "g", Email: "stranger@example.com", VerifiedEmail: true}, session)
	assert.ErrorIs(t, err, auth.ErrNotAnAdmin)

	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleUser{GoogleID: "g", Email: "plain@example.com", VerifiedEmail: true}, session)
	assert.ErrorIs(t, err, auth.ErrNotAnAdmin)
}

func TestAuthService_GenerateSSEToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateSSEToken(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	access, _, err := f.jwt.GenerateAccessToken("u-admin", "admin@example.com", "a-admin")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), access)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := f.svc.GenerateSSEToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	userID, err := f.jwt.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-admin", userID)
}
