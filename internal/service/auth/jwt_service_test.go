package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskqueue/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisaverylongsecretkeyforjwttesting1234567890"

func newTestService(t *testing.T, lifetime time.Duration) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:     testSecret,
		TokenLifetime: lifetime,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantErr string
	}{
		{
			name: "valid config",
			cfg:  config.AuthConfig{JWTSecret: testSecret, TokenLifetime: time.Hour},
		},
		{
			name:    "short secret",
			cfg:     config.AuthConfig{JWTSecret: "short", TokenLifetime: time.Hour},
			wantErr: "at least 32 characters",
		},
		{
			name:    "zero lifetime",
			cfg:     config.AuthConfig{JWTSecret: testSecret},
			wantErr: "token lifetime must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewJWTService(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)

	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return fixed }

	token, err := svc.GenerateToken(ctx, "  build-bot  ")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "token should have three segments")

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "build-bot", claims.Subject)
	assert.Equal(t, SubmitTokenType, claims.TokenType)
	assert.Equal(t, fixed, claims.IssuedAt.UTC())
	assert.Equal(t, fixed.Add(time.Hour), claims.ExpiresAt.UTC())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_EmptySubject(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.GenerateToken(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestValidateToken_Failures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)
	issuedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return issuedAt }

	valid, err := svc.GenerateToken(ctx, "submitter")
	require.NoError(t, err)

	otherSvc, err := NewJWTService(config.AuthConfig{
		JWTSecret:     strings.Repeat("x", 40),
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)
	otherSvc.(*hmacJWTService).timeFunc = func() time.Time { return issuedAt }
	foreign, err := otherSvc.GenerateToken(ctx, "submitter")
	require.NoError(t, err)

	wrongType := signClaims(t, jwtCustomClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "submitter",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})

	future := signClaims(t, jwtCustomClaims{
		TokenType: SubmitTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "submitter",
			NotBefore: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(2 * time.Hour)),
		},
	})

	tests := []struct {
		name      string
		token     string
		now       time.Time
		expectErr error
	}{
		{"empty token", "", issuedAt, ErrMissingToken},
		{"malformed token", "not-a-jwt", issuedAt, ErrInvalidToken},
		{"foreign signature", foreign, issuedAt, ErrInvalidToken},
		{"expired beyond skew", valid, issuedAt.Add(time.Hour + 5*time.Minute), ErrExpiredToken},
		{"not yet valid", future, issuedAt, ErrTokenNotYetValid},
		{"wrong token type", wrongType, issuedAt, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			svc.timeFunc = func() time.Time { return now }

			claims, err := svc.ValidateToken(ctx, tt.token)
			assert.ErrorIs(t, err, tt.expectErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_WithinClockSkew(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)
	issuedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, "submitter")
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return issuedAt.Add(time.Hour + time.Minute) }
	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "submitter", claims.Subject)
}

func TestMockJWTService(t *testing.T) {
	ctx := context.Background()

	mock := NewMockJWTService()
	token, err := mock.GenerateToken(ctx, "anyone")
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token", token)

	claims, err := mock.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, SubmitTokenType, claims.TokenType)

	mock.ValidationError = ErrExpiredToken
	claims, err = mock.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func signClaims(t *testing.T, claims jwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}
