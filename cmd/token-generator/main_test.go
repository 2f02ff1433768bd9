package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/taskqueue/internal/config"
	"github.com/phrazzld/taskqueue/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisaverylongsecretkeyforjwttesting1234567890"

func TestGenerate(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: testSecret, TokenLifetime: time.Hour}

	var out bytes.Buffer
	require.NoError(t, generate(cfg, "release-bot", 10*time.Minute, &out))

	token := strings.TrimSpace(out.String())
	svc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "release-bot", claims.Subject)
	assert.WithinDuration(t, claims.IssuedAt.Add(10*time.Minute), claims.ExpiresAt, time.Second)
}

func TestGenerate_RequiresSecret(t *testing.T) {
	var out bytes.Buffer
	err := generate(config.AuthConfig{TokenLifetime: time.Hour}, "someone", 0, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASKQUEUE_AUTH_JWT_SECRET")
	assert.Empty(t, out.String())
}

func TestRun_RequiresSubject(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-subject is required")
	assert.Contains(t, stderr.String(), "-subject")
}

func TestRun_FromEnvironment(t *testing.T) {
	t.Setenv("TASKQUEUE_AUTH_JWT_SECRET", testSecret)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-subject", "ops"}, &stdout, &stderr))
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(stdout.String()), "."))
}
