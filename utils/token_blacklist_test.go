package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hobbyhub/hobbyhub/config"
)

func TestBlacklistToken(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	assert.False(t, IsTokenBlacklisted("tok-unknown"))

	BlacklistToken("tok-1", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("tok-1"))

	// Entries past their expiry no longer count as revoked.
	BlacklistToken("tok-2", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted("tok-2"))
}
