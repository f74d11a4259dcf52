package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DOCSTORE", "SIGNED_URL_TTL", "SEEK_TOLERANCE_SEC", "ENABLE_LOCAL_AUTH", "CAPSTONE_LINK_PATTERNS", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	assert.Equal(t, ModeOffline, c.Mode)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sql", c.DocStore)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 15*time.Minute, c.SignedURLTTL)
	assert.Equal(t, 1.0, c.SeekTolerance)
	assert.True(t, c.EnableLocalAuth)
	assert.Empty(t, c.CapstoneLinkPatterns)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.CORSOrigins())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("ENABLE_LOCAL_AUTH", "")
	t.Setenv("SIGNED_URL_TTL", "2m")
	t.Setenv("SEEK_TOLERANCE_SEC", "2.5")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CAPSTONE_LINK_PATTERNS", " ^https://a/ , ,^https://b/")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://x.example")

	c := FromEnv()
	assert.Equal(t, ModeOnline, c.Mode)
	assert.False(t, c.EnableLocalAuth)
	assert.Equal(t, 2*time.Minute, c.SignedURLTTL)
	assert.Equal(t, 2.5, c.SeekTolerance)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, []string{"^https://a/", "^https://b/"}, c.CapstoneLinkPatterns)
	assert.Equal(t, []string{"https://x.example"}, c.CORSOrigins())
}
