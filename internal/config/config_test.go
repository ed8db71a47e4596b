package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	public := "access_token_ttl: 15m\nrefresh_token_ttl: 24h\nreset_token_ttl: 10m\nblacklist_retention: 24h\nhttp_port: 9090\n"
	private := "jwt_key: 'secret'\npg:\n  host: localhost\n  port: 5432\n  user: u\n  password: p\n  dbname: gocart\n"
	dir := writeConfigs(t, public, private)

	cfg := MustLoad(dir)

	assert.Equal(t, 15*time.Minute, cfg.Public.AccessTokenTTL.Duration)
	assert.Equal(t, 24*time.Hour, cfg.Public.RefreshTokenTTL.Duration)
	assert.Equal(t, 9090, cfg.Public.HTTPPort)
	assert.Equal(t, "secret", cfg.JwtKey())
	assert.Equal(t, "gocart", cfg.Private.Pg.Dbname)

	// defaults kick in for fields the file omits
	assert.Equal(t, 12, cfg.Public.BcryptCost)
	assert.Equal(t, 10, cfg.Public.DefaultPageSize)
	assert.Equal(t, 5*time.Second, cfg.Public.StorageRequestTimeout.Duration)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// access_token_ttl intentionally missing
	public := "refresh_token_ttl: 24h\nreset_token_ttl: 10m\nblacklist_retention: 24h\n"
	private := "jwt_key: 'secret'\n"
	dir := writeConfigs(t, public, private)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config folder, got none")
		}
	}()

	_ = MustLoad(t.TempDir())
}
