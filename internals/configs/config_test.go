package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("DOC_STORE", "Memory")
	t.Setenv("SEARCH_DEBOUNCE_MS", "150")
	t.Setenv("MEDIA_BASE_URL", "https://school.edu/media/")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "memory", cfg.DocStore)
	assert.Equal(t, "disk", cfg.ObjectStore)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "01/02/2006", cfg.DateLayout)
	assert.Equal(t, "https://school.edu/media", cfg.MediaBaseURL)
	assert.Equal(t, 5, cfg.PageSize)
	assert.NotContains(t, cfg.SQLitePath, "~")
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 200<<20, cfg.UploadMaxBytes)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SCHOOL_TEST_KEY", "v")
	assert.Equal(t, "v", GetEnv("SCHOOL_TEST_KEY", "d"))
	assert.Equal(t, "d", GetEnv("SCHOOL_TEST_MISSING", "d"))
}

func TestLoadEnvSkipsDotenvOnRailway(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCHOOL_DOTENV_KEY=from-file\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("SCHOOL_DOTENV_KEY") })

	t.Setenv("RAILWAY_ENVIRONMENT", "production")
	LoadEnv()
	assert.Equal(t, "", GetEnv("SCHOOL_DOTENV_KEY"))

	t.Setenv("RAILWAY_ENVIRONMENT", "")
	LoadEnv()
	assert.Equal(t, "from-file", GetEnv("SCHOOL_DOTENV_KEY"))
}
