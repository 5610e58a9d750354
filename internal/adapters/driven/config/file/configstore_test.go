package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Equal(t, tmpDir, store.Dir())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".adsync", "config.toml"), store.Path())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(tmpDir), settings)
	assert.Equal(t, "token.json", settings.Files.TokenFile)
	assert.Equal(t, "google-ads.yaml", settings.Files.PlatformConfig)
	assert.Equal(t, "emails.csv", settings.Files.Input)
	assert.Equal(t, filepath.Join(tmpDir, "data", "runs.db"), settings.Files.Ledger)
	assert.Equal(t, 8080, settings.OAuth.CallbackPort)
	assert.True(t, settings.OAuth.Interactive)
}

func TestConfigStore_Load_OverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[ads]
customer_id = "1234567890"

[sync]
email_column = "mail"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "1234567890", settings.Ads.CustomerID)
	assert.Equal(t, "mail", settings.Sync.EmailColumn)
	assert.Equal(t, "token.json", settings.Files.TokenFile, "unset keys keep their defaults")
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings := DefaultSettings(tmpDir)
	settings.OAuth.ClientID = "client"
	settings.OAuth.Interactive = false
	settings.Sync.Audience = "newsletter"
	require.NoError(t, store.Save(settings))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	loaded, err := reopened.Load()

	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes differ on windows")
	}
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Save(DefaultSettings(tmpDir)))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(""), 0600))
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(tmpDir), settings)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("invalid [ toml"), 0600))
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.Error(t, err)
}

func TestConfigStore_Load_ReadFileError(t *testing.T) {
	tmpDir := t.TempDir()
	// A directory where the file should be makes ReadFile fail.
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "config.toml"), 0700))
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.Error(t, err)
}
