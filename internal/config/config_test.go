package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Suggest.Model)
	assert.False(t, cfg.Sharing.AllowDuplicateInvites)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskly.yml")
	body := `
server:
  addr: ":9999"
firebase:
  project_id: taskly-test
sharing:
  allow_duplicate_invites: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("TASKLY_ADDR", ":7777")
	t.Setenv("TASKLY_OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, "taskly-test", cfg.Firebase.ProjectID)
	assert.True(t, cfg.Sharing.AllowDuplicateInvites)
	assert.Equal(t, "sk-test", cfg.Suggest.APIKey)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
