package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 9090,
		"api_key": "test-key",
		"model": "gemini-2.5-pro",
		"question_delay": 1
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 1, cfg.QuestionDelay)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "3000")
	t.Setenv("INTERVIEW_QUESTION_DELAY", "0")

	cfg := FromEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 0, cfg.QuestionDelay)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "file-key"}
	merged := cfg.MergeWithDefaults(Config{APIKey: "env-key", Port: 9000})

	assert.Equal(t, "file-key", merged.APIKey)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, DefaultModel, merged.Model)
	assert.Equal(t, DefaultDataFile, merged.DataFile)
	assert.Equal(t, DefaultQuestionDelay, merged.QuestionDelay)
}

func TestMergeAppliesBuiltinDefaults(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultModel, merged.Model)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Config{Port: 70000}
	assert.Error(t, cfg.Validate())

	cfg = Config{Port: 8080}
	assert.NoError(t, cfg.Validate())
}
