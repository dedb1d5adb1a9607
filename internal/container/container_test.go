package container

import (
	"os"
	"path/filepath"
	"testing"

	config "github.com/inference-gateway/triage/config"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestNewServiceContainer(t *testing.T) {
	c, err := NewServiceContainer(config.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, c.GetTriageService())
	assert.NotNil(t, c.GetMCPServer())
	assert.Len(t, c.GetToolRegistry().ListAvailableTools(), 11)
}

func TestNewServiceContainer_NilConfig(t *testing.T) {
	_, err := NewServiceContainer(nil)
	assert.Error(t, err)
}

func TestNewServiceContainer_PromptsFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Triage.PromptsFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewServiceContainer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load prompt templates")

	invalid := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("version: 1\n"), 0644))
	cfg.Triage.PromptsFile = invalid

	_, err = NewServiceContainer(cfg)
	assert.Error(t, err)
}

func TestCreateSDKClient_AppendsVersionPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gateway.URL = "http://gateway.internal:8080/"

	c := &ServiceContainer{config: cfg}
	assert.NotNil(t, c.createSDKClient())
}
