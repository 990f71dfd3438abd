package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
agents:
  - id: recap-1
    type: recap
    name: Recap
    conversation_id: conv-1
    llm_platform: openai
    llm_model: gpt-4o-mini
    llm_platform_options:
      temperature: 0.2
    llm_templates:
      system: "summarize things"
    pseudonyms:
      - id: p-1
        name: scribe
    triggers:
      per_message:
        channels: [main]
        direct_messages: true
        history:
          max_messages: 20
      periodic:
        period_seconds: 300
    history:
      window_seconds: 600
    config:
      tone: neutral
  - id: echo-1
    type: echo
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Agents, 2)

	def := cfg.Agents[0]
	assert.Equal(t, "recap-1", def.ID)
	assert.Equal(t, "recap", def.Type)
	assert.Equal(t, "openai", def.LLMPlatform)
	assert.Equal(t, 0.2, def.LLMPlatformOptions["temperature"])
	assert.Equal(t, "summarize things", def.LLMTemplates["system"])
	require.NotNil(t, def.Triggers.PerMessage)
	assert.Equal(t, []string{"main"}, def.Triggers.PerMessage.Channels)
	assert.True(t, def.Triggers.PerMessage.DirectMessages)
	require.NotNil(t, def.Triggers.PerMessage.History)
	assert.Equal(t, 20, def.Triggers.PerMessage.History.MaxMessages)
	require.NotNil(t, def.Triggers.Periodic)
	assert.Equal(t, 300, def.Triggers.Periodic.PeriodSeconds)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_MODEL", "gpt-4o")
	cfg, err := Load(writeConfig(t, "agents:\n  - type: echo\n    llm_model: ${TEST_MODEL}\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "gpt-4o", cfg.Agents[0].LLMModel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "agents: [unclosed"))
	assert.Error(t, err)
}

func TestAgentConfigConversion(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	ac := cfg.Agents[0].AgentConfig()
	assert.Equal(t, "recap-1", ac.ID)
	assert.Equal(t, "recap", ac.Type)
	assert.Equal(t, "conv-1", ac.ConversationID)
	require.Len(t, ac.Pseudonyms, 1)
	assert.Equal(t, "scribe", ac.Pseudonyms[0].Name)
	require.NotNil(t, ac.History)
	assert.Equal(t, 600, ac.History.WindowSeconds)
	require.NotNil(t, ac.Triggers)
	require.NotNil(t, ac.Triggers.PerMessage)
	assert.Equal(t, 20, ac.Triggers.PerMessage.History.MaxMessages)
	require.NotNil(t, ac.Triggers.Periodic)
	assert.Equal(t, 300, ac.Triggers.Periodic.PeriodSeconds)
	assert.Equal(t, "neutral", ac.AgentConfig["tone"])

	// The bare definition converts too, with everything left for the
	// defaulting cascade.
	bare := cfg.Agents[1].AgentConfig()
	assert.Equal(t, "echo", bare.Type)
	assert.Nil(t, bare.Triggers)
	assert.Nil(t, bare.History)
	assert.Empty(t, bare.Pseudonyms)
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("LLM_PLATFORM", "")
	t.Setenv("LOG_LEVEL", "")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", env.DefaultPlatform)
	assert.Equal(t, "info", env.LogLevel)

	t.Setenv("LLM_PLATFORM", "anthropic")
	env, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", env.DefaultPlatform)
}
