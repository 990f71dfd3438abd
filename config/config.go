// Package config loads agent definitions from YAML files and engine
// settings from the environment. Definitions convert directly into the
// agent creation config consumed by the lifecycle.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/berkmancenter/llm-engine-sub000/agent"
	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// PseudonymDefinition names one persona an agent writes under.
type PseudonymDefinition struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// TriggerDefinition mirrors agent.Triggers in YAML form.
type TriggerDefinition struct {
	PerMessage *struct {
		Channels       []string          `yaml:"channels"`
		DirectMessages bool              `yaml:"direct_messages"`
		History        *WindowDefinition `yaml:"history"`
	} `yaml:"per_message"`
	Periodic *struct {
		PeriodSeconds int               `yaml:"period_seconds"`
		History       *WindowDefinition `yaml:"history"`
	} `yaml:"periodic"`
}

// WindowDefinition mirrors conversation.WindowSettings in YAML form.
type WindowDefinition struct {
	MaxMessages   int `yaml:"max_messages"`
	WindowSeconds int `yaml:"window_seconds"`
}

// AgentDefinition is one agent entry in a config file. Zero-valued fields
// defer to the agent type's declared defaults.
type AgentDefinition struct {
	ID             string                `yaml:"id"`
	Type           string                `yaml:"type"`
	Name           string                `yaml:"name"`
	Description    string                `yaml:"description"`
	Pseudonyms     []PseudonymDefinition `yaml:"pseudonyms"`
	ConversationID string                `yaml:"conversation_id"`

	LLMPlatform        string            `yaml:"llm_platform"`
	LLMModel           string            `yaml:"llm_model"`
	LLMModelOptions    map[string]any    `yaml:"llm_model_options"`
	LLMPlatformOptions map[string]any    `yaml:"llm_platform_options"`
	LLMTemplates       map[string]string `yaml:"llm_templates"`

	Triggers *TriggerDefinition `yaml:"triggers"`
	History  *WindowDefinition  `yaml:"history"`

	RAGCollectionName string `yaml:"rag_collection_name"`
	UseTranscriptRAG  *bool  `yaml:"use_transcript_rag"`

	Config map[string]any `yaml:"config"`
}

// Config is the root of an engine config file.
type Config struct {
	Agents []AgentDefinition `yaml:"agents"`
}

// Load reads a YAML config file, expanding ${VAR} references from the
// environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	expanded := os.Expand(string(data), os.Getenv)

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// AgentConfig converts a definition into the creation config the agent
// lifecycle consumes.
func (d AgentDefinition) AgentConfig() agent.Config {
	cfg := agent.Config{
		ID:                 d.ID,
		Type:               d.Type,
		Name:               d.Name,
		Description:        d.Description,
		ConversationID:     d.ConversationID,
		LLMPlatform:        d.LLMPlatform,
		LLMModel:           d.LLMModel,
		LLMModelOptions:    d.LLMModelOptions,
		LLMPlatformOptions: d.LLMPlatformOptions,
		LLMTemplates:       d.LLMTemplates,
		RAGCollectionName:  d.RAGCollectionName,
		UseTranscriptRAG:   d.UseTranscriptRAG,
		AgentConfig:        d.Config,
	}
	for _, p := range d.Pseudonyms {
		cfg.Pseudonyms = append(cfg.Pseudonyms, conversation.Pseudonym{ID: p.ID, Name: p.Name})
	}
	if d.History != nil {
		cfg.History = d.History.windowSettings()
	}
	if d.Triggers != nil {
		cfg.Triggers = d.Triggers.triggers()
	}
	return cfg
}

func (w *WindowDefinition) windowSettings() *conversation.WindowSettings {
	if w == nil {
		return nil
	}
	return &conversation.WindowSettings{
		MaxMessages:   w.MaxMessages,
		WindowSeconds: w.WindowSeconds,
	}
}

func (t *TriggerDefinition) triggers() *agent.Triggers {
	out := &agent.Triggers{}
	if t.PerMessage != nil {
		out.PerMessage = &agent.PerMessageTrigger{
			Channels:       t.PerMessage.Channels,
			DirectMessages: t.PerMessage.DirectMessages,
			History:        t.PerMessage.History.windowSettings(),
		}
	}
	if t.Periodic != nil {
		out.Periodic = &agent.PeriodicTrigger{
			PeriodSeconds: t.Periodic.PeriodSeconds,
			History:       t.Periodic.History.windowSettings(),
		}
	}
	return out
}

// EnvConfig holds environment-sourced engine settings.
type EnvConfig struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	DefaultPlatform string
	LogLevel        string
}

// LoadEnv loads a .env file when present and reads engine settings from the
// environment.
func LoadEnv() (*EnvConfig, error) {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	return &EnvConfig{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		DefaultPlatform: getEnv("LLM_PLATFORM", "openai"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
