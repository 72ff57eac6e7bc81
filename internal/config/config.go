// Package config loads and defaults the conversational core's
// configuration surface (spec §6.4), following the teacher's
// internal/config package: a single Config struct assembled from section
// structs and parsed with gopkg.in/yaml.v3.
package config

import "time"

// Config is the root configuration object for the conversational core.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Turn    TurnConfig    `yaml:"turn"`
	LLM     LLMConfig     `yaml:"llm"`
	Tools   ToolsConfig   `yaml:"tools"`
	Routing RoutingConfig `yaml:"routing"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures process-level concerns (out of the core's scope
// proper, but present in every deployment's config file).
type ServerConfig struct {
	DatabaseDSN string `yaml:"database_dsn"`
}

// BusyPolicy is how the core handles a second turn on an already-running
// session (spec §5).
type BusyPolicy string

const (
	BusyWait   BusyPolicy = "wait"
	BusyReject BusyPolicy = "reject"
)

// SessionConfig configures the session/state manager (spec §4.1, §6.4).
type SessionConfig struct {
	// PruneLastNMessages is the retention window size.
	PruneLastNMessages int `yaml:"prune_last_n_messages"`
	// PruneTokenBudget is the token ceiling before forced pruning.
	PruneTokenBudget int `yaml:"prune_token_budget"`
	// BusySessionPolicy is "wait" or "reject".
	BusySessionPolicy BusyPolicy `yaml:"busy_session_policy"`
	// BusyWaitCap bounds how long a second turn waits for the lock.
	BusyWaitCap time.Duration `yaml:"busy_wait_cap"`
	// ToolResultCapBytes truncates stored tool results (default 8KB).
	ToolResultCapBytes int `yaml:"tool_result_cap_bytes"`
}

// TurnConfig configures per-turn bounds (spec §4.3, §5, §6.4).
type TurnConfig struct {
	MaxIterationsPerTurn int           `yaml:"max_iterations_per_turn"`
	TurnDeadlineSeconds  time.Duration `yaml:"turn_deadline_seconds"`
	HandoffMaxPerTurn    int           `yaml:"handoff_max_per_turn"`
	DefaultExpert        string        `yaml:"default_expert"`
}

// LLMConfig configures the LLM adapter (spec §4.6, §6.4).
type LLMConfig struct {
	Provider               string        `yaml:"provider"` // "anthropic" or "openai"
	Model                  string        `yaml:"model"`
	CallTimeoutSeconds     time.Duration `yaml:"llm_call_timeout_seconds"`
	MaxRetries             int           `yaml:"max_retries"`
	AnthropicAPIKey        string        `yaml:"anthropic_api_key"`
	OpenAIAPIKey           string        `yaml:"openai_api_key"`
}

// ToolsConfig configures the tool layer (spec §4.5, §6.4).
type ToolsConfig struct {
	TimeoutSeconds     time.Duration    `yaml:"tool_timeout_seconds"`
	VectorDimensions   map[string]int   `yaml:"vector_dimensions"`
	DefaultPageSize    int              `yaml:"default_page_size"`
	MaxPageSize        int              `yaml:"max_page_size"`
	RecencyThresholdDays int            `yaml:"recency_threshold_days"`
}

// RoutingConfig configures the router (spec §4.2, §6.4).
type RoutingConfig struct {
	PriorityOrder []string `yaml:"priority_order"`
}

// LoggingConfig configures the ambient logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with every spec-mandated default applied
// (spec §3 invariant 4/5, §4.1, §4.3, §4.6).
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			PruneLastNMessages: 20,
			PruneTokenBudget:   8000,
			BusySessionPolicy:  BusyWait,
			BusyWaitCap:        30 * time.Second,
			ToolResultCapBytes: 8 * 1024,
		},
		Turn: TurnConfig{
			MaxIterationsPerTurn: 10,
			TurnDeadlineSeconds:  120 * time.Second,
			HandoffMaxPerTurn:    1,
			DefaultExpert:        "tasks",
		},
		LLM: LLMConfig{
			Provider:           "anthropic",
			CallTimeoutSeconds: 60 * time.Second,
			MaxRetries:         2,
		},
		Tools: ToolsConfig{
			TimeoutSeconds:       30 * time.Second,
			DefaultPageSize:      50,
			MaxPageSize:          500,
			RecencyThresholdDays: 7,
			VectorDimensions:     map[string]int{"food": 1536, "memory": 1536},
		},
		Routing: RoutingConfig{},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}
