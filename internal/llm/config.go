package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskCustomizeMeals    TaskType = "customize_meals"
	TaskCustomizeWorkouts TaskType = "customize_workouts"
)

// Provider names the backend that serves generation calls.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled      bool
	LogCalls     bool
	Provider     Provider
	Endpoint     string
	Model        string
	GeminiAPIKey string
	GeminiModel  string
	TimeoutMs    int
	MaxRetries   int
	Tasks        map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default, in which case personalization always falls
// back to deterministic scaling.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:     false,
		LogCalls:    false,
		Provider:    ProviderOllama,
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.2",
		GeminiModel: "gemini-1.5-flash",
		TimeoutMs:   20000,
		MaxRetries:  1,
		Tasks: map[TaskType]TaskConfig{
			TaskCustomizeMeals:    {Temperature: 0.2, MaxTokens: 4096, TimeoutMs: 30000},
			TaskCustomizeWorkouts: {Temperature: 0.2, MaxTokens: 2048, TimeoutMs: 20000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("PLATEPLAN_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PLATEPLAN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PLATEPLAN_LLM_PROVIDER"); v != "" {
		switch p := Provider(strings.ToLower(strings.TrimSpace(v))); p {
		case ProviderOllama, ProviderGemini:
			cfg.Provider = p
		}
	}
	if v := os.Getenv("PLATEPLAN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PLATEPLAN_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PLATEPLAN_GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("PLATEPLAN_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("PLATEPLAN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PLATEPLAN_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskCustomizeMeals, "PLATEPLAN_LLM_MEALS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskCustomizeWorkouts, "PLATEPLAN_LLM_WORKOUTS_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
