package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_DisabledOllama(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 30000, cfg.Tasks[TaskCustomizeMeals].TimeoutMs)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("PLATEPLAN_LLM_TIMEOUT_MS", "9000")
	t.Setenv("PLATEPLAN_LLM_MEALS_TIMEOUT_MS", "15000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskCustomizeMeals))
	assert.Equal(t, 20000, cfg.TaskTimeout(TaskCustomizeWorkouts))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("unknown")))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("PLATEPLAN_LLM_MEALS_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 30000, cfg.TaskTimeout(TaskCustomizeMeals))
}

func TestLoadConfig_Provider(t *testing.T) {
	t.Setenv("PLATEPLAN_LLM_PROVIDER", " Gemini ")
	t.Setenv("PLATEPLAN_GEMINI_API_KEY", "k")

	cfg := LoadConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "k", cfg.GeminiAPIKey)
}

func TestLoadConfig_UnknownProviderIgnored(t *testing.T) {
	t.Setenv("PLATEPLAN_LLM_PROVIDER", "openai")

	assert.Equal(t, ProviderOllama, LoadConfig().Provider)
}
