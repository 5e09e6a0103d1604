// Package config resolves runtime settings from an optional .env file and
// PLATEPLAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/llm"
	"github.com/alexanderramin/plateplan/internal/scheduler"
)

// Config holds every setting the binaries need.
type Config struct {
	DBPath     string
	CatalogDir string
	HTTPAddr   string
	LogMode    string

	// DefaultUser is the CLI user when --user is omitted.
	DefaultUser string

	// CORSOrigins enables CORS on the HTTP API when non-empty.
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	RedisAddr    string
	RedisChannel string

	RegenerationsPerHour int
	RegenerationBurst    int

	DefaultTier             string
	SimplifyAfterDeviations int
	DailyCalories           int
	TopN                    int
	MealSlots               []scheduler.MealSlot

	LLM llm.LLMConfig
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	defaults := domain.DefaultConstraints("")
	return Config{
		DBPath:                  defaultDBPath(),
		CatalogDir:              "./catalog",
		HTTPAddr:                ":8080",
		LogMode:                 "dev",
		ShutdownTimeout:         10 * time.Second,
		RedisChannel:            "plateplan:plans",
		RegenerationsPerHour:    10,
		RegenerationBurst:       3,
		DefaultTier:             domain.TierFree,
		SimplifyAfterDeviations: defaults.SimplifyAfterDeviations,
		DailyCalories:           defaults.DailyCalories,
		TopN:                    scheduler.DefaultTopN,
		MealSlots:               scheduler.DefaultMealSlots(),
		LLM:                     llm.DefaultConfig(),
	}
}

// Load reads envFile (or ".env" when empty) if it exists, then applies
// PLATEPLAN_* variables over Default. Variables already set in the process
// environment win over the file.
func Load(envFile string) (Config, error) {
	path := domain.FirstSet(envFile, os.Getenv("PLATEPLAN_ENV_FILE"), ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg := Default()
	cfg.DBPath = domain.FirstSet(os.Getenv("PLATEPLAN_DB"), cfg.DBPath)
	cfg.CatalogDir = domain.FirstSet(os.Getenv("PLATEPLAN_CATALOG_DIR"), cfg.CatalogDir)
	cfg.HTTPAddr = domain.FirstSet(os.Getenv("PLATEPLAN_HTTP_ADDR"), cfg.HTTPAddr)
	cfg.LogMode = domain.FirstSet(os.Getenv("PLATEPLAN_LOG_MODE"), cfg.LogMode)
	cfg.DefaultUser = strings.TrimSpace(os.Getenv("PLATEPLAN_USER"))
	cfg.RedisAddr = domain.FirstSet(os.Getenv("PLATEPLAN_REDIS_ADDR"), cfg.RedisAddr)
	cfg.RedisChannel = domain.FirstSet(os.Getenv("PLATEPLAN_REDIS_CHANNEL"), cfg.RedisChannel)

	var err error
	if cfg.RegenerationsPerHour, err = intEnv("PLATEPLAN_REGENERATIONS_PER_HOUR", cfg.RegenerationsPerHour, 0); err != nil {
		return Config{}, err
	}
	if cfg.RegenerationBurst, err = intEnv("PLATEPLAN_REGENERATION_BURST", cfg.RegenerationBurst, 1); err != nil {
		return Config{}, err
	}
	if cfg.SimplifyAfterDeviations, err = intEnv("PLATEPLAN_SIMPLIFY_AFTER_DEVIATIONS", cfg.SimplifyAfterDeviations, 1); err != nil {
		return Config{}, err
	}
	if cfg.DailyCalories, err = intEnv("PLATEPLAN_DAILY_CALORIES", cfg.DailyCalories, 1); err != nil {
		return Config{}, err
	}
	if cfg.TopN, err = intEnv("PLATEPLAN_TOP_N", cfg.TopN, 1); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("PLATEPLAN_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("PLATEPLAN_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("PLATEPLAN_SHUTDOWN_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.ShutdownTimeout = d
	}

	if v := os.Getenv("PLATEPLAN_DEFAULT_TIER"); v != "" {
		tier := strings.ToLower(strings.TrimSpace(v))
		if tier != domain.TierFree && tier != domain.TierPaid {
			return Config{}, fmt.Errorf("PLATEPLAN_DEFAULT_TIER must be %q or %q, got %q", domain.TierFree, domain.TierPaid, v)
		}
		cfg.DefaultTier = tier
	}

	if v := os.Getenv("PLATEPLAN_MEAL_SLOTS"); v != "" {
		slots, err := ParseMealSlots(v)
		if err != nil {
			return Config{}, fmt.Errorf("PLATEPLAN_MEAL_SLOTS: %w", err)
		}
		cfg.MealSlots = slots
	}

	cfg.LLM = llm.LoadConfig()
	return cfg, nil
}

// ParseMealSlots parses "breakfast=0.25,lunch=0.35,dinner=0.40". Order is
// preserved. Proportions must be positive and sum to at most 1.
func ParseMealSlots(s string) ([]scheduler.MealSlot, error) {
	var (
		slots []scheduler.MealSlot
		total float64
		seen  = map[string]bool{}
	)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, value, ok := strings.Cut(part, "=")
		label = strings.ToLower(strings.TrimSpace(label))
		if !ok || label == "" {
			return nil, fmt.Errorf("entry %q: want label=proportion", part)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate slot %q", label)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("slot %q: proportion must be a positive number, got %q", label, value)
		}
		seen[label] = true
		total += p
		slots = append(slots, scheduler.MealSlot{Label: label, Proportion: p})
	}
	if len(slots) == 0 {
		return nil, errors.New("no meal slots configured")
	}
	if total > 1.0001 {
		return nil, fmt.Errorf("proportions sum to %.2f, want at most 1", total)
	}
	return slots, nil
}

func intEnv(name string, fallback, min int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min {
		return 0, fmt.Errorf("%s must be an integer >= %d, got %q", name, min, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".plateplan", "plateplan.db")
	}
	return filepath.Join(home, ".plateplan", "plateplan.db")
}
