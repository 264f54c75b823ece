package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Backend server.
	Port          string
	DBPath        string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	MigrationsDir string

	// Timer agent.
	AgentPort                 string
	StatePath                 string
	SettingsPath              string
	RulesPath                 string
	BackendBaseURL            string
	ReportTimeout             time.Duration
	WorkDurationSeconds       int
	ShortBreakDurationSeconds int
	LongBreakDurationSeconds  int
}

func Load() Config {
	return Config{
		Port:          getEnv("PORT", "5000"),
		DBPath:        getEnv("DB_PATH", "./data/pomodoropal.db"),
		JWTSecret:     getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 168)) * time.Hour,
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:5000", "*"}),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),

		AgentPort:                 getEnv("AGENT_PORT", "5001"),
		StatePath:                 getEnv("STATE_PATH", defaultDataFile("timer_state.json")),
		SettingsPath:              getEnv("SETTINGS_PATH", defaultDataFile("settings.yaml")),
		RulesPath:                 getEnv("RULES_PATH", defaultDataFile("blocking_rules.json")),
		BackendBaseURL:            getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		ReportTimeout:             time.Duration(getEnvInt("REPORT_TIMEOUT_SECONDS", 5)) * time.Second,
		WorkDurationSeconds:       getEnvInt("WORK_DURATION_SECONDS", 25*60),
		ShortBreakDurationSeconds: getEnvInt("SHORT_BREAK_DURATION_SECONDS", 5*60),
		LongBreakDurationSeconds:  getEnvInt("LONG_BREAK_DURATION_SECONDS", 15*60),
	}
}

func defaultDataFile(name string) string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "data", name)
	}
	return filepath.Join(configDir, "pomodoropal", name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
