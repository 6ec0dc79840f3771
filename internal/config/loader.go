package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the calendar
// copilot service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	SessionSecret string
	SessionTTL    time.Duration

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	LLMTimeout    time.Duration
	HistoryLimit  int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; required values (the completion
// service credential and the session secret) cause Load to fail so the
// process refuses to start rather than failing per-request.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:copilot.db?_pragma=foreign_keys(1)",
		SessionTTL:    24 * time.Hour,
		OpenAIBaseURL: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-5",
		LLMTimeout:    60 * time.Second,
		HistoryLimit:  10,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("COPILOT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "COPILOT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("COPILOT_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("COPILOT_SESSION_SECRET")); secret == "" {
		missing = append(missing, "COPILOT_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("COPILOT_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "COPILOT_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if base := strings.TrimSpace(os.Getenv("COPILOT_OPENAI_BASE_URL")); base != "" {
		cfg.OpenAIBaseURL = strings.TrimRight(base, "/")
	}

	if key := strings.TrimSpace(os.Getenv("COPILOT_OPENAI_API_KEY")); key == "" {
		missing = append(missing, "COPILOT_OPENAI_API_KEY")
	} else {
		cfg.OpenAIAPIKey = key
	}

	if model := strings.TrimSpace(os.Getenv("COPILOT_OPENAI_MODEL")); model != "" {
		cfg.OpenAIModel = model
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("COPILOT_LLM_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "COPILOT_LLM_TIMEOUT")
		} else {
			cfg.LLMTimeout = timeout
		}
	}

	if limitValue := strings.TrimSpace(os.Getenv("COPILOT_HISTORY_LIMIT")); limitValue != "" {
		limit, err := strconv.Atoi(limitValue)
		if err != nil || limit < 0 {
			invalid = append(invalid, "COPILOT_HISTORY_LIMIT")
		} else {
			cfg.HistoryLimit = limit
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
