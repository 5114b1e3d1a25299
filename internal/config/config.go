package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// FrontendURL is where the dashboard is served; OAuth callbacks
	// redirect back into it and it is always an allowed CORS origin.
	FrontendURL string

	// AllowedOrigins are additional browser origins allowed by CORS.
	AllowedOrigins []string

	// DatabasePath is the SQLite file for drafts and scheduled posts.
	DatabasePath string

	// LLMProvider selects the generation backend: "gemini" or "openai".
	LLMProvider string

	// LLMModel is the generation model name.
	LLMModel string

	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string

	// OpenAIAPIKey and OpenAIBaseURL configure the OpenAI-compatible
	// backend when LLMProvider is "openai".
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// GenerateTimeout bounds one generation call.
	GenerateTimeout time.Duration

	// LinkedIn OAuth application credentials.
	LinkedInClientID     string
	LinkedInClientSecret string
	RedirectURI          string

	// ScheduleInterval is how often the scheduler checks for due posts.
	ScheduleInterval time.Duration
}

// Load reads configuration from the environment (and a .env file when
// present) with sensible defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := 5000
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	var origins []string
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "omnicast.db"
	}

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	if provider == "gemini" && os.Getenv("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	timeout := 15 * time.Second
	if v := os.Getenv("GENERATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATE_TIMEOUT: %w", err)
		}
		timeout = d
	}

	redirectURI := os.Getenv("REDIRECT_URI")
	if redirectURI == "" {
		redirectURI = fmt.Sprintf("http://localhost:%d/auth/linkedin/callback", port)
	}

	interval := 30 * time.Second
	if v := os.Getenv("SCHEDULE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULE_INTERVAL: %w", err)
		}
		interval = d
	}

	return &Config{
		Port:                 port,
		FrontendURL:          frontendURL,
		AllowedOrigins:       origins,
		DatabasePath:         dbPath,
		LLMProvider:          provider,
		LLMModel:             model,
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		GenerateTimeout:      timeout,
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		RedirectURI:          redirectURI,
		ScheduleInterval:     interval,
	}, nil
}

// Origins returns every origin allowed to call the API from a browser.
func (c *Config) Origins() []string {
	return append([]string{c.FrontendURL}, c.AllowedOrigins...)
}
