package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// App
	Env      string `split_words:"true" default:"prod" validate:"oneof=dev staging prod"`
	LogLevel string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`

	// GitHub credential: a personal access token, or a GitHub App
	// installation (private key + client ID + installation ID).
	GithubToken          string `envconfig:"GITHUB_TOKEN"`
	GithubPrivateKey     string `envconfig:"RM_GITHUB_PRIVATE_KEY"`
	GithubClientID       string `split_words:"true"`
	GithubInstallationID int64  `split_words:"true"`

	// GitHub API tuning. GithubAPIURL overrides the public endpoint
	// (GitHub Enterprise or a test server). Page size is capped at the
	// API maximum of 100.
	GithubAPIURL    string `envconfig:"RM_GITHUB_API_URL"`
	GithubPageSize  int    `split_words:"true" default:"100" validate:"gt=0,lte=100"`
	GithubRateLimit int    `split_words:"true" default:"80" validate:"gt=0"`

	// OpenAI (narrative summaries only)
	OpenaiApiKey    string `envconfig:"OPENAI_API_KEY"`
	OpenaiRateLimit int    `split_words:"true" default:"50" validate:"gt=0"`

	// Result cache. Redis is used when RedisURL is set, otherwise an
	// in-process LRU.
	CacheSize        int           `split_words:"true" default:"1000" validate:"gt=0"`
	CacheTTL         time.Duration `split_words:"true" default:"5m" validate:"gt=0"`
	RedisURL         string        `split_words:"true"`
	RedisConnTimeout time.Duration `split_words:"true" default:"3s" validate:"gt=0"`

	HTTPClientTimeout time.Duration `split_words:"true" default:"30s" validate:"gt=0"`
}

type Loader struct {
	Prefix   string
	Validate *validator.Validate
}

func NewLoader(prefix string) *Loader {
	v := validator.New()
	return &Loader{Prefix: prefix, Validate: v}
}

func (l *Loader) Load() (Config, error) {
	var cfg Config

	loadDotEnv()
	if err := envconfig.Process(l.Prefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env load: %w", err)
	}

	if err := l.Validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadDotEnv overlays .env and .env.<env> files when present. Missing
// files are not an error; a CLI run usually has everything in the
// process environment already.
func loadDotEnv() {
	files := []string{".env"}

	if appEnv := strings.TrimSpace(os.Getenv("RM_ENV")); appEnv != "" {
		files = append(files, ".env."+appEnv)
	}

	for _, f := range files {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Overload(f); err != nil {
			log.Printf("dotenv: failed loading %s: %v", f, err)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
