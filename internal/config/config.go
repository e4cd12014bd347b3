package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/ragdesk/answer-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	RetrievalConnectorCfg  RetrievalConnectorConfig  `envPrefix:"RETRIEVAL_"`
	GenerationConnectorCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`

	// Pipeline configuration
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Audit retention configuration
	RetentionCfg RetentionConfig `envPrefix:"RETENTION_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Domain vocabulary (loaded from JSON file): common FAQ topics and
	// technical domain terms.
	DomainTopics []string
	DomainTerms  []string

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type RetrievalConnectorConfig struct {
	HTTPClientConfig
	SearchEndpoint string `env:"SEARCH_ENDPOINT,notEmpty"`
}

type GenerationConnectorConfig struct {
	HTTPClientConfig
	AssembleEndpoint string               `env:"ASSEMBLE_ENDPOINT,notEmpty"`
	GenerateEndpoint string               `env:"GENERATE_ENDPOINT,notEmpty"`
	DefaultModel     string               `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// PipelineConfig holds the scalar knobs of the answer pipeline. Scoring
// weight tables live in the pipeline packages themselves and are fixed at
// construction time.
type PipelineConfig struct {
	MinConfidence      float64       `env:"MIN_CONFIDENCE" envDefault:"0.25"`
	MaxQueryLength     int           `env:"MAX_QUERY_LENGTH" envDefault:"4000"`
	MaxChunksPerSource int           `env:"MAX_CHUNKS_PER_SOURCE" envDefault:"3"`
	MinSimilarity      float64       `env:"MIN_SIMILARITY" envDefault:"0.3"`
	MinQuality         float64       `env:"MIN_QUALITY" envDefault:"0.4"`
	MaxHistoryTurns    int           `env:"MAX_HISTORY_TURNS" envDefault:"6"`
	BusinessHoursStart int           `env:"BUSINESS_HOURS_START" envDefault:"9"`
	BusinessHoursEnd   int           `env:"BUSINESS_HOURS_END" envDefault:"17"`
	BusinessTimezone   string        `env:"BUSINESS_TIMEZONE" envDefault:"UTC"`
	CacheTTL           time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CachePurgeInterval time.Duration `env:"CACHE_PURGE_INTERVAL" envDefault:"10m"`
	StageTimeout       time.Duration `env:"STAGE_TIMEOUT" envDefault:"30s"`
}

// RetentionConfig holds audit retention sweep settings
type RetentionConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Schedule string        `env:"SCHEDULE" envDefault:"0 3 * * *"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"2160h"` // 90 days
}

// domainVocabulary represents the structure of domain_topics.json
type domainVocabulary struct {
	Topics []string `json:"topics"`
	Terms  []string `json:"terms"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load domain vocabulary from JSON file
	if err := loadDomainVocabulary(cfg); err != nil {
		return nil, fmt.Errorf("load domain vocabulary: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	// Validate Pipeline configuration
	if cfg.PipelineCfg.MinConfidence < 0 || cfg.PipelineCfg.MinConfidence > 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_MIN_CONFIDENCE must be between 0 and 1, got %v", cfg.PipelineCfg.MinConfidence))
	}

	if cfg.PipelineCfg.MaxQueryLength < 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_MAX_QUERY_LENGTH must be positive, got %d", cfg.PipelineCfg.MaxQueryLength))
	}

	if cfg.PipelineCfg.BusinessHoursStart < 0 || cfg.PipelineCfg.BusinessHoursStart > 23 ||
		cfg.PipelineCfg.BusinessHoursEnd < 0 || cfg.PipelineCfg.BusinessHoursEnd > 23 ||
		cfg.PipelineCfg.BusinessHoursStart >= cfg.PipelineCfg.BusinessHoursEnd {
		errs = append(errs, fmt.Sprintf("PIPELINE_BUSINESS_HOURS must be a valid range within 0-23, got %d-%d",
			cfg.PipelineCfg.BusinessHoursStart, cfg.PipelineCfg.BusinessHoursEnd))
	}

	if _, err := time.LoadLocation(cfg.PipelineCfg.BusinessTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("PIPELINE_BUSINESS_TIMEZONE is not a valid timezone: %v", err))
	}

	// Validate Retention configuration
	if cfg.RetentionCfg.Enabled && cfg.RetentionCfg.Schedule == "" {
		errs = append(errs, "RETENTION_SCHEDULE must not be empty when retention is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

var defaultDomainTopics = []string{
	"pricing",
	"billing",
	"account",
	"subscription",
	"refund",
	"cancel",
	"support",
	"getting started",
	"integration",
	"api key",
}

var defaultDomainTerms = []string{
	"nav",
	"fund",
	"portfolio",
	"holdings",
	"asset",
	"allocation",
	"redemption",
	"custodian",
	"benchmark",
	"expense ratio",
	"share class",
	"liquidity",
	"valuation",
}

func loadDomainVocabulary(cfg *Config) error {
	vocabPath := filepath.Join("internal", "config", "domain_topics.json")

	// Check if file exists
	if _, err := os.Stat(vocabPath); os.IsNotExist(err) {
		fmt.Printf("Warning: domain vocabulary file not found at %s, using defaults\n", vocabPath)
		cfg.DomainTopics = defaultDomainTopics
		cfg.DomainTerms = defaultDomainTerms
		return nil
	}

	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return fmt.Errorf("read domain vocabulary file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("domain vocabulary file is empty: %s", vocabPath)
	}

	var vocab domainVocabulary
	if err := json.Unmarshal(data, &vocab); err != nil {
		return fmt.Errorf("parse domain vocabulary JSON: %w", err)
	}

	if len(vocab.Topics) == 0 {
		return fmt.Errorf("domain vocabulary file contains no topics: %s", vocabPath)
	}

	cfg.DomainTopics = vocab.Topics
	cfg.DomainTerms = vocab.Terms
	if len(cfg.DomainTerms) == 0 {
		cfg.DomainTerms = defaultDomainTerms
	}

	fmt.Printf("Loaded %d domain topics and %d terms from %s\n",
		len(cfg.DomainTopics), len(cfg.DomainTerms), vocabPath)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
