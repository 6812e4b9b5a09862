package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the pipeline's runtime configuration: EDGAR/OFAC access,
// graph store credentials, analyzer provider settings and scheduler cadence.
// Loaded from YAML with environment-variable overrides, mirroring the
// teacher's layered config pattern.
type Config struct {
	Edgar struct {
		UserAgent      string `yaml:"user_agent"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"edgar"`

	OFAC struct {
		CacheDir       string `yaml:"cache_dir"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		FreshnessDays  int    `yaml:"freshness_days"`
	} `yaml:"ofac"`

	Graph struct {
		URI      string `yaml:"uri"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"graph"`

	Analyzer struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		MaxRetries  int     `yaml:"max_retries"`
	} `yaml:"analyzer"`

	Scheduler struct {
		Form4MaxFilingsPerCompany int     `yaml:"form4_max_filings_per_company"`
		InterCompanyDelayMs       int     `yaml:"inter_company_delay_ms"`
		WorkerPoolSize            int     `yaml:"worker_pool_size"`
		ClusterLookbackDays       int     `yaml:"cluster_lookback_days"`
		MinClusterLevel           string  `yaml:"min_cluster_level"`
		LargePurchaseThreshold    float64 `yaml:"large_purchase_threshold"`
		CheckpointPath            string  `yaml:"checkpoint_path"`
	} `yaml:"scheduler"`

	ReviewQueue struct {
		StorePath string `yaml:"store_path"`
	} `yaml:"review_queue"`
}

// Validate fails fast on missing mandatory settings, per the ConfigError
// taxonomy entry in spec.md §7.
func (c *Config) Validate() error {
	ua := strings.TrimSpace(c.Edgar.UserAgent)
	if ua == "" {
		return errors.New("edgar.user_agent is required (format: \"Company Name admin@example.com\")")
	}
	if !strings.Contains(ua, "@") || strings.EqualFold(ua, "placeholder") {
		return fmt.Errorf("edgar.user_agent %q is not a valid identifier-email string", ua)
	}
	if c.Graph.URI == "" {
		return errors.New("graph.uri is required")
	}
	if c.Edgar.RequestsPerSec <= 0 {
		c.Edgar.RequestsPerSec = 10
	}
	if c.Edgar.TimeoutSeconds <= 0 {
		c.Edgar.TimeoutSeconds = 30
	}
	if c.OFAC.TimeoutSeconds <= 0 {
		c.OFAC.TimeoutSeconds = 120
	}
	if c.OFAC.FreshnessDays <= 0 {
		c.OFAC.FreshnessDays = 7
	}
	if c.OFAC.CacheDir == "" {
		c.OFAC.CacheDir = "data/ofac_cache"
	}
	if c.Analyzer.MaxRetries <= 0 {
		c.Analyzer.MaxRetries = 3
	}
	if c.Scheduler.Form4MaxFilingsPerCompany <= 0 {
		c.Scheduler.Form4MaxFilingsPerCompany = 10
	}
	if c.Scheduler.InterCompanyDelayMs <= 0 {
		c.Scheduler.InterCompanyDelayMs = 500
	}
	if c.Scheduler.WorkerPoolSize <= 0 {
		c.Scheduler.WorkerPoolSize = 3
	}
	if c.Scheduler.ClusterLookbackDays <= 0 {
		c.Scheduler.ClusterLookbackDays = 30
	}
	if c.Scheduler.MinClusterLevel == "" {
		c.Scheduler.MinClusterLevel = "medium"
	}
	if c.Scheduler.LargePurchaseThreshold <= 0 {
		c.Scheduler.LargePurchaseThreshold = 500000
	}
	if c.ReviewQueue.StorePath == "" {
		c.ReviewQueue.StorePath = "data/review_queue.json"
	}
	if c.Scheduler.CheckpointPath == "" {
		c.Scheduler.CheckpointPath = "data/form4_checkpoint.json"
	}
	return nil
}

// LoadConfig reads YAML from path and applies environment overrides for the
// secrets that should never live in a committed file.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("SEC_EDGAR_USER_AGENT"); v != "" {
		c.Edgar.UserAgent = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Graph.URI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		c.Graph.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Graph.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		c.Graph.Database = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Analyzer.Provider = "anthropic"
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Analyzer.Provider = "openai"
	}
	if v := os.Getenv("OFAC_CACHE_DIR"); v != "" {
		c.OFAC.CacheDir = v
	}
	if v := os.Getenv("EDGAR_REQUESTS_PER_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Edgar.RequestsPerSec = n
		}
	}
}
