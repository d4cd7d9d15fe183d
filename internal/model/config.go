package model

import "time"

// Config holds the complete politikcred configuration
type Config struct {
	Embedding  EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	Matching   MatchingConfig   `yaml:"matching" mapstructure:"matching"`
	Routing    RoutingConfig    `yaml:"routing" mapstructure:"routing"`
	Ledger     LedgerConfig     `yaml:"ledger" mapstructure:"ledger"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Authority  AuthorityConfig  `yaml:"authority" mapstructure:"authority"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// EmbeddingConfig configures the external embedding provider
type EmbeddingConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (keyword fallback only)
	Model        string        `yaml:"model" mapstructure:"model"`
	APIKey       string        `yaml:"-" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MonthlyQuota int           `yaml:"monthly_quota" mapstructure:"monthly_quota"` // Requests per calendar month, 0 = unlimited
	RatePerSec   float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// MatchingConfig tunes the promise-to-action resolver
type MatchingConfig struct {
	EmbeddingMinSimilarity float64 `yaml:"embedding_min_similarity" mapstructure:"embedding_min_similarity"`
	KeywordMinSimilarity   float64 `yaml:"keyword_min_similarity" mapstructure:"keyword_min_similarity"`
	SameCategoryOnly       bool    `yaml:"same_category_only" mapstructure:"same_category_only"`
	WeakMatchType          string  `yaml:"weak_match_type" mapstructure:"weak_match_type"`
	Workers                int     `yaml:"workers" mapstructure:"workers"`
	ActionableOnly         bool    `yaml:"actionable_only" mapstructure:"actionable_only"`
}

// RoutingConfig sets the confidence bands
type RoutingConfig struct {
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	AutoVerify    float64 `yaml:"auto_verify" mapstructure:"auto_verify"`
}

// LedgerConfig sets the credibility scale
type LedgerConfig struct {
	Scale Scale `yaml:"scale" mapstructure:"scale"`
}

// CacheConfig configures the embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ValidationConfig configures the source validator
type ValidationConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec    float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst         int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	ArchivePrefix string        `yaml:"archive_prefix" mapstructure:"archive_prefix"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// AuthorityConfig classifies source domains
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
}

// StoreConfig locates the database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig controls reports
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:     "", // Keyword fallback unless configured
			Model:        "text-embedding-3-small",
			Timeout:      30 * time.Second,
			MonthlyQuota: 30000,
			RatePerSec:   5,
		},
		Matching: MatchingConfig{
			EmbeddingMinSimilarity: 0.3,
			KeywordMinSimilarity:   0.08,
			SameCategoryOnly:       true,
			WeakMatchType:          string(MatchKept),
			Workers:                4,
			ActionableOnly:         true,
		},
		Routing: RoutingConfig{
			MinConfidence: 0.6,
			AutoVerify:    0.85,
		},
		Ledger: LedgerConfig{
			Scale: CredibilityScale,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".politikcred/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Validation: ValidationConfig{
			Enabled:       true,
			Timeout:       10 * time.Second,
			UserAgent:     "PolitikCred/0.1 (+https://github.com/ppiankov/politikcred)",
			RatePerSec:    2,
			Burst:         5,
			RespectRobots: true,
			ArchivePrefix: "https://web.archive.org/web/",
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"assemblee-nationale.fr", "senat.fr", "legifrance.gouv.fr",
				"gouv.fr", "elysee.fr", "conseil-constitutionnel.fr", "europarl.europa.eu",
			},
			SecondaryDomains: []string{
				"lemonde.fr", "lefigaro.fr", "liberation.fr", "francetvinfo.fr",
				"afp.com", "wikipedia.org", "publicsenat.fr", "lcp.fr",
			},
		},
		Store: StoreConfig{
			Path: ".politikcred/politikcred.db",
		},
		Output: OutputConfig{
			Verbose: false,
			Dir:     "./politikcred-reports",
		},
	}
}
