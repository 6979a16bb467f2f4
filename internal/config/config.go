// Package config loads engine configuration from .fundflow/config.yaml with
// environment overrides. A missing config file is not an error; defaults are
// used so the CLI works out of the box against the public endpoints.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete engine configuration
type Config struct {
	DataDir string `json:"dataDir" mapstructure:"dataDir"`

	Sources   SourcesConfig   `json:"sources" mapstructure:"sources"`
	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// SourcesConfig holds endpoints and credentials for the external sources
type SourcesConfig struct {
	Capital   CapitalSourceConfig `json:"capital" mapstructure:"capital"`
	Code      CodeSourceConfig    `json:"code" mapstructure:"code"`
	Usage     UsageSourceConfig   `json:"usage" mapstructure:"usage"`
	News      NewsSourceConfig    `json:"news" mapstructure:"news"`
	Social    SocialSourceConfig  `json:"social" mapstructure:"social"`
	TimeoutMs int                 `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// CapitalSourceConfig configures the primary market-data tracker and the
// secondary tracker used for repository-link resolution
type CapitalSourceConfig struct {
	BaseURL          string `json:"baseUrl" mapstructure:"baseUrl"`
	APIKey           string `json:"apiKey" mapstructure:"apiKey"`
	SecondaryBaseURL string `json:"secondaryBaseUrl" mapstructure:"secondaryBaseUrl"`
}

// CodeSourceConfig configures the code-hosting API
type CodeSourceConfig struct {
	BaseURL string `json:"baseUrl" mapstructure:"baseUrl"`
	Token   string `json:"token" mapstructure:"token"`
}

// UsageSourceConfig configures the protocol-analytics API
type UsageSourceConfig struct {
	BaseURL string `json:"baseUrl" mapstructure:"baseUrl"`
}

// NewsSourceConfig configures the general search/news API
type NewsSourceConfig struct {
	BaseURL string `json:"baseUrl" mapstructure:"baseUrl"`
	APIKey  string `json:"apiKey" mapstructure:"apiKey"`
}

// SocialSourceConfig configures the social-metrics API
type SocialSourceConfig struct {
	BaseURL     string `json:"baseUrl" mapstructure:"baseUrl"`
	BearerToken string `json:"bearerToken" mapstructure:"bearerToken"`
}

// DiscoveryConfig bounds the discovery cascade
type DiscoveryConfig struct {
	SearchDelayMs int `json:"searchDelayMs" mapstructure:"searchDelayMs"`
	MinTermLength int `json:"minTermLength" mapstructure:"minTermLength"`
	CrawlDepth    int `json:"crawlDepth" mapstructure:"crawlDepth"`
	MaxSublinks   int `json:"maxSublinks" mapstructure:"maxSublinks"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Timeout returns the per-call HTTP timeout
func (s SourcesConfig) Timeout() time.Duration {
	if s.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// SearchDelay returns the fixed delay inserted between successive external
// search attempts across query-term variants
func (d DiscoveryConfig) SearchDelay() time.Duration {
	if d.SearchDelayMs < 0 {
		return 0
	}
	return time.Duration(d.SearchDelayMs) * time.Millisecond
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir: ".fundflow",
		Sources: SourcesConfig{
			Capital: CapitalSourceConfig{
				BaseURL:          "https://api.cryptorank.io/v1",
				SecondaryBaseURL: "https://api.coingecko.com/api/v3",
			},
			Code: CodeSourceConfig{
				BaseURL: "https://api.github.com",
			},
			Usage: UsageSourceConfig{
				BaseURL: "https://api.llama.fi",
			},
			News: NewsSourceConfig{
				BaseURL: "https://newsapi.org/v2",
			},
			Social: SocialSourceConfig{
				BaseURL: "https://api.twitter.com/2",
			},
			TimeoutMs: 10000,
		},
		Discovery: DiscoveryConfig{
			SearchDelayMs: 1000,
			MinTermLength: 3,
			CrawlDepth:    1,
			MaxSublinks:   2,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from <root>/.fundflow/config.yaml, applying
// defaults and FUNDFLOW_* environment overrides
func Load(root string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("dataDir", def.DataDir)
	v.SetDefault("sources.capital.baseUrl", def.Sources.Capital.BaseURL)
	v.SetDefault("sources.capital.secondaryBaseUrl", def.Sources.Capital.SecondaryBaseURL)
	v.SetDefault("sources.code.baseUrl", def.Sources.Code.BaseURL)
	v.SetDefault("sources.usage.baseUrl", def.Sources.Usage.BaseURL)
	v.SetDefault("sources.news.baseUrl", def.Sources.News.BaseURL)
	v.SetDefault("sources.social.baseUrl", def.Sources.Social.BaseURL)
	v.SetDefault("sources.timeoutMs", def.Sources.TimeoutMs)
	v.SetDefault("discovery.searchDelayMs", def.Discovery.SearchDelayMs)
	v.SetDefault("discovery.minTermLength", def.Discovery.MinTermLength)
	v.SetDefault("discovery.crawlDepth", def.Discovery.CrawlDepth)
	v.SetDefault("discovery.maxSublinks", def.Discovery.MaxSublinks)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(root, ".fundflow"))

	v.SetEnvPrefix("FUNDFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DBPath returns the sqlite database location under the data dir
func (c *Config) DBPath(root string) string {
	dir := c.DataDir
	if dir == "" {
		dir = ".fundflow"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Join(dir, "fundflow.db")
}
