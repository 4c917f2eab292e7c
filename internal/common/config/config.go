// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Oracle        OracleConfig            `mapstructure:"oracle"`
	Benchmark     BenchmarkConfig         `mapstructure:"benchmark"`
	API           APIConfig               `mapstructure:"api"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds

	// DeployResources lists BPMN files deployed on startup.
	DeployResources []string `mapstructure:"deploy_resources"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the lib/pq connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// ElasticsearchConfig configures the optional results index. An empty
// address list disables indexing.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// Enabled reports whether an Elasticsearch cluster is configured.
func (e ElasticsearchConfig) Enabled() bool {
	return len(e.Addresses) > 0
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OracleConfig selects and tunes the text-completion backend used for
// maturity scoring and recommendation text.
type OracleConfig struct {
	// Provider is one of "openai", "gemini" or "disabled".
	Provider    string  `mapstructure:"provider"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`

	// ScoreAnswers routes per-answer evaluation through the oracle. When
	// false only the local heuristic is used.
	ScoreAnswers bool `mapstructure:"score_answers"`
}

func (o OracleConfig) GetTimeout() time.Duration {
	return GetDuration(o.Timeout)
}

type BenchmarkConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // milliseconds
}

func (b BenchmarkConfig) GetCacheTTL() time.Duration {
	return GetDuration(b.CacheTTL)
}

type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type ObservabilityConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
