// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Form         FormConfig        `mapstructure:"form"`
	Uploads      UploadConfig      `mapstructure:"uploads"`
	Document     DocumentConfig    `mapstructure:"document"`
	Submission   SubmissionConfig  `mapstructure:"submission"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	Logging      LoggingConfig     `mapstructure:"logging"`
	Metrics      MetricsConfig     `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	BodyLimit    int    `mapstructure:"body_limit"`    // bytes, must cover the largest upload
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
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

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
	Index      string   `mapstructure:"index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Specific Configuration Sections ---

// FormConfig holds settings for draft sessions and the step rule table.
type FormConfig struct {
	RulesPath  string `mapstructure:"rules_path"`  // external step rule table, compiled defaults apply when empty
	SessionTTL int    `mapstructure:"session_ttl"` // milliseconds
}

// UploadConfig holds file ingestion ceilings.
type UploadConfig struct {
	GeneralMaxBytes  int64    `mapstructure:"general_max_bytes"`
	ResearchMaxBytes int64    `mapstructure:"research_max_bytes"`
	AllowedTypes     []string `mapstructure:"allowed_types"`
}

// DocumentConfig holds letterhead details stamped onto rendered forms.
type DocumentConfig struct {
	InstitutionName string `mapstructure:"institution_name"`
	InstitutionCity string `mapstructure:"institution_city"`
	AffiliationLine string `mapstructure:"affiliation_line"`
	PostNoticeLine  string `mapstructure:"post_notice_line"`
}

// SubmissionConfig holds settings for the final submit pipeline.
type SubmissionConfig struct {
	EndpointURL    string `mapstructure:"endpoint_url"` // remote intake script
	Timeout        int    `mapstructure:"timeout"`      // milliseconds
	SchemaPath     string `mapstructure:"schema_path"`  // outbound payload schema
	ArtifactDir    string `mapstructure:"artifact_dir"` // local copy of the combined PDF, empty disables
	PrincipalEmail string `mapstructure:"principal_email"`
}

// IntegrationConfig holds settings for Email, SMS, and other external services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
