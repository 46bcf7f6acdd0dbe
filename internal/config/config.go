package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	cfg     *APIConfig
	cfgErr  error
	once    sync.Once
	envFile = ".env"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	DB             DBConfig             `xml:"DB"`
	Assessment     AssessmentConfig     `xml:"ASSESSMENT"`
	Offline        OfflineConfig        `xml:"OFFLINE"`
	Reports        ReportsConfig        `xml:"REPORTS"`
	Webhook        WebhookConfig        `xml:"WEBHOOK"`
	Logging        LoggingConfig        `xml:"LOGGING"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port            int    `xml:"PORT"`
	Host            string `xml:"HOST"`
	Path            string `xml:"PATH"`
	TimeZone        string `xml:"TIME_ZONE"`
	ShutdownTimeout int    `xml:"SHUTDOWN_TIMEOUT"`
}

// AuthenticationConfig holds respondent session token settings.
type AuthenticationConfig struct {
	EnableTokenAuth bool   `xml:"ENABLE_TOKEN_AUTH"`
	TokenSecret     string `xml:"TOKEN_SECRET"`
	SessionTimeout  int    `xml:"SESSION_TIMEOUT"` // minutes
	AdminKey        string `xml:"ADMIN_KEY"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Enabled    bool         `xml:"ENABLED,attr"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	VALID string `xml:"VALID,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"` // minutes
}

// AssessmentConfig holds session and quality policy settings.
type AssessmentConfig struct {
	MaxActiveSessions int  `xml:"MAX_ACTIVE_SESSIONS"`
	LoadBankFromDB    bool `xml:"LOAD_BANK_FROM_DB"`
	MinCompletionMins int  `xml:"MIN_COMPLETION_MINUTES"`
	MaxCompletionMins int  `xml:"MAX_COMPLETION_MINUTES"`
}

// OfflineConfig configures the local fallback queue.
type OfflineConfig struct {
	QueuePath    string `xml:"QUEUE_PATH"`
	SyncInterval int    `xml:"SYNC_INTERVAL"` // seconds
	BatchSize    int    `xml:"BATCH_SIZE"`
}

// ReportsConfig configures PDF output.
type ReportsConfig struct {
	Enabled   bool   `xml:"ENABLED,attr"`
	OutputDir string `xml:"OUTPUT_DIR"`
}

// WebhookConfig configures the lead-capture webhook.
type WebhookConfig struct {
	Enabled        bool    `xml:"ENABLED,attr"`
	URL            string  `xml:"URL"`
	Secret         string  `xml:"SECRET"`
	TimeoutSeconds int     `xml:"TIMEOUT"`
	RatePerSecond  float64 `xml:"RATE_PER_SECOND"`
}

// LoggingConfig configures rotated log files.
type LoggingConfig struct {
	Dir        string `xml:"DIR"`
	Level      string `xml:"LEVEL"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
}

// LoadConfig loads and parses the XML configuration from the given file, then
// applies overrides from .env and the environment.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		cfg, cfgErr = load(xmlPath)
	})
	return cfg, cfgErr
}

func load(xmlPath string) (*APIConfig, error) {
	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, err
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load(envFile)
	c.applyEnv(os.LookupEnv)
	return c, nil
}

// Parse decodes an XML document and fills in defaults.
func Parse(r io.Reader) (*APIConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c APIConfig
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Host == "" {
		c.Context.Host = "0.0.0.0"
	}
	if c.Context.Port <= 0 {
		c.Context.Port = 8080
	}
	if c.Context.ShutdownTimeout <= 0 {
		c.Context.ShutdownTimeout = 10
	}
	if c.Authentication.SessionTimeout <= 0 {
		c.Authentication.SessionTimeout = 120
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.Port <= 0 {
		c.DB.Port = 5432
	}
	if c.Assessment.MaxActiveSessions <= 0 {
		c.Assessment.MaxActiveSessions = 10000
	}
	if c.Assessment.MinCompletionMins <= 0 {
		c.Assessment.MinCompletionMins = 8
	}
	if c.Assessment.MaxCompletionMins <= 0 {
		c.Assessment.MaxCompletionMins = 45
	}
	if c.Offline.QueuePath == "" {
		c.Offline.QueuePath = "working/offline_queue.db"
	}
	if c.Offline.SyncInterval <= 0 {
		c.Offline.SyncInterval = 60
	}
	if c.Offline.BatchSize <= 0 {
		c.Offline.BatchSize = 50
	}
	if c.Reports.OutputDir == "" {
		c.Reports.OutputDir = "working/reports"
	}
	if c.Webhook.TimeoutSeconds <= 0 {
		c.Webhook.TimeoutSeconds = 10
	}
	if c.Webhook.RatePerSecond <= 0 {
		c.Webhook.RatePerSecond = 5
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 50
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// applyEnv lets deployments keep secrets out of config.xml.
func (c *APIConfig) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("VALID_DB_HOST", &c.DB.Host)
	str("VALID_DB_USER", &c.DB.Username)
	str("VALID_DB_PASSWORD", &c.DB.Password.Value)
	str("VALID_DB_NAME", &c.DB.Names.VALID)
	str("VALID_TOKEN_SECRET", &c.Authentication.TokenSecret)
	str("VALID_ADMIN_KEY", &c.Authentication.AdminKey)
	str("VALID_WEBHOOK_URL", &c.Webhook.URL)
	str("VALID_WEBHOOK_SECRET", &c.Webhook.Secret)
	str("VALID_LOG_LEVEL", &c.Logging.Level)
	if v, ok := lookup("VALID_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
}

// DSN builds the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password.Value, d.Names.VALID, d.SSLMode)
}

// Timing returns the completion-time window as durations.
func (a AssessmentConfig) Timing() (time.Duration, time.Duration) {
	return time.Duration(a.MinCompletionMins) * time.Minute, time.Duration(a.MaxCompletionMins) * time.Minute
}
