package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"certifire/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	envFiles := []string{
		".env",
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Error loading %s: %v", envFile, err)
			}
		}
	}
}

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Could not determine home directory: %v", err)
		return ""
	}
	return homeDir
}

func getDefaultDatabasePath(fallback string) string {
	homeDir := getHomeDir()
	if homeDir == "" {
		return fallback
	}
	return filepath.Join(homeDir, ".certifire", "certifire.db")
}

func getDefaultKnownHostsPath() string {
	homeDir := getHomeDir()
	if homeDir == "" {
		return ""
	}
	return filepath.Join(homeDir, ".ssh", "known_hosts")
}

type Configuration struct {
	DatabasePath string `env:"CERTIFIRE_DATABASE_PATH"`
	ListenAddr   string `env:"CERTIFIRE_LISTEN_ADDR" envDefault:":8000"`
	LogLevel     string `env:"CERTIFIRE_LOG_LEVEL" envDefault:"info"`

	// APIKey protects the HTTP API when set.
	APIKey string `env:"CERTIFIRE_API_KEY"`
	// SecretKey is a base64 encoded AES key used to encrypt destination
	// secrets at rest. Secrets are stored as plain text when it is empty.
	SecretKey string `env:"CERTIFIRE_SECRET_KEY"`

	SSHTimeout     time.Duration `env:"CERTIFIRE_SSH_TIMEOUT" envDefault:"10s"`
	KnownHostsPath string        `env:"CERTIFIRE_KNOWN_HOSTS_PATH"`

	// Destination defaults, applied when a destination omits the value.
	DefaultSSHPort           uint   `env:"CERTIFIRE_DEFAULT_SSH_PORT" envDefault:"22"`
	DefaultSSHUser           string `env:"CERTIFIRE_DEFAULT_SSH_USER" envDefault:"root"`
	DefaultChallengePath     string `env:"CERTIFIRE_DEFAULT_CHALLENGE_PATH" envDefault:"/var/www/html"`
	DefaultCertificatePath   string `env:"CERTIFIRE_DEFAULT_CERTIFICATE_PATH" envDefault:"/etc/nginx/certs"`
	DefaultExportFormat      string `env:"CERTIFIRE_DEFAULT_EXPORT_FORMAT" envDefault:"NGINX"`
	MonitoringWorkerBaseHost string `env:"MON_BASE_URL"`

	InfluxURL    string `env:"INFLUX_URL" envDefault:"http://localhost:8086"`
	InfluxToken  string `env:"INFLUX_TOKEN"`
	InfluxOrg    string `env:"INFLUX_ORG"`
	InfluxBucket string `env:"INFLUX_BUCKET"`

	ACMEDirectoryURL string `env:"ACME_DIRECTORY_URL" envDefault:"https://acme-v02.api.letsencrypt.org/directory"`
	ACMEEmail        string `env:"ACME_EMAIL"`
}

// SecretKeyBytes decodes SecretKey. A nil slice means encryption is off.
func (c *Configuration) SecretKeyBytes() ([]byte, error) {
	if c.SecretKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(c.SecretKey)

	if err != nil {
		return nil, fmt.Errorf("decode CERTIFIRE_SECRET_KEY: %w", err)
	}

	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("CERTIFIRE_SECRET_KEY must decode to 16, 24 or 32 bytes, got %d", len(key))
	}
}

func Load() (*Configuration, error) {
	cfg := &Configuration{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = getDefaultDatabasePath("/var/lib/certifire/certifire.db")
	}

	if cfg.KnownHostsPath == "" {
		cfg.KnownHostsPath = getDefaultKnownHostsPath()
	}

	if cfg.DefaultSSHPort == 0 {
		cfg.DefaultSSHPort = 22
	}

	return cfg, nil
}

func mustLoad() *Configuration {
	cfg, err := Load()

	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}

	return cfg
}

var Config = mustLoad()
