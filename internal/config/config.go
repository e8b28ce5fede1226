package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host        string
	Port        int
	PublicURL   string
	CORSOrigins []string
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	MaxBytes        int64
}

type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

type StatusConfig struct {
	Segments int
	Interval time.Duration
}

type StoreConfig struct {
	RejectNonArray bool
}

type QRConfig struct {
	ServiceURL string
	Size       string
}

type PDFConfig struct {
	FontPath string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Status      StatusConfig
	Store       StoreConfig
	QR          QRConfig
	PDF         PDFConfig
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			PublicURL:   strings.TrimRight(v.GetString("HTTP_PUBLIC_URL"), "/"),
			CORSOrigins: parseList(v.GetString("HTTP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			MaxBytes:        v.GetInt64("DB_MAX_BYTES"),
		},
		Auth: AuthConfig{
			TokenSecret: v.GetString("AUTH_TOKEN_SECRET"),
			TokenTTL:    v.GetDuration("AUTH_TOKEN_TTL"),
		},
		Status: StatusConfig{
			Segments: v.GetInt("STATUS_SEGMENTS"),
			Interval: v.GetDuration("STATUS_INTERVAL"),
		},
		Store: StoreConfig{
			RejectNonArray: v.GetBool("STORE_REJECT_NON_ARRAY"),
		},
		QR: QRConfig{
			ServiceURL: v.GetString("QR_SERVICE_URL"),
			Size:       v.GetString("QR_SIZE"),
		},
		PDF: PDFConfig{
			FontPath: v.GetString("PDF_FONT_PATH"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 4000
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverPostgres
	}
	if cfg.DB.MaxBytes <= 0 {
		cfg.DB.MaxBytes = 536870912
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Status.Segments <= 0 {
		cfg.Status.Segments = 96
	}
	if cfg.Status.Interval <= 0 {
		cfg.Status.Interval = 15 * time.Second
	}
	if cfg.QR.ServiceURL == "" {
		cfg.QR.ServiceURL = "https://api.qrserver.com/v1/create-qr-code/"
	}
	if cfg.QR.Size == "" {
		cfg.QR.Size = "120x120"
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if cfg.DB.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(cfg.DB.ConnMaxLifetime); err != nil {
			return fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
		}
	}
	if cfg.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
