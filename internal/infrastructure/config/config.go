package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
)

// Config holds all configuration for the application. Loaded once at startup
// and passed by reference; nothing else reads the environment.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Roles    RolesConfig    `mapstructure:"roles"`
	Logger   logger.Config  `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SheetsConfig holds the backing spreadsheet identifiers and credentials.
// Credentials come either as one service-account JSON blob or as an
// email/private-key pair.
type SheetsConfig struct {
	SpreadsheetID      string        `mapstructure:"spreadsheet_id"`
	ServiceAccountJSON string        `mapstructure:"service_account_json"`
	ClientEmail        string        `mapstructure:"client_email"`
	PrivateKey         string        `mapstructure:"private_key"`
	TasksTab           string        `mapstructure:"tasks_tab"`
	TeamTab            string        `mapstructure:"team_tab"`
	InstitutionsTab    string        `mapstructure:"institutions_tab"`
	AuditTab           string        `mapstructure:"audit_tab"`
	IDPrefix           string        `mapstructure:"id_prefix"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
}

// RolesConfig holds the raw admin/team member lists; parsing happens in the
// roles service.
type RolesConfig struct {
	Admins string `mapstructure:"admins"`
	Team   string `mapstructure:"team"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from the environment, with .env support for local
// development.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &entities.ConfigurationError{Missing: "parseable environment: " + err.Error()}
	}

	cfg.Sheets.PrivateKey = CleanPrivateKey(cfg.Sheets.PrivateKey)
	cfg.Sheets.ServiceAccountJSON = strings.TrimSpace(cfg.Sheets.ServiceAccountJSON)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mediatasks")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("sheets.tasks_tab", "Sheet1")
	v.SetDefault("sheets.team_tab", "Team")
	v.SetDefault("sheets.institutions_tab", "Institutions")
	v.SetDefault("sheets.audit_tab", "")
	v.SetDefault("sheets.id_prefix", "T")
	v.SetDefault("sheets.request_timeout", 20*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 20)
	v.SetDefault("security.rate_limit_window", time.Minute)

	v.SetDefault("metrics.enabled", true)
}

// bindEnvVars keeps the env names the deployment already uses.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("sheets.spreadsheet_id", "SPREADSHEET_ID", "GOOGLE_SPREADSHEET_ID", "GOOGLE_SHEETS_ID")
	_ = v.BindEnv("sheets.service_account_json", "GOOGLE_SERVICE_ACCOUNT_KEY")
	_ = v.BindEnv("sheets.client_email", "GOOGLE_SHEETS_CLIENT_EMAIL")
	_ = v.BindEnv("sheets.private_key", "GOOGLE_SHEETS_PRIVATE_KEY")
	_ = v.BindEnv("sheets.tasks_tab", "SHEET_TAB")
	_ = v.BindEnv("sheets.team_tab", "TEAM_TAB")
	_ = v.BindEnv("sheets.institutions_tab", "INSTITUTIONS_TAB")
	_ = v.BindEnv("sheets.audit_tab", "AUDIT_TAB")
	_ = v.BindEnv("roles.admins", "ADMIN_USERS")
	_ = v.BindEnv("roles.team", "TEAM_MEMBERS")
}

func validateConfig(cfg *Config) error {
	if cfg.Sheets.SpreadsheetID == "" {
		return &entities.ConfigurationError{Missing: "SPREADSHEET_ID"}
	}
	if cfg.Sheets.ServiceAccountJSON == "" && (cfg.Sheets.ClientEmail == "" || cfg.Sheets.PrivateKey == "") {
		return &entities.ConfigurationError{Missing: "GOOGLE_SERVICE_ACCOUNT_KEY or GOOGLE_SHEETS_CLIENT_EMAIL/GOOGLE_SHEETS_PRIVATE_KEY"}
	}
	return nil
}

// CleanPrivateKey undoes the damage env-var plumbing does to PEM keys:
// wrapping quotes from shell exports and literal \n sequences from JSON
// copy-paste.
func CleanPrivateKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= 2 {
		if (key[0] == '"' && key[len(key)-1] == '"') || (key[0] == '\'' && key[len(key)-1] == '\'') {
			key = key[1 : len(key)-1]
		}
	}
	key = strings.ReplaceAll(key, `\n`, "\n")
	return strings.TrimSpace(key)
}
