package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Mail     MailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
}

type AuthConfig struct {
	SessionSecret      string
	SessionIdleTimeout time.Duration
	ThrottleMaxFails   int
	ThrottleWindow     time.Duration
	ThrottleBlock      time.Duration
	JanitorInterval    time.Duration
}

// MailConfig collapses the per-provider SMTP quirks into a single struct.
// The transport (implicit TLS vs STARTTLS) is decided once at load time:
// MAIL_USE_SSL, defaulting to true on port 465, selects implicit TLS;
// otherwise STARTTLS is used.
type MailConfig struct {
	Provider   string // "smtp" or "ses"
	Server     string
	Port       int
	UseTLS     bool
	UseSSL     bool
	Username   string
	Password   string
	Sender     string
	AdminEmail string
	Timeout    time.Duration
	AWSRegion  string
}

// Configured reports whether outbound mail can be attempted at all.
// An unconfigured mailer short-circuits every send to false.
func (m *MailConfig) Configured() bool {
	switch m.Provider {
	case "ses":
		return m.Sender != ""
	default:
		return m.Server != "" && m.Username != "" && m.Password != ""
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionSecret := getEnv("SESSION_SECRET", "")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	env := getEnv("ENV", "development")

	mailPort := getEnvAsInt("MAIL_PORT", 587)
	useSSL := getEnvAsBool("MAIL_USE_SSL", mailPort == 465)
	mailUsername := getEnv("MAIL_USERNAME", "")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "devpool"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			TrustedProxies: parseTrustedProxies(),
		},
		Auth: AuthConfig{
			SessionSecret:      sessionSecret,
			SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			ThrottleMaxFails:   getEnvAsInt("LOGIN_THROTTLE_MAX_FAILURES", 5),
			ThrottleWindow:     getEnvAsDuration("LOGIN_THROTTLE_WINDOW", 15*time.Minute),
			ThrottleBlock:      getEnvAsDuration("LOGIN_THROTTLE_BLOCK", 15*time.Minute),
			JanitorInterval:    getEnvAsDuration("THROTTLE_JANITOR_INTERVAL", 10*time.Minute),
		},
		Mail: MailConfig{
			Provider:   getEnv("EMAIL_PROVIDER", "smtp"),
			Server:     getEnv("MAIL_SERVER", ""),
			Port:       mailPort,
			UseSSL:     useSSL,
			UseTLS:     getEnvAsBool("MAIL_USE_TLS", !useSSL),
			Username:   mailUsername,
			Password:   getEnv("MAIL_PASSWORD", ""),
			Sender:     getEnv("MAIL_DEFAULT_SENDER", mailUsername),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
			Timeout:    getEnvAsDuration("MAIL_TIMEOUT", 30*time.Second),
			AWSRegion:  getEnv("AWS_REGION", "us-east-1"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	// Validate session secret strength
	if err := validateSessionSecret(sessionSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSessionSecret enforces minimum security standards for the
// session signing secret
func validateSessionSecret(secret, env string) error {
	// Minimum length based on environment
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // Production requires stronger secret (256 bits)
	}

	if len(secret) < minLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	// Check against common weak secrets
	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("SESSION_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseTrustedProxies() []string {
	proxiesStr := getEnv("TRUSTED_PROXIES", "")
	if proxiesStr == "" {
		return nil
	}
	proxies := strings.Split(proxiesStr, ",")
	for i, p := range proxies {
		proxies[i] = strings.TrimSpace(p)
	}
	return proxies
}
