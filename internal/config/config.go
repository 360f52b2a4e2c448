package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env           string              `yaml:"env"`           // Env is the current environment: local, development, production.
	Postgres      PostgresConfig      `yaml:"postgres"`      // Postgres holds the database configuration
	HTTP          HTTPConfig          `yaml:"http"`          // HTTP holds the public API server configuration
	Monitoring    MonitoringConfig    `yaml:"monitoring"`    // Monitoring holds the metrics/health server configuration
	Auth          AuthConfig          `yaml:"auth"`          // Auth holds session token and bootstrap user settings
	Departments   []string            `yaml:"departments"`   // Departments is the fixed set a task may belong to
	Notifications NotificationsConfig `yaml:"notifications"` // Notifications tunes the offline dispatcher
	WebPush       WebPushConfig       `yaml:"webpush"`       // WebPush holds VAPID credentials
	WhatsApp      WhatsAppConfig      `yaml:"whatsapp"`      // WhatsApp holds Twilio credentials
	Reminders     RemindersConfig     `yaml:"reminders"`     // Reminders configures due-date reminders
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
	SSLMode  string `yaml:"sslmode"`  // SSLMode is passed verbatim to the connection string.
}

type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	StaticDir       string        `yaml:"static_dir"`
}

type MonitoringConfig struct {
	Port int `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret            string        `yaml:"jwt_secret"`
	TokenTTL             time.Duration `yaml:"token_ttl"`
	AdminUsername        string        `yaml:"admin_username"`
	AdminPassword        string        `yaml:"admin_password"`
	AdminDepartment      string        `yaml:"admin_department"`
	CrossDepartmentRoles []string      `yaml:"cross_department_roles"`
}

type NotificationsConfig struct {
	Channels            []string      `yaml:"channels"`             // push, whatsapp
	Workers             int           `yaml:"workers"`              // number of queue consumers
	QueueSize           int           `yaml:"queue_size"`           // pending jobs before Enqueue rejects
	DeliveryConcurrency int           `yaml:"delivery_concurrency"` // parallel deliveries inside one job
	DeliveryTimeout     time.Duration `yaml:"delivery_timeout"`     // deadline for a whole job
}

type WebPushConfig struct {
	Subscriber      string `yaml:"subscriber"`
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	TTL             int    `yaml:"ttl"`
}

type WhatsAppConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
}

type RemindersConfig struct {
	Schedule string        `yaml:"schedule"`
	Window   time.Duration `yaml:"window"`
}

const envPrefix = "HESTIA"

var (
	ErrConfigNotFound = errors.New("config file does not exist")
	ErrMissingSecret  = errors.New("auth.jwt_secret is required")
)

// Load reads the configuration from the YAML file at CONFIG_PATH, when set, and
// from HESTIA_* environment variables which take precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Dbname:   v.GetString("postgres.db_name"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		HTTP: HTTPConfig{
			Address:        v.GetString("http.address"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
			StaticDir:      v.GetString("http.static_dir"),
		},
		Monitoring: MonitoringConfig{
			Port: v.GetInt("monitoring.port"),
		},
		Auth: AuthConfig{
			JWTSecret:            v.GetString("auth.jwt_secret"),
			AdminUsername:        v.GetString("auth.admin_username"),
			AdminPassword:        v.GetString("auth.admin_password"),
			AdminDepartment:      v.GetString("auth.admin_department"),
			CrossDepartmentRoles: v.GetStringSlice("auth.cross_department_roles"),
		},
		Departments: v.GetStringSlice("departments"),
		Notifications: NotificationsConfig{
			Channels:            v.GetStringSlice("notifications.channels"),
			Workers:             v.GetInt("notifications.workers"),
			QueueSize:           v.GetInt("notifications.queue_size"),
			DeliveryConcurrency: v.GetInt("notifications.delivery_concurrency"),
		},
		WebPush: WebPushConfig{
			Subscriber:      v.GetString("webpush.subscriber"),
			VAPIDPublicKey:  v.GetString("webpush.vapid_public_key"),
			VAPIDPrivateKey: v.GetString("webpush.vapid_private_key"),
			TTL:             v.GetInt("webpush.ttl"),
		},
		WhatsApp: WhatsAppConfig{
			AccountSID: v.GetString("whatsapp.account_sid"),
			AuthToken:  v.GetString("whatsapp.auth_token"),
			From:       v.GetString("whatsapp.from"),
		},
		Reminders: RemindersConfig{
			Schedule: v.GetString("reminders.schedule"),
		},
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"http.read_timeout", &cfg.HTTP.ReadTimeout},
		{"http.write_timeout", &cfg.HTTP.WriteTimeout},
		{"http.shutdown_timeout", &cfg.HTTP.ShutdownTimeout},
		{"auth.token_ttl", &cfg.Auth.TokenTTL},
		{"notifications.delivery_timeout", &cfg.Notifications.DeliveryTimeout},
		{"reminders.window", &cfg.Reminders.Window},
	}
	for _, d := range durations {
		parsed, err := parseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s from configuration: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("http.address", ":3000")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("monitoring.port", 8080)
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.admin_username", "sistemas")
	v.SetDefault("auth.admin_department", "Sistemas")
	v.SetDefault("auth.cross_department_roles", []string{"sistemas", "gerencia"})
	v.SetDefault("departments", []string{
		"Recepcion", "Housekeeping", "Mantenimiento", "Sistemas", "Alimentos y Bebidas", "Seguridad",
	})
	v.SetDefault("notifications.channels", []string{"push"})
	v.SetDefault("notifications.workers", 4)
	v.SetDefault("notifications.queue_size", 256)
	v.SetDefault("notifications.delivery_concurrency", 8)
	v.SetDefault("notifications.delivery_timeout", "30s")
	v.SetDefault("webpush.subscriber", "mailto:admin@example.com")
	v.SetDefault("webpush.ttl", 3600)
	v.SetDefault("reminders.schedule", "@every 15m")
	v.SetDefault("reminders.window", "1h")
}

// parseDuration accepts both Go duration strings and bare seconds.
func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	dur, err := time.ParseDuration(raw)
	if err == nil {
		return dur, nil
	}

	var seconds int
	if _, scanErr := fmt.Sscanf(raw, "%d", &seconds); scanErr == nil && fmt.Sprint(seconds) == raw {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, err
}

// HasChannel reports whether the named delivery channel is enabled.
func (n NotificationsConfig) HasChannel(name string) bool {
	for _, ch := range n.Channels {
		if strings.EqualFold(strings.TrimSpace(ch), name) {
			return true
		}
	}

	return false
}
