package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	StaticDir string

	CORS       CORSConfig
	Log        LogConfig
	Redis      RedisConfig
	Billetto   BillettoConfig
	Events     EventsConfig
	Membership MembershipConfig
	EmailJS    EmailJSConfig
	Proxy      ProxyConfig
	Admin      AdminConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// BillettoConfig holds credentials for the ticketing API.
type BillettoConfig struct {
	BaseURL      string
	APIKey       string
	ClientSecret string
	OrganizerID  string
	Timeout      time.Duration
}

// Configured reports whether both credential values are present.
func (c BillettoConfig) Configured() bool {
	return c.APIKey != "" && c.ClientSecret != ""
}

// EventsConfig tunes the event pipeline.
type EventsConfig struct {
	CacheTTL     time.Duration
	CacheBackend string
	Timezone     string
}

// MembershipConfig points at the membership registry.
type MembershipConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// EmailJSConfig configures the transactional email widget used for DJ applications.
type EmailJSConfig struct {
	Endpoint    string
	ServiceID   string
	TemplateID  string
	PublicKey   string
	AccessToken string
	Recipient   string
	Timeout     time.Duration
}

// Configured reports whether every identifier needed to send is present.
func (c EmailJSConfig) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// ProxyConfig configures the CORS forwarding endpoints.
type ProxyConfig struct {
	TicketingUpstream  string
	MembershipUpstream string
	Timeout            time.Duration
}

// AdminConfig guards maintenance routes. An empty secret disables them.
type AdminConfig struct {
	JWTSecret string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.StaticDir = v.GetString("STATIC_DIR")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	organizerID := strings.TrimSpace(v.GetString("BILLETTO_ORGANIZER_ID"))
	if organizerID == "" {
		organizerID = defaultOrganizerID
	}
	cfg.Billetto = BillettoConfig{
		BaseURL:      strings.TrimRight(v.GetString("BILLETTO_BASE_URL"), "/"),
		APIKey:       strings.TrimSpace(v.GetString("BILLETTO_API_KEY")),
		ClientSecret: strings.TrimSpace(v.GetString("BILLETTO_CLIENT_SECRET")),
		OrganizerID:  organizerID,
		Timeout:      parseDuration(v.GetString("BILLETTO_TIMEOUT"), 15*time.Second),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("CACHE_BACKEND")))
	if backend != CacheBackendRedis {
		backend = CacheBackendMemory
	}
	cfg.Events = EventsConfig{
		CacheTTL:     parseDuration(v.GetString("EVENTS_CACHE_TTL"), 5*time.Minute),
		CacheBackend: backend,
		Timezone:     v.GetString("EVENTS_TIMEZONE"),
	}

	cfg.Membership = MembershipConfig{
		Endpoint: v.GetString("MEMBERSHIP_ENDPOINT"),
		APIKey:   strings.TrimSpace(v.GetString("MEMBERSHIP_API_KEY")),
		Timeout:  parseDuration(v.GetString("MEMBERSHIP_TIMEOUT"), 30*time.Second),
	}

	cfg.EmailJS = EmailJSConfig{
		Endpoint:    v.GetString("EMAILJS_ENDPOINT"),
		ServiceID:   strings.TrimSpace(v.GetString("EMAILJS_SERVICE_ID")),
		TemplateID:  strings.TrimSpace(v.GetString("EMAILJS_TEMPLATE_ID")),
		PublicKey:   strings.TrimSpace(v.GetString("EMAILJS_PUBLIC_KEY")),
		AccessToken: strings.TrimSpace(v.GetString("EMAILJS_ACCESS_TOKEN")),
		Recipient:   v.GetString("DJ_APPLICATION_RECIPIENT"),
		Timeout:     parseDuration(v.GetString("EMAILJS_TIMEOUT"), 15*time.Second),
	}

	cfg.Proxy = ProxyConfig{
		TicketingUpstream:  strings.TrimRight(v.GetString("PROXY_TICKETING_UPSTREAM"), "/"),
		MembershipUpstream: v.GetString("PROXY_MEMBERSHIP_UPSTREAM"),
		Timeout:            parseDuration(v.GetString("PROXY_TIMEOUT"), 30*time.Second),
	}

	cfg.Admin = AdminConfig{JWTSecret: v.GetString("ADMIN_JWT_SECRET")}

	return cfg
}

const defaultOrganizerID = "4429536"

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("STATIC_DIR", "./dist")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("BILLETTO_BASE_URL", "https://billetto.se/api/v3")
	v.SetDefault("BILLETTO_API_KEY", "")
	v.SetDefault("BILLETTO_CLIENT_SECRET", "")
	v.SetDefault("BILLETTO_ORGANIZER_ID", defaultOrganizerID)
	v.SetDefault("BILLETTO_TIMEOUT", "15s")

	v.SetDefault("EVENTS_CACHE_TTL", "5m")
	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("EVENTS_TIMEZONE", "UTC")

	v.SetDefault("MEMBERSHIP_ENDPOINT", "https://ebas.svensklive.se/apis/submit_member.json")
	v.SetDefault("MEMBERSHIP_API_KEY", "")
	v.SetDefault("MEMBERSHIP_TIMEOUT", "30s")

	v.SetDefault("EMAILJS_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("EMAILJS_SERVICE_ID", "")
	v.SetDefault("EMAILJS_TEMPLATE_ID", "")
	v.SetDefault("EMAILJS_PUBLIC_KEY", "")
	v.SetDefault("EMAILJS_ACCESS_TOKEN", "")
	v.SetDefault("EMAILJS_TIMEOUT", "15s")
	v.SetDefault("DJ_APPLICATION_RECIPIENT", "info@slutstation.se")

	v.SetDefault("PROXY_TICKETING_UPSTREAM", "https://api.billetto.com/v1")
	v.SetDefault("PROXY_MEMBERSHIP_UPSTREAM", "https://ebas.svensklive.se/apis/submit_member.json")
	v.SetDefault("PROXY_TIMEOUT", "30s")

	v.SetDefault("ADMIN_JWT_SECRET", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
