package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "sentinel"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SENTINEL_DB_DSN"
	EnvDBHost = "SENTINEL_DB_HOST"
	EnvDBUser = "SENTINEL_DB_USER"
	EnvDBName = "SENTINEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Email         EmailConfig
	Reminders     ReminderConfig
	Favicon       FaviconConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SENTINEL_APP_ENV" required:"true"`
	Port         string `envconfig:"SENTINEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SENTINEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SENTINEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SENTINEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SENTINEL_DB_DSN"`
	Driver string `envconfig:"SENTINEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SENTINEL_DB_HOST"`
	LegacyPort     int    `envconfig:"SENTINEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SENTINEL_DB_USER"`
	LegacyPassword string `envconfig:"SENTINEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"SENTINEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"SENTINEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SENTINEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SENTINEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SENTINEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SENTINEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SENTINEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SENTINEL_REDIS_ADDR"`
	Password     string        `envconfig:"SENTINEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"SENTINEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SENTINEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SENTINEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SENTINEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SENTINEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SENTINEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SENTINEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SENTINEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SENTINEL_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    uint32 `envconfig:"SENTINEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        uint32 `envconfig:"SENTINEL_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"SENTINEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     uint32 `envconfig:"SENTINEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      uint32 `envconfig:"SENTINEL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SENTINEL_AUTH_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int64         `envconfig:"SENTINEL_AUTH_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int64         `envconfig:"SENTINEL_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"SENTINEL_AUTH_REGISTER_WINDOW" default:"15m"`
	RegisterIPLimit    int64         `envconfig:"SENTINEL_AUTH_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int64         `envconfig:"SENTINEL_AUTH_REGISTER_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SENTINEL_FEATURE_AUTO_MIGRATE" default:"false"`
}

// EmailConfig carries the transactional email provider credentials. The key is
// optional at load time so binaries that never send email can boot without it;
// the email client refuses to construct without one, which surfaces as a 500
// on the endpoints that need it rather than a silent no-op.
type EmailConfig struct {
	ResendAPIKey string `envconfig:"SENTINEL_RESEND_API_KEY"`
	FromAddress  string `envconfig:"SENTINEL_EMAIL_FROM" default:"Trial Sentinel <reminders@trialsentinel.app>"`
}

type ReminderConfig struct {
	Interval   time.Duration `envconfig:"SENTINEL_REMINDER_INTERVAL" default:"24h"`
	BatchLimit int           `envconfig:"SENTINEL_REMINDER_BATCH_LIMIT" default:"500"`
}

type FaviconConfig struct {
	FetchTimeout time.Duration `envconfig:"SENTINEL_FAVICON_FETCH_TIMEOUT" default:"5s"`
	MaxBytes     int64         `envconfig:"SENTINEL_FAVICON_MAX_BYTES" default:"262144"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
