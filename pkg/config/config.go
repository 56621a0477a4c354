package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMS          SMSConfig
	Reports      ReportsConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"HARDWAREHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"HARDWAREHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HARDWAREHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HARDWAREHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HARDWAREHUB_DB_DSN"`
	Driver string `envconfig:"HARDWAREHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HARDWAREHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"HARDWAREHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HARDWAREHUB_DB_USER"`
	LegacyPassword string `envconfig:"HARDWAREHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"HARDWAREHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"HARDWAREHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HARDWAREHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HARDWAREHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HARDWAREHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HARDWAREHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HARDWAREHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HARDWAREHUB_REDIS_ADDR"`
	Password     string        `envconfig:"HARDWAREHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"HARDWAREHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HARDWAREHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HARDWAREHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HARDWAREHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HARDWAREHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HARDWAREHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HARDWAREHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HARDWAREHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HARDWAREHUB_JWT_EXPIRATION_MINUTES" default:"720"`
}

// SMSConfig configures the Semaphore SMS gateway used for order updates.
type SMSConfig struct {
	APIKey      string        `envconfig:"HARDWAREHUB_SMS_API_KEY"`
	SenderName  string        `envconfig:"HARDWAREHUB_SMS_SENDER_NAME" default:"HARDWAREHUB"`
	BaseURL     string        `envconfig:"HARDWAREHUB_SMS_BASE_URL" default:"https://api.semaphore.co"`
	SendTimeout time.Duration `envconfig:"HARDWAREHUB_SMS_SEND_TIMEOUT" default:"10s"`
}

// Enabled reports whether an API key has been provisioned. Without one the
// dispatcher only logs the message it would have sent.
func (s SMSConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type ReportsConfig struct {
	CacheTTL    time.Duration `envconfig:"HARDWAREHUB_REPORTS_CACHE_TTL" default:"5m"`
	MaxWindow   int           `envconfig:"HARDWAREHUB_REPORTS_MAX_WINDOW_DAYS" default:"365"`
	TopProducts int           `envconfig:"HARDWAREHUB_REPORTS_TOP_PRODUCTS" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HARDWAREHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HARDWAREHUB_AUTO_MIGRATE" default:"false"`
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
