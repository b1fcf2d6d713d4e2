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
	DevRateLimit DevRateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Challenges   ChallengesConfig
	Leaderboard  LeaderboardConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"TIMERAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"TIMERAPP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIMERAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIMERAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIMERAPP_DB_DSN"`
	Driver string `envconfig:"TIMERAPP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIMERAPP_DB_HOST"`
	LegacyPort     int    `envconfig:"TIMERAPP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIMERAPP_DB_USER"`
	LegacyPassword string `envconfig:"TIMERAPP_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIMERAPP_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIMERAPP_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"TIMERAPP_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"TIMERAPP_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TIMERAPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIMERAPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TIMERAPP_REDIS_URL"`
	Address      string        `envconfig:"TIMERAPP_REDIS_ADDR"`
	Password     string        `envconfig:"TIMERAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIMERAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIMERAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIMERAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIMERAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIMERAPP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"TIMERAPP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TIMERAPP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TIMERAPP_JWT_ISSUER" default:"timerapp"`
	ExpirationMinutes int    `envconfig:"TIMERAPP_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type DevRateLimitConfig struct {
	Window  time.Duration `envconfig:"TIMERAPP_DEV_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"TIMERAPP_DEV_AUTH_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TIMERAPP_AUTO_MIGRATE" default:"false"`
	DevAuth     bool `envconfig:"TIMERAPP_FEATURE_DEV_AUTH" default:"true"`
}

type ChallengesConfig struct {
	DefaultListLimit int `envconfig:"TIMERAPP_CHALLENGES_DEFAULT_LIMIT" default:"50"`
	MaxListLimit     int `envconfig:"TIMERAPP_CHALLENGES_MAX_LIMIT" default:"200"`
}

type LeaderboardConfig struct {
	CacheTTL time.Duration `envconfig:"TIMERAPP_LEADERBOARD_CACHE_TTL" default:"60s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TIMERAPP_CORS_ALLOWED_ORIGINS" default:"http://localhost:8081,http://localhost:19006"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DriverSQLite)
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
