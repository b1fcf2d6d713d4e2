package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "TIMERAPP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "TIMERAPP_APP_ENV"
	EnvPort     = "TIMERAPP_APP_PORT"
	EnvLogLevel = "TIMERAPP_LOG_LEVEL"

	EnvDBDSN    = "TIMERAPP_DB_DSN"
	EnvDBDriver = "TIMERAPP_DB_DRIVER"
	EnvDBHost   = "TIMERAPP_DB_HOST"
	EnvDBPort   = "TIMERAPP_DB_PORT"
	EnvDBUser   = "TIMERAPP_DB_USER"
	EnvDBPass   = "TIMERAPP_DB_PASSWORD"
	EnvDBName   = "TIMERAPP_DB_NAME"

	EnvRedisURL  = "TIMERAPP_REDIS_URL"
	EnvRedisAddr = "TIMERAPP_REDIS_ADDR"

	EnvJWTSecret  = "TIMERAPP_JWT_SECRET"
	EnvJWTIssuer  = "TIMERAPP_JWT_ISSUER"
	EnvJWTExpMins = "TIMERAPP_JWT_EXPIRATION_MINUTES"

	EnvAutoMigrate      = "TIMERAPP_AUTO_MIGRATE"
	EnvLeaderboardTTL   = "TIMERAPP_LEADERBOARD_CACHE_TTL"
	EnvChallengesMaxLim = "TIMERAPP_CHALLENGES_MAX_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
