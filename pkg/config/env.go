package config

const (
	EnvPrefix = "INVENTARIS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "INVENTARIS_APP_ENV"
	EnvPort      = "INVENTARIS_APP_PORT"
	EnvTimezone  = "INVENTARIS_APP_TIMEZONE"
	EnvStaticDir = "INVENTARIS_STATIC_DIR"

	EnvDBDSN  = "INVENTARIS_DB_DSN"
	EnvDBHost = "INVENTARIS_DB_HOST"
	EnvDBUser = "INVENTARIS_DB_USER"
	EnvDBName = "INVENTARIS_DB_NAME"

	EnvRedisURL = "INVENTARIS_REDIS_URL"

	EnvJWTSecret              = "INVENTARIS_JWT_SECRET"
	EnvJWTIssuer              = "INVENTARIS_JWT_ISSUER"
	EnvJWTExpMins             = "INVENTARIS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "INVENTARIS_REFRESH_TOKEN_TTL_MINUTES"

	EnvSweepOnRead  = "INVENTARIS_SWEEP_ON_READ"
	EnvCronSchedule = "INVENTARIS_CRON_SCHEDULE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
