package config

const (
	EnvPrefix = "SHOPSMARTER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "SHOPSMARTER_APP_ENV"
	EnvPort     = "SHOPSMARTER_APP_PORT"
	EnvDBDSN    = "SHOPSMARTER_DB_DSN"
	EnvDBHost   = "SHOPSMARTER_DB_HOST"
	EnvDBUser   = "SHOPSMARTER_DB_USER"
	EnvDBName   = "SHOPSMARTER_DB_NAME"
	EnvRedisURL = "SHOPSMARTER_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
