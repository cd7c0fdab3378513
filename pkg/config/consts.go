package config

const EnvPrefix = "WISHBOX"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, kept in one place so tests and error
// messages stay in sync with the envconfig tags.
const (
	EnvAppEnv   = "WISHBOX_APP_ENV"
	EnvPort     = "WISHBOX_APP_PORT"
	EnvDBDSN    = "WISHBOX_DB_DSN"
	EnvDBHost   = "WISHBOX_DB_HOST"
	EnvDBUser   = "WISHBOX_DB_USER"
	EnvDBName   = "WISHBOX_DB_NAME"
	EnvRedisURL = "WISHBOX_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
