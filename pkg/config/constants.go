package config

const EnvPrefix = "WISHLIST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv          = "WISHLIST_APP_ENV"
	EnvPort            = "WISHLIST_APP_PORT"
	EnvLogLevel        = "WISHLIST_LOG_LEVEL"
	EnvShutdownTimeout = "WISHLIST_SHUTDOWN_TIMEOUT"

	EnvDBDriver = "WISHLIST_DB_DRIVER"
	EnvDBDSN    = "WISHLIST_DB_DSN"
	EnvDBHost   = "WISHLIST_DB_HOST"
	EnvDBUser   = "WISHLIST_DB_USER"
	EnvDBName   = "WISHLIST_DB_NAME"

	EnvRedisURL = "WISHLIST_REDIS_URL"

	EnvCatalogBaseURL = "WISHLIST_CATALOG_BASE_URL"
	EnvCatalogTimeout = "WISHLIST_CATALOG_TIMEOUT"

	EnvCORSAllowedOrigins = "WISHLIST_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate        = "WISHLIST_AUTO_MIGRATE"
	EnvMetricsEnabled     = "WISHLIST_METRICS_ENABLED"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
