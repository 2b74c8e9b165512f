package config

// EnvPrefix namespaces every environment variable the core reads.
const EnvPrefix = "darkshop"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSQLiteDSN = "file:darkshop.db?_pragma=busy_timeout(5000)"
)

const (
	EnvAppEnv          = "DARKSHOP_APP_ENV"
	EnvAppPort         = "DARKSHOP_APP_PORT"
	EnvDBDSN           = "DARKSHOP_DB_DSN"
	EnvDBDriver        = "DARKSHOP_DB_DRIVER"
	EnvRedisURL        = "DARKSHOP_REDIS_URL"
	EnvGateURL         = "DARKSHOP_GATE_URL"
	EnvGateFallback    = "DARKSHOP_GATE_FALLBACK"
	EnvAdminEmails     = "DARKSHOP_ROLES_ADMIN_EMAILS"
	EnvVaultIterations = "DARKSHOP_VAULT_PBKDF2_ITERATIONS"
)
