package config

// EnvPrefix is empty because every field declares its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "STOCKLEDGER_APP_ENV"
	EnvPort     = "STOCKLEDGER_APP_PORT"
	EnvLogLevel = "STOCKLEDGER_LOG_LEVEL"

	EnvDBDSN    = "STOCKLEDGER_DB_DSN"
	EnvDBDriver = "STOCKLEDGER_DB_DRIVER"
	EnvDBHost   = "STOCKLEDGER_DB_HOST"
	EnvDBPort   = "STOCKLEDGER_DB_PORT"
	EnvDBUser   = "STOCKLEDGER_DB_USER"
	EnvDBName   = "STOCKLEDGER_DB_NAME"

	EnvAutoMigrate    = "STOCKLEDGER_AUTO_MIGRATE"
	EnvMetricsEnabled = "STOCKLEDGER_METRICS_ENABLED"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
