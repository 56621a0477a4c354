package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "HARDWAREHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "HARDWAREHUB_DB_DSN"
	EnvDBHost = "HARDWAREHUB_DB_HOST"
	EnvDBUser = "HARDWAREHUB_DB_USER"
	EnvDBName = "HARDWAREHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
