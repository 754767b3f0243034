package config

// Environment variable names referenced in error messages and docs.
const (
	EnvDBDSN    = "VENTAPOS_DB_DSN"
	EnvDBDriver = "VENTAPOS_DB_DRIVER"
)
