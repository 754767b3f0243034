package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "ventapos"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	Company      CompanyConfig
	Receipts     ReceiptsConfig
	Inventory    InventoryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENTAPOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"VENTAPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VENTAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENTAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the local sqlite file by default. Postgres stays available
// for deployments that share a store between registers.
type DBConfig struct {
	Driver string `envconfig:"VENTAPOS_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"VENTAPOS_DB_DSN" default:"ventapos.db"`

	MaxOpenConns    int           `envconfig:"VENTAPOS_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"VENTAPOS_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"VENTAPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENTAPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENTAPOS_AUTO_MIGRATE" default:"true"`
}

// CompanyConfig seeds the company identity block printed on receipts when the
// company_profiles table is still empty.
type CompanyConfig struct {
	Name    string `envconfig:"VENTAPOS_COMPANY_NAME" default:"VentaPOS"`
	Address string `envconfig:"VENTAPOS_COMPANY_ADDRESS" default:""`
	Contact string `envconfig:"VENTAPOS_COMPANY_CONTACT" default:""`
}

type ReceiptsConfig struct {
	OutputDir string `envconfig:"VENTAPOS_RECEIPTS_DIR" default:"receipts"`
}

type InventoryConfig struct {
	LowStockThreshold int `envconfig:"VENTAPOS_LOW_STOCK_THRESHOLD" default:"5"`
}

// LowStockLevel exposes the threshold as a decimal for comparisons against
// aggregate queries.
func (i InventoryConfig) LowStockLevel() decimal.Decimal {
	return decimal.NewFromInt(int64(i.LowStockThreshold))
}
