package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Store    StoreConfig
	Checkout CheckoutConfig
	Cart     CartConfig
	Orders   OrdersConfig
	Promo    PromoConfig
	Menu     MenuConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
		return nil, err
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"BREWCART_APP_ENV" default:"dev"`
	Port            string        `envconfig:"BREWCART_APP_PORT" default:"8085"`
	LogLevel        string        `envconfig:"BREWCART_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"BREWCART_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"BREWCART_LOG_WARN_STACK" default:"false"`
	CORSOrigins     []string      `envconfig:"BREWCART_APP_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"BREWCART_APP_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the key-value backend used for cart and order persistence.
type StorageConfig struct {
	Driver    string `envconfig:"BREWCART_STORAGE_DRIVER" default:"sqlite"`
	Namespace string `envconfig:"BREWCART_STORAGE_NAMESPACE" default:"brewcart"`
}

func (s StorageConfig) normalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s *StorageConfig) validate() error {
	s.Driver = s.normalizedDriver()
	for _, known := range storageDrivers {
		if s.Driver == known {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s", EnvStorageDriver, strings.Join(storageDrivers, ", "))
}

type DBConfig struct {
	DSN        string `envconfig:"BREWCART_DB_DSN"`
	SQLitePath string `envconfig:"BREWCART_DB_SQLITE_PATH" default:"brewcart.db"`

	MaxOpenConns    int           `envconfig:"BREWCART_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"BREWCART_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"BREWCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREWCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"BREWCART_DB_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BREWCART_REDIS_URL"`
	Address      string        `envconfig:"BREWCART_REDIS_ADDR"`
	Password     string        `envconfig:"BREWCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREWCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREWCART_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"BREWCART_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"BREWCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREWCART_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BREWCART_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// StoreConfig describes the physical shop used for pickup scheduling.
type StoreConfig struct {
	OpeningHour int    `envconfig:"BREWCART_STORE_OPENING_HOUR" default:"10"`
	ClosingHour int    `envconfig:"BREWCART_STORE_CLOSING_HOUR" default:"20"`
	Timezone    string `envconfig:"BREWCART_STORE_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
}

// Location resolves the store timezone, falling back to UTC when unknown.
func (s StoreConfig) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(s.Timezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s StoreConfig) validate() error {
	if s.OpeningHour < 0 || s.ClosingHour > 24 || s.OpeningHour >= s.ClosingHour {
		return fmt.Errorf("store hours must satisfy 0 <= %s < %s <= 24", EnvStoreOpeningHour, EnvStoreClosingHour)
	}
	if _, err := time.LoadLocation(strings.TrimSpace(s.Timezone)); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvStoreTimezone, err)
	}
	return nil
}

// CheckoutConfig carries the fee and scheduling policy applied at checkout.
// Amounts are in the smallest currency unit.
type CheckoutConfig struct {
	DeliveryFee           int64         `envconfig:"BREWCART_CHECKOUT_DELIVERY_FEE" default:"15000"`
	FreeDeliveryThreshold int64         `envconfig:"BREWCART_CHECKOUT_FREE_DELIVERY_THRESHOLD" default:"100000"`
	PickupLeadTime        time.Duration `envconfig:"BREWCART_CHECKOUT_PICKUP_LEAD_TIME" default:"30m"`
	PickupAdvanceWindow   time.Duration `envconfig:"BREWCART_CHECKOUT_PICKUP_ADVANCE_WINDOW" default:"168h"`
	SubmitTimeout         time.Duration `envconfig:"BREWCART_CHECKOUT_SUBMIT_TIMEOUT" default:"10s"`
}

func (c CheckoutConfig) validate() error {
	if c.DeliveryFee < 0 || c.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("delivery fee and threshold must be non-negative")
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvCheckoutSubmitTimeout)
	}
	return nil
}

type CartConfig struct {
	OwnerID          string `envconfig:"BREWCART_CART_OWNER_ID" default:"local"`
	MaxWriteFailures int    `envconfig:"BREWCART_CART_MAX_WRITE_FAILURES" default:"3"`
}

type OrdersConfig struct {
	BaseURL string        `envconfig:"BREWCART_ORDERS_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BREWCART_ORDERS_TIMEOUT" default:"10s"`
}

type PromoConfig struct {
	// Codes holds extra promo definitions such as "SUMMER15:percent:0.15" or "SHIPFREE:freeship".
	Codes []string `envconfig:"BREWCART_PROMO_CODES"`
}

type MenuConfig struct {
	File     string        `envconfig:"BREWCART_MENU_FILE"`
	CacheTTL time.Duration `envconfig:"BREWCART_MENU_CACHE_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN(driver string) error {
	switch driver {
	case StorageDriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStorageDriver, StorageDriverPostgres)
		}
	case StorageDriverSQLite:
		if strings.TrimSpace(db.DSN) == "" {
			db.DSN = db.SQLitePath
		}
	}
	return nil
}
