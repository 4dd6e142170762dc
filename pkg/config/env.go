package config

const EnvPrefix = "BREWCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

var storageDrivers = []string{
	StorageDriverMemory,
	StorageDriverRedis,
	StorageDriverSQLite,
	StorageDriverPostgres,
}

const (
	EnvAppEnv                = "BREWCART_APP_ENV"
	EnvPort                  = "BREWCART_APP_PORT"
	EnvStorageDriver         = "BREWCART_STORAGE_DRIVER"
	EnvDBDSN                 = "BREWCART_DB_DSN"
	EnvRedisURL              = "BREWCART_REDIS_URL"
	EnvStoreOpeningHour      = "BREWCART_STORE_OPENING_HOUR"
	EnvStoreClosingHour      = "BREWCART_STORE_CLOSING_HOUR"
	EnvStoreTimezone         = "BREWCART_STORE_TIMEZONE"
	EnvCheckoutDeliveryFee   = "BREWCART_CHECKOUT_DELIVERY_FEE"
	EnvCheckoutSubmitTimeout = "BREWCART_CHECKOUT_SUBMIT_TIMEOUT"
	EnvOrdersBaseURL         = "BREWCART_ORDERS_BASE_URL"
	EnvPromoCodes            = "BREWCART_PROMO_CODES"
)
