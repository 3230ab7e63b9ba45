package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Pricing      PricingConfig
	Adjustments  AdjustmentsConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPSMARTER_AUTO_MIGRATE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSMARTER_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSMARTER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPSMARTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSMARTER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPSMARTER_DB_DSN"`
	Driver string `envconfig:"SHOPSMARTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPSMARTER_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPSMARTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPSMARTER_DB_USER"`
	LegacyPassword string `envconfig:"SHOPSMARTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPSMARTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPSMARTER_DB_SSLMODE" default:"disable"`

	UseSQLite bool `envconfig:"SHOPSMARTER_USE_SQLITE" default:"false"`

	MaxOpenConns    int           `envconfig:"SHOPSMARTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPSMARTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPSMARTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPSMARTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSMARTER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPSMARTER_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPSMARTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPSMARTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPSMARTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSMARTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSMARTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSMARTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSMARTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes the durable cart record and its change channel.
type CartConfig struct {
	KeyPrefix     string `envconfig:"SHOPSMARTER_CART_KEY_PREFIX" default:"shopsmarter:cart"`
	ChannelPrefix string `envconfig:"SHOPSMARTER_CART_CHANNEL_PREFIX" default:"shopsmarter:cart-changed"`
}

// PricingConfig carries the baseline pricing constants. Defaults match
// the storefront's published policy: 8% tax, $10 flat shipping under $75.
type PricingConfig struct {
	TaxRate               string `envconfig:"SHOPSMARTER_PRICING_TAX_RATE" default:"0.08"`
	FreeShippingThreshold string `envconfig:"SHOPSMARTER_PRICING_FREE_SHIPPING_THRESHOLD" default:"75"`
	FlatShippingFee       string `envconfig:"SHOPSMARTER_PRICING_FLAT_SHIPPING_FEE" default:"10"`
}

type AdjustmentsConfig struct {
	BaseURL string        `envconfig:"SHOPSMARTER_ADJUSTMENTS_BASE_URL"`
	Timeout time.Duration `envconfig:"SHOPSMARTER_ADJUSTMENTS_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	BaseURL     string        `envconfig:"SHOPSMARTER_CHECKOUT_BASE_URL"`
	Timeout     time.Duration `envconfig:"SHOPSMARTER_CHECKOUT_TIMEOUT" default:"15s"`
	SuccessPath string        `envconfig:"SHOPSMARTER_CHECKOUT_SUCCESS_PATH" default:"/success"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.UseSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
