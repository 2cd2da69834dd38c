package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VIETCART"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	OrderService OrderServiceConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"VIETCART_APP_ENV" required:"true"`
	Port         string `envconfig:"VIETCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VIETCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VIETCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VIETCART_DB_DSN"`

	Host     string `envconfig:"VIETCART_DB_HOST"`
	Port     int    `envconfig:"VIETCART_DB_PORT" default:"5432"`
	User     string `envconfig:"VIETCART_DB_USER"`
	Password string `envconfig:"VIETCART_DB_PASSWORD"`
	Name     string `envconfig:"VIETCART_DB_NAME"`
	SSLMode  string `envconfig:"VIETCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VIETCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VIETCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VIETCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VIETCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VIETCART_REDIS_URL"`
	Address      string        `envconfig:"VIETCART_REDIS_ADDR"`
	Password     string        `envconfig:"VIETCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"VIETCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VIETCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VIETCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VIETCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VIETCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VIETCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VIETCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VIETCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VIETCART_JWT_EXPIRATION_MINUTES" default:"720"`
}

// CheckoutConfig tunes draft-session behaviour.
type CheckoutConfig struct {
	DraftTTL             time.Duration `envconfig:"VIETCART_CHECKOUT_DRAFT_TTL" default:"2h"`
	BaseShippingFeeVND   int64         `envconfig:"VIETCART_CHECKOUT_BASE_SHIPPING_FEE_VND" default:"30000"`
	MaxLineItemsPerDraft int           `envconfig:"VIETCART_CHECKOUT_MAX_LINE_ITEMS" default:"50"`
}

// OrderServiceConfig points at the external order-creation service.
type OrderServiceConfig struct {
	BaseURL     string        `envconfig:"VIETCART_ORDER_SERVICE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"VIETCART_ORDER_SERVICE_TIMEOUT" default:"10s"`
	SuccessCode int           `envconfig:"VIETCART_ORDER_SERVICE_SUCCESS_CODE" default:"1000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VIETCART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"VIETCART_DB_HOST": db.Host,
		"VIETCART_DB_USER": db.User,
		"VIETCART_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either VIETCART_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
