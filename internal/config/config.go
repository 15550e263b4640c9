package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	// MaxUploadSize caps an admin product form, media included, in bytes.
	MaxUploadSize   int64         `yaml:"max_upload_size" env:"HTTP_MAX_UPLOAD_SIZE" env-default:"33554432"`
}

// Upstream describes the remote shop API every view talks to.
type Upstream struct {
	BaseURL       string        `yaml:"BASE_URL" env:"UPSTREAM_BASE_URL" env-required:"true"`
	Timeout       time.Duration `yaml:"TIMEOUT" env:"UPSTREAM_TIMEOUT" env-default:"15s"`
	ProductPrefix string        `yaml:"PRODUCT_PREFIX" env:"UPSTREAM_PRODUCT_PREFIX" env-default:""`
	CartPrefix    string        `yaml:"CART_PREFIX" env:"UPSTREAM_CART_PREFIX" env-default:""`
	AuthPrefix    string        `yaml:"AUTH_PREFIX" env:"UPSTREAM_AUTH_PREFIX" env-default:""`
	PaymentPrefix string        `yaml:"PAYMENT_PREFIX" env:"UPSTREAM_PAYMENT_PREFIX" env-default:""`
}

type Session struct {
	Driver     string        `yaml:"DRIVER" env:"SESSION_DRIVER" env-default:"redis"`
	CookieName string        `yaml:"COOKIE_NAME" env:"SESSION_COOKIE_NAME" env-default:"storefront_session"`
	TTL        time.Duration `yaml:"TTL" env:"SESSION_TTL" env-default:"168h"`
	Secure     bool          `yaml:"SECURE" env:"SESSION_SECURE" env-default:"true"`
	StateDir   string        `yaml:"STATE_DIR" env:"SESSION_STATE_DIR" env-default:""`
}

type Database struct {
	Host     string `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"PG_USER" env:"PG_USER"`
	Password string `yaml:"PG_PASSWORD" env:"PG_PASSWORD"`
	Name     string `yaml:"PG_DBNAME" env:"PG_DBNAME"`
	SSLMode  string `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`

	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:"default"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type Stripe struct {
	APIKey       string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	VerifyDirect bool   `yaml:"STRIPE_VERIFY_DIRECT" env:"STRIPE_VERIFY_DIRECT" env-default:"false"`
}

type Cart struct {
	// KeepServerQuantity keeps the quantity reported by the shop API on load
	// instead of resetting every line to 0.
	KeepServerQuantity bool `yaml:"keep_server_quantity" env:"CART_KEEP_SERVER_QUANTITY" env-default:"false"`
}

type Checkout struct {
	ResultDismissAfter time.Duration `yaml:"result_dismiss_after" env:"CHECKOUT_RESULT_DISMISS_AFTER" env-default:"5s"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"168h"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Upstream     Upstream     `yaml:"upstream"`
	Session      Session      `yaml:"session"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Stripe       Stripe       `yaml:"stripe"`
	Cart         Cart         `yaml:"cart"`
	Checkout     Checkout     `yaml:"checkout"`
	Otel         Otel         `yaml:"otel"`
	Cache        CacheConfig  `yaml:"cache"`
}

const defaultConfigPath = "./config/local.yaml"

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = defaultConfigPath
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Driver {
	case "redis", "postgres", "file":
	default:
		return fmt.Errorf("unsupported session driver %q", c.Session.Driver)
	}

	if c.Session.Driver == "postgres" && (c.Database.User == "" || c.Database.Name == "") {
		return fmt.Errorf("session driver postgres requires PG_USER and PG_DBNAME")
	}

	return nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d", r.Username, r.Password, r.Host, r.Port, r.DB)
}
