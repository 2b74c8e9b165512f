package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/visionapps/darkshop-core/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Vault        VaultConfig
	Session      SessionConfig
	Gate         GateConfig
	Roles        RolesConfig
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
	if !cfg.Gate.FallbackPolicy().IsValid() {
		return nil, fmt.Errorf("invalid gate fallback %q", cfg.Gate.Fallback)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DARKSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"DARKSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DARKSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DARKSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DARKSHOP_DB_DSN"`
	Driver string `envconfig:"DARKSHOP_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"DARKSHOP_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DARKSHOP_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DARKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DARKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the durable store runs on the embedded driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}
	return fmt.Errorf("%s is required for driver %q", EnvDBDSN, db.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"DARKSHOP_REDIS_URL"`
	Address      string        `envconfig:"DARKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"DARKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DARKSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DARKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DARKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DARKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DARKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DARKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis-backed volatile store was configured.
// Without redis the session mirror lives in process memory, which is enough
// for a single device session.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type VaultConfig struct {
	PBKDF2Iterations int `envconfig:"DARKSHOP_VAULT_PBKDF2_ITERATIONS" default:"100000"`
	KeyLen           int `envconfig:"DARKSHOP_VAULT_KEY_LEN" default:"32"`
	SaltLen          int `envconfig:"DARKSHOP_VAULT_SALT_LEN" default:"16"`
}

type SessionConfig struct {
	SubscriptionPrice    string        `envconfig:"DARKSHOP_SUBSCRIPTION_PRICE" default:"30.00"`
	SubscriptionDuration time.Duration `envconfig:"DARKSHOP_SUBSCRIPTION_DURATION" default:"720h"`
}

type GateConfig struct {
	URL      string        `envconfig:"DARKSHOP_GATE_URL"`
	APIKey   string        `envconfig:"DARKSHOP_GATE_API_KEY"`
	Timeout  time.Duration `envconfig:"DARKSHOP_GATE_TIMEOUT" default:"15s"`
	Fallback string        `envconfig:"DARKSHOP_GATE_FALLBACK" default:"hold"`
}

// FallbackPolicy returns the decision applied when the gate is unreachable.
func (g GateConfig) FallbackPolicy() enums.GateFallback {
	return enums.GateFallback(strings.ToLower(strings.TrimSpace(g.Fallback)))
}

type RolesConfig struct {
	AdminEmails []string `envconfig:"DARKSHOP_ROLES_ADMIN_EMAILS"`
}

// IsAdmin reports whether the normalized email is on the admin allow-list.
func (r RolesConfig) IsAdmin(email string) bool {
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return false
	}
	for _, candidate := range r.AdminEmails {
		if strings.ToLower(strings.TrimSpace(candidate)) == needle {
			return true
		}
	}
	return false
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DARKSHOP_AUTO_MIGRATE" default:"false"`
}
