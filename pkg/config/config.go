package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied to every environment variable consumed by the service.
const EnvPrefix = "AGRISPHERE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AGRISPHERE_DB_DSN"
	EnvDBHost = "AGRISPHERE_DB_HOST"
	EnvDBUser = "AGRISPHERE_DB_USER"
	EnvDBName = "AGRISPHERE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	ProfileGate   ProfileGateConfig
	FeatureFlags  FeatureFlagsConfig
	Sendgrid      SendgridConfig
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
	Env          string `envconfig:"AGRISPHERE_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRISPHERE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRISPHERE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRISPHERE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRISPHERE_DB_DSN"`
	Driver string `envconfig:"AGRISPHERE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRISPHERE_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRISPHERE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRISPHERE_DB_USER"`
	LegacyPassword string `envconfig:"AGRISPHERE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRISPHERE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRISPHERE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRISPHERE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRISPHERE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRISPHERE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRISPHERE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRISPHERE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRISPHERE_REDIS_ADDR"`
	Password     string        `envconfig:"AGRISPHERE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRISPHERE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRISPHERE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRISPHERE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRISPHERE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRISPHERE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRISPHERE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AGRISPHERE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AGRISPHERE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AGRISPHERE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AGRISPHERE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGRISPHERE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGRISPHERE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGRISPHERE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGRISPHERE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGRISPHERE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AGRISPHERE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type ProfileGateConfig struct {
	CompleteProfilePath string        `envconfig:"AGRISPHERE_PROFILE_COMPLETE_PATH" default:"/api/v1/profile/complete"`
	ReminderTTL         time.Duration `envconfig:"AGRISPHERE_PROFILE_REMINDER_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AGRISPHERE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AGRISPHERE_AUTO_MIGRATE" default:"false"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"AGRISPHERE_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"AGRISPHERE_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"AGRISPHERE_SENDGRID_FROM_NAME" default:"AgriSphere"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
