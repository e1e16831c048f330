package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "SHOESTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOESTORE_DB_DSN"
	EnvDBHost = "SHOESTORE_DB_HOST"
	EnvDBUser = "SHOESTORE_DB_USER"
	EnvDBName = "SHOESTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Cloudinary   CloudinaryConfig
	Upload       UploadConfig
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
	Env          string `envconfig:"SHOESTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOESTORE_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"SHOESTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOESTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOESTORE_DB_DSN"`
	Driver string `envconfig:"SHOESTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOESTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOESTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOESTORE_DB_USER"`
	LegacyPassword string `envconfig:"SHOESTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOESTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOESTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOESTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOESTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOESTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOESTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOESTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOESTORE_REDIS_ADDR"`
	Password     string        `envconfig:"SHOESTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOESTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOESTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOESTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOESTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOESTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOESTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOESTORE_JWT_SECRET" required:"true"`
	RefreshSecret          string `envconfig:"SHOESTORE_JWT_REFRESH_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOESTORE_JWT_ISSUER" default:"shoe-store"`
	ExpirationMinutes      int    `envconfig:"SHOESTORE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOESTORE_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthConfig struct {
	// RegistrationSecret gates self-registration; a request whose secret does
	// not match is rejected regardless of other field validity.
	RegistrationSecret string        `envconfig:"SHOESTORE_REGISTRATION_SECRET" required:"true"`
	ResetTokenTTL      time.Duration `envconfig:"SHOESTORE_RESET_TOKEN_TTL" default:"1h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOESTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOESTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOESTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOESTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOESTORE_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	GeneralWindow time.Duration `envconfig:"SHOESTORE_RATE_LIMIT_GENERAL_WINDOW" default:"15m"`
	GeneralLimit  int           `envconfig:"SHOESTORE_RATE_LIMIT_GENERAL_LIMIT" default:"100"`
	AuthWindow    time.Duration `envconfig:"SHOESTORE_RATE_LIMIT_AUTH_WINDOW" default:"15m"`
	AuthLimit     int           `envconfig:"SHOESTORE_RATE_LIMIT_AUTH_LIMIT" default:"5"`
	ResetWindow   time.Duration `envconfig:"SHOESTORE_RATE_LIMIT_RESET_WINDOW" default:"1h"`
	ResetLimit    int           `envconfig:"SHOESTORE_RATE_LIMIT_RESET_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOESTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOESTORE_AUTO_MIGRATE" default:"false"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"SHOESTORE_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"SHOESTORE_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"SHOESTORE_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"SHOESTORE_CLOUDINARY_FOLDER" default:"shoe-store"`
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"SHOESTORE_MAX_UPLOAD_MB" default:"5"`
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
