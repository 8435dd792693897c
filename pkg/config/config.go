package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
	Reports       ReportsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvTimezone, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"INVENTARIS_APP_ENV" required:"true"`
	Port         string   `envconfig:"INVENTARIS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"INVENTARIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"INVENTARIS_LOG_WARN_STACK" default:"false"`
	Timezone     string   `envconfig:"INVENTARIS_APP_TIMEZONE" default:"Asia/Jakarta"`
	StaticDir    string   `envconfig:"INVENTARIS_STATIC_DIR"`
	CORSOrigins  []string `envconfig:"INVENTARIS_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the timezone used to decide what "today" means for
// expiry checks. An empty value falls back to UTC.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

type DBConfig struct {
	DSN    string `envconfig:"INVENTARIS_DB_DSN"`
	Driver string `envconfig:"INVENTARIS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INVENTARIS_DB_HOST"`
	LegacyPort     int    `envconfig:"INVENTARIS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INVENTARIS_DB_USER"`
	LegacyPassword string `envconfig:"INVENTARIS_DB_PASSWORD"`
	LegacyName     string `envconfig:"INVENTARIS_DB_NAME"`
	LegacySSLMode  string `envconfig:"INVENTARIS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INVENTARIS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTARIS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTARIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTARIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENTARIS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"INVENTARIS_REDIS_ADDR"`
	Password     string        `envconfig:"INVENTARIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENTARIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENTARIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENTARIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENTARIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENTARIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENTARIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"INVENTARIS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"INVENTARIS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"INVENTARIS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"INVENTARIS_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"INVENTARIS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"INVENTARIS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"INVENTARIS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"INVENTARIS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"INVENTARIS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"INVENTARIS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"INVENTARIS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"INVENTARIS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"INVENTARIS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"INVENTARIS_AUTO_MIGRATE" default:"false"`
	// SweepOnRead zeroes expired medicine stock before list, dashboard and
	// report reads. The cron worker performs the same sweep on a schedule.
	SweepOnRead bool `envconfig:"INVENTARIS_SWEEP_ON_READ" default:"true"`
}

type CronConfig struct {
	Schedule string        `envconfig:"INVENTARIS_CRON_SCHEDULE" default:"5 0 * * *"`
	Interval time.Duration `envconfig:"INVENTARIS_CRON_INTERVAL" default:"0"`
	LockTTL  time.Duration `envconfig:"INVENTARIS_CRON_LOCK_TTL" default:"5m"`
}

type ReportsConfig struct {
	MaxRows int `envconfig:"INVENTARIS_REPORT_MAX_ROWS" default:"5000"`
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
