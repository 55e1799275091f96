package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Scraper  ScraperConfig
	Matching MatchingConfig
	Upload   UploadConfig
	Paths    PathsConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string

	// AllowedOrigins restricts browser websocket upgrades. Empty allows any.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type ScraperConfig struct {
	Workers         int
	QueueSize       int
	PageDelay       time.Duration
	FetchTimeout    time.Duration
	DefaultMaxPages int
	RequestsPerSec  float64
	UserAgent       string
	BrowserHeadless bool
	BrowserExecPath string
	SubmitWindow    time.Duration
}

type MatchingConfig struct {
	BaseScore     float64
	Floor         float64
	Ceiling       float64
	DegradedFloor float64
	LocationCap   float64
	TopK          int
	MinScore      float64
}

type UploadConfig struct {
	MaxCVBytes int64
}

type PathsConfig struct {
	MigrationsDir string
	BoardsFile    string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	flt := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	boolean := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}
	for _, o := range strings.Split(opt("APP_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.App.AllowedOrigins = append(cfg.App.AllowedOrigins, strings.TrimRight(o, "/"))
		}
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 30*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      dur("REDIS_TTL", 10*time.Minute),
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == "" {
		cfg.Redis.Port = "6379"
	}

	cfg.Scraper = ScraperConfig{
		Workers:         num("SCRAPER_WORKERS", 4),
		QueueSize:       num("SCRAPER_QUEUE_SIZE", 64),
		PageDelay:       dur("SCRAPER_PAGE_DELAY", 2*time.Second),
		FetchTimeout:    dur("SCRAPER_FETCH_TIMEOUT", 30*time.Second),
		DefaultMaxPages: num("SCRAPER_DEFAULT_MAX_PAGES", 5),
		RequestsPerSec:  flt("SCRAPER_REQUESTS_PER_SEC", 1),
		UserAgent:       opt("SCRAPER_USER_AGENT"),
		BrowserHeadless: boolean("SCRAPER_BROWSER_HEADLESS", true),
		BrowserExecPath: opt("SCRAPER_BROWSER_EXEC_PATH"),
		SubmitWindow:    dur("SCRAPER_SUBMIT_WINDOW", 10*time.Second),
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = defaultUserAgent
	}

	cfg.Matching = MatchingConfig{
		BaseScore:     flt("MATCH_BASE_SCORE", 0.3),
		Floor:         flt("MATCH_FLOOR", 0.3),
		Ceiling:       flt("MATCH_CEILING", 0.95),
		DegradedFloor: flt("MATCH_DEGRADED_FLOOR", 0.3),
		LocationCap:   flt("MATCH_LOCATION_CAP", 0.2),
		TopK:          num("MATCH_TOP_K", 10),
		MinScore:      flt("MATCH_MIN_SCORE", 0.3),
	}

	cfg.Upload = UploadConfig{
		MaxCVBytes: int64(num("UPLOAD_MAX_CV_BYTES", 5<<20)),
	}

	cfg.Paths = PathsConfig{
		MigrationsDir: opt("MIGRATIONS_DIR"),
		BoardsFile:    opt("BOARDS_FILE"),
	}
	if cfg.Paths.BoardsFile == "" {
		cfg.Paths.BoardsFile = "configs/boards.yaml"
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
