package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"

	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	InternalJobToken   string
	LogLevel           logging.Level
	StorageDriver      string
	DBURL              string
	DBApplicationName  string
	DBMaxOpenConns     int
	CacheEnabled       bool
	LineupCacheTTL     time.Duration
	ContestCacheTTL    time.Duration
	RedisURL           string

	PprofEnabled           bool
	PprofAddr              string
	UptraceEnabled         bool
	UptraceDSN             string
	UptraceLogsEnabled     bool
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	ESPNBaseURL               string
	ESPNTimeout               time.Duration
	ESPNMaxRetries            int
	ESPNDateFetchDelay        time.Duration
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int
	SchedulerEnabled          bool
	SyncOnStartup             bool
	LiveSyncInterval          time.Duration
	LiveSyncWorkers           int
	FullSyncDailyAt           ClockTime
	FullSyncLocation          *time.Location
	JobLockTTL                time.Duration
	Season                    string
	LeagueName                string
	ContestEntryFee           int
	ContestMaxParticipants    int
}

// ClockTime is a wall-clock time of day such as 02:00.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "eleven-fantasy-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":"+getEnv("PORT", "5000")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:              resolveDBURL(appEnv),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		ESPNBaseURL:        strings.TrimRight(strings.TrimSpace(getEnv("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/soccer/eng.1")), "/"),
		Season:             strings.TrimSpace(getEnv("SYNC_SEASON", "2025/2026")),
		LeagueName:         strings.TrimSpace(getEnv("SYNC_LEAGUE_NAME", "Premier League")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageDriverPostgres)))
	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL (or DEV_DATABASE_URL/PROD_DATABASE_URL) is required when STORAGE_DRIVER=postgres")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	cfg.DBApplicationName = strings.TrimSpace(getEnv("DB_APPLICATION_NAME", cfg.ServiceName))
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.LineupCacheTTL, err = getEnvAsDuration("LINEUP_CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.ContestCacheTTL, err = getEnvAsDuration("CONTEST_CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.ESPNTimeout, err = getEnvAsDuration("ESPN_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNMaxRetries, err = getEnvAsInt("ESPN_MAX_RETRIES", 0); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if cfg.ESPNMaxRetries < 0 {
		return Config{}, fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}
	if cfg.ESPNDateFetchDelay, err = getEnvAsDuration("ESPN_DATE_FETCH_DELAY", "150ms"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNCircuitEnabled, err = getEnvAsBool("ESPN_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNCircuitFailureCount, err = getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ESPNCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ESPNCircuitOpenTimeout, err = getEnvAsDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNCircuitHalfOpenMaxReq, err = getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ESPNCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.SchedulerEnabled, err = getEnvAsBool("SYNC_SCHEDULER_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SyncOnStartup, err = getEnvAsBool("SYNC_ON_STARTUP", "true"); err != nil {
		return Config{}, err
	}
	if cfg.LiveSyncInterval, err = getEnvAsDuration("LIVE_SYNC_INTERVAL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.LiveSyncWorkers, err = getEnvAsInt("LIVE_SYNC_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SYNC_WORKERS: %w", err)
	}
	if cfg.LiveSyncWorkers < 1 {
		return Config{}, fmt.Errorf("LIVE_SYNC_WORKERS must be >= 1")
	}
	if cfg.FullSyncDailyAt, err = parseClockTime(getEnv("FULL_SYNC_DAILY_AT", "02:00")); err != nil {
		return Config{}, fmt.Errorf("parse FULL_SYNC_DAILY_AT: %w", err)
	}
	if cfg.FullSyncLocation, err = time.LoadLocation(getEnv("FULL_SYNC_TIMEZONE", "UTC")); err != nil {
		return Config{}, fmt.Errorf("parse FULL_SYNC_TIMEZONE: %w", err)
	}
	if cfg.JobLockTTL, err = getEnvAsDuration("JOB_LOCK_TTL", "30m"); err != nil {
		return Config{}, err
	}

	if cfg.Season == "" {
		return Config{}, fmt.Errorf("SYNC_SEASON cannot be empty")
	}
	if cfg.LeagueName == "" {
		return Config{}, fmt.Errorf("SYNC_LEAGUE_NAME cannot be empty")
	}
	if cfg.ContestEntryFee, err = getEnvAsInt("CONTEST_ENTRY_FEE", 0); err != nil {
		return Config{}, fmt.Errorf("parse CONTEST_ENTRY_FEE: %w", err)
	}
	if cfg.ContestEntryFee < 0 {
		return Config{}, fmt.Errorf("CONTEST_ENTRY_FEE must be >= 0")
	}
	if cfg.ContestMaxParticipants, err = getEnvAsInt("CONTEST_MAX_PARTICIPANTS", 1000); err != nil {
		return Config{}, fmt.Errorf("parse CONTEST_MAX_PARTICIPANTS: %w", err)
	}
	if cfg.ContestMaxParticipants < 1 {
		return Config{}, fmt.Errorf("CONTEST_MAX_PARTICIPANTS must be >= 1")
	}

	return cfg, nil
}

// resolveDBURL prefers DB_URL, then the per-environment variable.
func resolveDBURL(appEnv string) string {
	if v := strings.TrimSpace(getEnv("DB_URL", "")); v != "" {
		return v
	}
	if appEnv == EnvProd {
		return strings.TrimSpace(getEnv("PROD_DATABASE_URL", ""))
	}
	return strings.TrimSpace(getEnv("DEV_DATABASE_URL", ""))
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration parses a Go duration and rejects non-positive values.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseClockTime(raw string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return ClockTime{}, fmt.Errorf("expected HH:MM, got %q", raw)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	case "development":
		return EnvDev, nil
	case "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
