package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Directory DirectoryConfig
	Admission AdmissionConfig
	Redis     RedisConfig
	Jobs      JobsConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// DBConfig points at the booking store (PostgreSQL).
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// DirectoryConfig describes the two externally owned stores: the employee
// master (plus employment history) and the access-card store.
type DirectoryConfig struct {
	EmployeeDriver      string        `envconfig:"DIRECTORY_EMPLOYEE_DRIVER" default:"sqlserver"`
	EmployeeDSN         string        `envconfig:"DIRECTORY_EMPLOYEE_DSN" required:"true"`
	EmployeeMappingFile string        `envconfig:"DIRECTORY_EMPLOYEE_MAPPING_FILE"`
	CardDriver          string        `envconfig:"DIRECTORY_CARD_DRIVER" default:"sqlserver"`
	CardDSN             string        `envconfig:"DIRECTORY_CARD_DSN" required:"true"`
	CardMappingFile     string        `envconfig:"DIRECTORY_CARD_MAPPING_FILE"`
	MaxOpenConns        int           `envconfig:"DIRECTORY_MAX_OPEN_CONNS" default:"2"`
	IdleTimeout         time.Duration `envconfig:"DIRECTORY_IDLE_TIMEOUT" default:"30s"`
	QueryTimeout        time.Duration `envconfig:"DIRECTORY_QUERY_TIMEOUT" default:"5s"`
	CacheTTL            time.Duration `envconfig:"DIRECTORY_CACHE_TTL" default:"10m"`
}

type StoreConfig struct {
	Driver       string
	DSN          string
	MappingFile  string
	MaxOpenConns int
	IdleTimeout  time.Duration
	QueryTimeout time.Duration
}

type AdmissionConfig struct {
	// none | mutex | advisory | redis
	LockMode    string        `envconfig:"ADMISSION_LOCK_MODE" default:"advisory"`
	LockWait    time.Duration `envconfig:"ADMISSION_LOCK_WAIT" default:"5s"`
	LockTTL     time.Duration `envconfig:"ADMISSION_LOCK_TTL" default:"10s"`
	TxRetries   int           `envconfig:"ADMISSION_TX_RETRIES" default:"3"`
	TxRetryBase time.Duration `envconfig:"ADMISSION_TX_RETRY_BASE" default:"100ms"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type JobsConfig struct {
	ExpiryEnabled  bool   `envconfig:"JOBS_EXPIRY_ENABLED" default:"true"`
	ExpiryCron     string `envconfig:"JOBS_EXPIRY_CRON" default:"5 0 * * *"`
	BookingZone    string `envconfig:"JOBS_BOOKING_TIMEZONE" default:"Asia/Tokyo"`
	BookingZoneOff int    `envconfig:"JOBS_BOOKING_TIMEZONE_OFFSET" default:"32400"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Employee-Id"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// Tokens are issued elsewhere; this service only validates them.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c DirectoryConfig) EmployeeStore() StoreConfig {
	return StoreConfig{
		Driver:       c.EmployeeDriver,
		DSN:          c.EmployeeDSN,
		MappingFile:  c.EmployeeMappingFile,
		MaxOpenConns: c.MaxOpenConns,
		IdleTimeout:  c.IdleTimeout,
		QueryTimeout: c.QueryTimeout,
	}
}

func (c DirectoryConfig) CardStore() StoreConfig {
	return StoreConfig{
		Driver:       c.CardDriver,
		DSN:          c.CardDSN,
		MappingFile:  c.CardMappingFile,
		MaxOpenConns: c.MaxOpenConns,
		IdleTimeout:  c.IdleTimeout,
		QueryTimeout: c.QueryTimeout,
	}
}

func (c JobsConfig) Location() *time.Location {
	return time.FixedZone(c.BookingZone, c.BookingZoneOff)
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already present in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

var (
	lockModes        = []string{"none", "mutex", "advisory", "redis"}
	directoryDrivers = []string{"sqlserver", "pgx"}
)

// Validate rejects settings that would otherwise only fail at the first
// booking or the first directory lookup.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(lockModes, c.Admission.LockMode) {
		errs = append(errs, fmt.Errorf("ADMISSION_LOCK_MODE %q: want one of %v", c.Admission.LockMode, lockModes))
	}
	if c.Admission.LockMode == "redis" && c.Redis.URL == "" {
		errs = append(errs, errors.New("REDIS_URL is required when ADMISSION_LOCK_MODE is redis"))
	}
	for name, driver := range map[string]string{
		"DIRECTORY_EMPLOYEE_DRIVER": c.Directory.EmployeeDriver,
		"DIRECTORY_CARD_DRIVER":     c.Directory.CardDriver,
	} {
		if !slices.Contains(directoryDrivers, driver) {
			errs = append(errs, fmt.Errorf("%s %q: want one of %v", name, driver, directoryDrivers))
		}
	}
	if c.Directory.MaxOpenConns < 1 {
		errs = append(errs, errors.New("DIRECTORY_MAX_OPEN_CONNS must be at least 1"))
	}
	return errors.Join(errs...)
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 10,
		},
		Directory: DirectoryConfig{
			EmployeeDriver: "pgx",
			CardDriver:     "pgx",
			MaxOpenConns:   2,
			IdleTimeout:    30 * time.Second,
			QueryTimeout:   5 * time.Second,
			CacheTTL:       time.Minute,
		},
		Admission: AdmissionConfig{
			LockMode:    "advisory",
			LockWait:    5 * time.Second,
			LockTTL:     10 * time.Second,
			TxRetries:   3,
			TxRetryBase: 10 * time.Millisecond,
		},
		Jobs: JobsConfig{
			ExpiryEnabled:  false,
			ExpiryCron:     "5 0 * * *",
			BookingZone:    "Asia/Tokyo",
			BookingZoneOff: 32400,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
	}
}
