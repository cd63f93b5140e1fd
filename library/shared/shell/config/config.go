package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

const (
	EnvConfigPath = "BORROWDESK_CONFIG"

	DriverMemory = "memory"
	DriverPGX    = "pgx"
	DriverSQL    = "sql"
	DriverSQLX   = "sqlx"

	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeBcrypt    = "bcrypt"
)

var (
	ErrReadingConfigFileFailed = errors.New("reading config file failed")
	ErrDecodingConfigFailed    = errors.New("decoding config file failed")
	ErrInvalidConfig           = errors.New("invalid config")
	ErrInvalidEnvValue         = errors.New("invalid environment value")
)

type MockAPIConfig struct {
	AccountsBaseURL string   `json:"accountsBaseURL" validate:"required,url"`
	BooksBaseURL    string   `json:"booksBaseURL" validate:"required,url"`
	RequestsBaseURL string   `json:"requestsBaseURL" validate:"required,url"`
	Timeout         Duration `json:"timeout" validate:"gt=0"`
}

type OpenLibraryConfig struct {
	BaseURL       string   `json:"baseURL" validate:"required,url"`
	CoversBaseURL string   `json:"coversBaseURL" validate:"required,url"`
	Timeout       Duration `json:"timeout" validate:"gt=0"`
}

type JournalConfig struct {
	Driver          string   `json:"driver" validate:"oneof=memory pgx sql sqlx"`
	DSN             string   `json:"dsn" validate:"required_unless=Driver memory"`
	TableName       string   `json:"tableName" validate:"required"`
	MaxConns        int      `json:"maxConns" validate:"gte=1"`
	MinConns        int      `json:"minConns" validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime Duration `json:"maxConnLifetime"`
	MaxConnIdleTime Duration `json:"maxConnIdleTime"`
	ConnectTimeout  Duration `json:"connectTimeout"`
	ClaimTTL        Duration `json:"claimTTL" validate:"gt=0"`
}

type AuthConfig struct {
	PasswordScheme string   `json:"passwordScheme" validate:"oneof=plaintext bcrypt"`
	JWTSecret      string   `json:"jwtSecret"`
	JWTTTL         Duration `json:"jwtTTL" validate:"gt=0"`
	Issuer         string   `json:"issuer" validate:"required"`
}

type ServerConfig struct {
	Address           string   `json:"address" validate:"required"`
	ReconcileInterval Duration `json:"reconcileInterval" validate:"gte=0"`
}

type SessionConfig struct {
	Path string `json:"path"`
}

type LogConfig struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"oneof=text json"`
}

type RetryConfig struct {
	MaxAttempts int      `json:"maxAttempts" validate:"gte=1"`
	BaseDelay   Duration `json:"baseDelay" validate:"gte=0"`
	Jitter      float64  `json:"jitter" validate:"gte=0,lte=1"`
}

// ObservabilityConfig switches the OpenTelemetry adapters on. They report to the
// global providers, so the process decides where telemetry goes.
type ObservabilityConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName" validate:"required"`
}

type Config struct {
	MockAPI       MockAPIConfig       `json:"mockAPI"`
	OpenLibrary   OpenLibraryConfig   `json:"openLibrary"`
	Journal       JournalConfig       `json:"journal"`
	Auth          AuthConfig          `json:"auth"`
	Server        ServerConfig        `json:"server"`
	Session       SessionConfig       `json:"session"`
	Log           LogConfig           `json:"log"`
	Retry         RetryConfig         `json:"retry"`
	Observability ObservabilityConfig `json:"observability"`
}

// Defaults point at the public mock API resources the desk was built against.
func Defaults() Config {
	return Config{
		MockAPI: MockAPIConfig{
			AccountsBaseURL: "https://686de4f9c9090c4953878bab.mockapi.io/Register",
			BooksBaseURL:    "https://686ca35014219674dcc8966f.mockapi.io/books",
			RequestsBaseURL: "https://6872285676a5723aacd3ce7f.mockapi.io/permintaanuser",
			Timeout:         Duration(10 * time.Second),
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:       "https://openlibrary.org",
			CoversBaseURL: "https://covers.openlibrary.org",
			Timeout:       Duration(5 * time.Second),
		},
		Journal: JournalConfig{
			Driver:          DriverMemory,
			TableName:       "borrow_lifecycle_events",
			MaxConns:        8,
			MinConns:        2,
			MaxConnLifetime: Duration(time.Hour),
			MaxConnIdleTime: Duration(5 * time.Minute),
			ConnectTimeout:  Duration(5 * time.Second),
			ClaimTTL:        Duration(2 * time.Minute),
		},
		Auth: AuthConfig{
			PasswordScheme: PasswordSchemePlaintext,
			JWTTTL:         Duration(24 * time.Hour),
			Issuer:         "borrowdesk",
		},
		Server: ServerConfig{
			Address:           ":8080",
			ReconcileInterval: Duration(5 * time.Minute),
		},
		Session: SessionConfig{
			Path: defaultSessionPath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Retry: RetryConfig{
			MaxAttempts: 6,
			BaseDelay:   Duration(10 * time.Millisecond),
			Jitter:      0.3,
		},
		Observability: ObservabilityConfig{
			ServiceName: "borrowdesk",
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "borrowdesk-session.db"
	}

	return filepath.Join(dir, "borrowdesk", "session.db")
}

// Load resolves defaults, then the file at path (or $BORROWDESK_CONFIG when path is empty), then the environment.
// A missing file is only an error when it was asked for explicitly.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := loadFromEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingConfigFileFailed, err)
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, cfg); err != nil {
		return errors.Join(ErrDecodingConfigFailed, err)
	}

	return nil
}

type envBinding struct {
	name  string
	apply func(value string) error
}

func loadFromEnv(cfg *Config) error {
	bindings := []envBinding{
		{"BORROWDESK_ACCOUNTS_URL", setString(&cfg.MockAPI.AccountsBaseURL)},
		{"BORROWDESK_BOOKS_URL", setString(&cfg.MockAPI.BooksBaseURL)},
		{"BORROWDESK_REQUESTS_URL", setString(&cfg.MockAPI.RequestsBaseURL)},
		{"BORROWDESK_MOCKAPI_TIMEOUT", setDuration(&cfg.MockAPI.Timeout)},
		{"BORROWDESK_OPENLIBRARY_URL", setString(&cfg.OpenLibrary.BaseURL)},
		{"BORROWDESK_OPENLIBRARY_COVERS_URL", setString(&cfg.OpenLibrary.CoversBaseURL)},
		{"BORROWDESK_JOURNAL_DRIVER", setString(&cfg.Journal.Driver)},
		{"BORROWDESK_JOURNAL_DSN", setString(&cfg.Journal.DSN)},
		{"BORROWDESK_JOURNAL_TABLE", setString(&cfg.Journal.TableName)},
		{"BORROWDESK_JOURNAL_CLAIM_TTL", setDuration(&cfg.Journal.ClaimTTL)},
		{"BORROWDESK_PASSWORD_SCHEME", setString(&cfg.Auth.PasswordScheme)},
		{"BORROWDESK_JWT_SECRET", setString(&cfg.Auth.JWTSecret)},
		{"BORROWDESK_JWT_TTL", setDuration(&cfg.Auth.JWTTTL)},
		{"BORROWDESK_SERVER_ADDRESS", setString(&cfg.Server.Address)},
		{"BORROWDESK_RECONCILE_INTERVAL", setDuration(&cfg.Server.ReconcileInterval)},
		{"BORROWDESK_SESSION_PATH", setString(&cfg.Session.Path)},
		{"BORROWDESK_LOG_LEVEL", setString(&cfg.Log.Level)},
		{"BORROWDESK_LOG_FORMAT", setString(&cfg.Log.Format)},
		{"BORROWDESK_RETRY_MAX_ATTEMPTS", setInt(&cfg.Retry.MaxAttempts)},
		{"BORROWDESK_RETRY_BASE_DELAY", setDuration(&cfg.Retry.BaseDelay)},
		{"BORROWDESK_RETRY_JITTER", setFloat(&cfg.Retry.Jitter)},
		{"BORROWDESK_OTEL_ENABLED", setBool(&cfg.Observability.Enabled)},
	}

	for _, binding := range bindings {
		value, ok := os.LookupEnv(binding.name)
		if !ok || value == "" {
			continue
		}

		if err := binding.apply(value); err != nil {
			return errors.Join(ErrInvalidEnvValue, errors.New(binding.name), err)
		}
	}

	return nil
}

func setString(target *string) func(string) error {
	return func(value string) error {
		*target = value
		return nil
	}
}

func setDuration(target *Duration) func(string) error {
	return func(value string) error {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}

		*target = Duration(parsed)

		return nil
	}
}

func setInt(target *int) func(string) error {
	return func(value string) error {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		*target = parsed

		return nil
	}
}

func setFloat(target *float64) func(string) error {
	return func(value string) error {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		*target = parsed

		return nil
	}
}

func setBool(target *bool) func(string) error {
	return func(value string) error {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		*target = parsed

		return nil
	}
}
