package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"shiftboard/internal/schedule"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Security    SecurityConfig    `yaml:"security" envconfig:"SECURITY"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Source      SourceConfig      `yaml:"source" envconfig:"SOURCE"`
	Refresh     RefreshConfig     `yaml:"refresh" envconfig:"REFRESH"`
	Parser      ParserConfig      `yaml:"parser" envconfig:"PARSER"`
	Preferences PreferencesConfig `yaml:"preferences" envconfig:"PREFERENCES"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket   WebSocketConfig   `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" split_words:"true"`
	EnableCORS     bool            `yaml:"enable_cors" split_words:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	// AdminTokenHash is a bcrypt hash guarding the reload endpoint. Empty disables
	// the check.
	AdminTokenHash string `yaml:"admin_token_hash" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" validate:"gte=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output      string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" split_words:"true"`
	DataDir string `yaml:"data_dir" split_words:"true"`
	LogsDir string `yaml:"logs_dir" split_words:"true"`
}

// SourceConfig describes where the schedule comes from
type SourceConfig struct {
	Kind            string        `yaml:"kind" split_words:"true" validate:"oneof=file http xlsx sheets"`
	Path            string        `yaml:"path" split_words:"true"`
	URL             string        `yaml:"url" split_words:"true" validate:"omitempty,url"`
	Sheet           string        `yaml:"sheet" split_words:"true"`
	SpreadsheetID   string        `yaml:"spreadsheet_id" split_words:"true"`
	Range           string        `yaml:"range" split_words:"true"`
	APIKey          string        `yaml:"api_key" split_words:"true"`
	CredentialsFile string        `yaml:"credentials_file" split_words:"true"`
	Timeout         time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	MaxBytes        int64         `yaml:"max_bytes" split_words:"true" validate:"gt=0"`
}

// RefreshConfig controls automatic reloads
type RefreshConfig struct {
	// Schedule is a 5-field cron expression; empty disables periodic reloads.
	Schedule string        `yaml:"schedule" split_words:"true"`
	Watch    bool          `yaml:"watch" split_words:"true"`
	Debounce time.Duration `yaml:"debounce" split_words:"true" validate:"gte=0"`
}

// ParserConfig selects the column layout and normalization policies
type ParserConfig struct {
	Columns string `yaml:"columns" split_words:"true" validate:"oneof=compact depot"`
	// Headers overrides header text per logical field, e.g. truck: "Bus".
	Headers   map[string]string `yaml:"headers" split_words:"true"`
	Driver    string            `yaml:"driver" split_words:"true" validate:"oneof=full first"`
	Run       string            `yaml:"run" split_words:"true" validate:"oneof=verbatim cleaned"`
	Retention string            `yaml:"retention" split_words:"true" validate:"oneof=lenient strict"`
}

// PreferencesConfig contains display preference storage configuration
type PreferencesConfig struct {
	Store          string        `yaml:"store" split_words:"true" validate:"oneof=memory sqlite"`
	DBFile         string        `yaml:"db_file" split_words:"true"`
	CookieName     string        `yaml:"cookie_name" split_words:"true" validate:"required"`
	CookieLifetime time.Duration `yaml:"cookie_lifetime" split_words:"true" validate:"gt=0"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" split_words:"true"`
	EnableMetrics bool    `yaml:"enable_metrics" split_words:"true"`
	TraceExporter string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
	Environment   string  `yaml:"environment" split_words:"true"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" split_words:"true" validate:"gt=0"`
	WriteBufferSize int           `yaml:"write_buffer_size" split_words:"true" validate:"gt=0"`
	PingPeriod      time.Duration `yaml:"ping_period" split_words:"true" validate:"gt=0"`
	PongWait        time.Duration `yaml:"pong_wait" split_words:"true" validate:"gtfield=PingPeriod"`
	WriteWait       time.Duration `yaml:"write_wait" split_words:"true" validate:"gt=0"`
}

// Load builds the configuration from defaults, the YAML file if one is found, and
// SHIFTBOARD_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags on the struct, so unset variables leave file values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct tags and the rules that span fields
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if err := c.Source.validate(); err != nil {
		return err
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q needs a file_path", c.Logging.Output)
	}

	if c.Preferences.Store == StoreSQLite && c.Preferences.DBFile == "" {
		return fmt.Errorf("sqlite preference store needs db_file")
	}

	if _, err := c.Parser.Options(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}

	return nil
}

func (s SourceConfig) validate() error {
	switch s.Kind {
	case SourceFile, SourceXLSX:
		if s.Path == "" {
			return fmt.Errorf("%s source needs a path", s.Kind)
		}
	case SourceHTTP:
		if s.URL == "" {
			return fmt.Errorf("http source needs a url")
		}
	case SourceSheets:
		if s.SpreadsheetID == "" {
			return fmt.Errorf("sheets source needs a spreadsheet_id")
		}
		if s.APIKey == "" && s.CredentialsFile == "" {
			return fmt.Errorf("sheets source needs api_key or credentials_file")
		}
	}
	return nil
}

// Options converts the parser section into schedule options
func (p ParserConfig) Options() (schedule.Options, error) {
	cols, err := schedule.Preset(p.Columns)
	if err != nil {
		return schedule.Options{}, err
	}

	for field, header := range p.Headers {
		field = strings.ToLower(strings.TrimSpace(field))
		replaced := false
		for i := range cols {
			if cols[i].Field == field {
				cols[i].Header = header
				replaced = true
			}
		}
		if !replaced {
			cols = append(cols, schedule.Column{Field: field, Header: header})
		}
	}

	opts := schedule.Options{
		Columns:   cols,
		Driver:    schedule.DriverPolicy(p.Driver),
		Run:       schedule.RunPolicy(p.Run),
		Retention: schedule.RetentionPolicy(p.Retention),
	}
	if err := opts.Validate(); err != nil {
		return schedule.Options{}, err
	}
	return opts, nil
}

// findConfigFile returns the first config file found in the usual places
func findConfigFile() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
		"../configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/shiftboard.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
		Source: SourceConfig{
			Kind:     SourceFile,
			Path:     "shifts.csv",
			Range:    "A:Z",
			Timeout:  15 * time.Second,
			MaxBytes: DefaultMaxSourceBytes,
		},
		Refresh: RefreshConfig{
			Watch:    true,
			Debounce: 500 * time.Millisecond,
		},
		Parser: ParserConfig{
			Columns:   "compact",
			Driver:    string(schedule.DriverFirstToken),
			Run:       string(schedule.RunCleaned),
			Retention: string(schedule.RetainLenient),
		},
		Preferences: PreferencesConfig{
			Store:          StoreSQLite,
			DBFile:         DefaultPreferencesDB,
			CookieName:     DefaultThemeCookie,
			CookieLifetime: DefaultCookieLifetime,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
			TraceExporter: "none",
			SampleRatio:   1.0,
			Environment:   "development",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
			WriteWait:       10 * time.Second,
		},
	}
}
