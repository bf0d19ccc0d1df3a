package config

import "time"

// Application constants
const (
	AppName    = "Shiftboard"
	AppVersion = "1.4.0"

	// EnvPrefix namespaces every environment variable, e.g. SHIFTBOARD_SERVER_PORT.
	EnvPrefix = "SHIFTBOARD"

	DefaultConfigFile = "shiftboard.yaml"

	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	DefaultPreferencesDB  = "preferences.db"
	DefaultThemeCookie    = "shiftboard_client"
	DefaultCookieLifetime = 365 * 24 * time.Hour

	// DefaultMaxSourceBytes caps a fetched schedule.
	DefaultMaxSourceBytes = 8 << 20
)

// Source kinds
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceXLSX   = "xlsx"
	SourceSheets = "sheets"
)

// Preference store drivers
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)
