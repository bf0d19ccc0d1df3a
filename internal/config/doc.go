// Package config loads and validates shiftboard configuration.
//
// # Configuration Sources
//
// Values are layered in increasing precedence:
//
//  1. Default values
//  2. The YAML file (shiftboard.yaml, configs/shiftboard.yaml, or $SHIFTBOARD_CONFIG)
//  3. Environment variables
//
// # Environment Variables
//
// Variables follow the SHIFTBOARD_<SECTION>_<FIELD> pattern:
//
//	SHIFTBOARD_SERVER_PORT=8080
//	SHIFTBOARD_SOURCE_KIND=http
//	SHIFTBOARD_SOURCE_URL=https://example.org/shifts.csv
//	SHIFTBOARD_PARSER_COLUMNS=depot
//	SHIFTBOARD_PARSER_HEADERS=truck:Bus,start:Depart
//	SHIFTBOARD_REFRESH_SCHEDULE="*/10 * * * *"
//
// # Parser Section
//
// ParserConfig.Options turns the parser section into schedule.Options, applying
// header overrides on top of the chosen column preset.
//
// # Path Management
//
// Config.ResolvePaths anchors relative directories at paths.base_dir or, when that
// is empty, at the executable's directory.
package config
