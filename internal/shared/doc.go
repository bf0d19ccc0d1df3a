// Package shared holds helpers used by more than one layer of shiftboard.
//
// The testutil subpackage provides a capturing slog handler and schedule
// fixtures for package tests. It must not import any other internal package.
package shared
