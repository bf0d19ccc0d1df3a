// Package preferences persists per-client display settings.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Theme is the page color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is reported for clients that never chose one
const DefaultTheme = ThemeLight

// ErrInvalidTheme is returned for anything other than light or dark
var ErrInvalidTheme = errors.New("invalid theme")

// ParseTheme accepts light or dark in any case
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Toggled returns the opposite theme
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Store persists themes keyed by an opaque client ID
type Store interface {
	// Get returns DefaultTheme for unknown clients.
	Get(ctx context.Context, clientID string) (Theme, error)
	Set(ctx context.Context, clientID string, theme Theme) error
	Close() error
}
