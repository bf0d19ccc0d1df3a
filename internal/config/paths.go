package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved on-disk locations used at runtime
type Paths struct {
	BaseDir       string
	DataDir       string
	LogsDir       string
	PreferencesDB string
	LogFile       string
}

// ResolvePaths anchors the configured directories at BaseDir, falling back to the
// executable's directory when BaseDir is empty.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		if exe, err = filepath.EvalSymlinks(exe); err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}

	p := &Paths{
		BaseDir: base,
		DataDir: resolve(base, c.Paths.DataDir),
		LogsDir: resolve(base, c.Paths.LogsDir),
	}
	if c.Preferences.DBFile != "" {
		p.PreferencesDB = resolve(p.DataDir, c.Preferences.DBFile)
	}
	if c.Logging.FilePath != "" {
		p.LogFile = resolve(base, c.Logging.FilePath)
	}
	return p, nil
}

// EnsureDirectories creates the data and log directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
