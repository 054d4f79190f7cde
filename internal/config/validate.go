package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

var validEngines = map[string]bool{"rod": true, "chromedp": true}

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if len(cfg.Features.Directories) == 0 {
		errs = append(errs, "features.directories must not be empty")
	}
	if len(cfg.Features.Include) == 0 {
		errs = append(errs, "features.include must not be empty")
	}

	if cfg.Fixtures.Directory == "" {
		errs = append(errs, "fixtures.directory must not be empty")
	}

	if !validEngines[cfg.Browser.Engine] {
		errs = append(errs, fmt.Sprintf("browser.engine must be one of: rod, chromedp (got %q)", cfg.Browser.Engine))
	}
	if cfg.Browser.BaseURL != "" {
		if u, err := url.Parse(cfg.Browser.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("browser.base_url must be an absolute URL (got %q)", cfg.Browser.BaseURL))
		}
	}
	if cfg.Browser.Width <= 0 || cfg.Browser.Height <= 0 {
		errs = append(errs, "browser.width and browser.height must be positive")
	}
	if cfg.Browser.DefaultTimeout != "" {
		if d, err := time.ParseDuration(cfg.Browser.DefaultTimeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("browser.default_timeout must be a positive duration (got %q)", cfg.Browser.DefaultTimeout))
		}
	}

	if cfg.Report.Enabled && cfg.Report.File == "" {
		errs = append(errs, "report.file must not be empty when report.enabled is true")
	}

	if cfg.Scaffold.OutputDir == "" {
		errs = append(errs, "scaffold.output_dir must not be empty")
	}
	if cfg.Scaffold.PackageName == "" {
		errs = append(errs, "scaffold.package_name must not be empty")
	}
	if !strings.HasSuffix(cfg.Scaffold.FileSuffix, ".go") {
		errs = append(errs, "scaffold.file_suffix must end with .go")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}
	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 {
		errs = append(errs, "logging.max_size_mb and logging.max_backups must not be negative")
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

// Timeout returns browser.default_timeout, or 10s when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Browser.DefaultTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
