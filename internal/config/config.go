package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Features FeatureConfig  `yaml:"features"`
	Fixtures FixtureConfig  `yaml:"fixtures"`
	Browser  BrowserConfig  `yaml:"browser"`
	Report   ReportConfig   `yaml:"report"`
	Scaffold ScaffoldConfig `yaml:"scaffold"`
	Logging  LoggingConfig  `yaml:"logging"`
	DryRun   bool           `yaml:"dry_run"`
	FailFast bool           `yaml:"fail_fast"`
}

type FeatureConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type FixtureConfig struct {
	Directory string `yaml:"directory"`
}

type BrowserConfig struct {
	Engine         string `yaml:"engine"`
	BaseURL        string `yaml:"base_url"`
	Headless       bool   `yaml:"headless"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	DefaultTimeout string `yaml:"default_timeout"`
	Bin            string `yaml:"bin"`
}

type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

type ScaffoldConfig struct {
	OutputDir   string `yaml:"output_dir"`
	PackageName string `yaml:"package_name"`
	TemplateDir string `yaml:"template_dir"`
	Template    string `yaml:"template"`
	FileSuffix  string `yaml:"file_suffix"`

	// CleanBeforeGenerate removes old *_test.go files from OutputDir first.
	CleanBeforeGenerate bool `yaml:"clean_before_generate"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// Rebase resolves every relative path in c against dir, normally the
// directory holding the config file.
func (c *Config) Rebase(dir string) {
	if dir == "" || dir == "." {
		return
	}
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, d := range c.Features.Directories {
		c.Features.Directories[i] = join(d)
	}
	c.Fixtures.Directory = join(c.Fixtures.Directory)
	c.Report.File = join(c.Report.File)
	c.Scaffold.OutputDir = join(c.Scaffold.OutputDir)
	c.Scaffold.TemplateDir = join(c.Scaffold.TemplateDir)
	c.Logging.File = join(c.Logging.File)
}
