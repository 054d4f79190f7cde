package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Features: FeatureConfig{
			Directories: []string{"features"},
			Include:     []string{"*.feature", "*.md"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Fixtures: FixtureConfig{
			Directory: "fixtures",
		},
		Browser: BrowserConfig{
			Engine:         "rod",
			BaseURL:        "http://localhost:3000",
			Headless:       true,
			Width:          1280,
			Height:         720,
			DefaultTimeout: "10s",
		},
		Report: ReportConfig{
			Enabled: false,
			File:    "reports/pageflow.jsonl",
		},
		Scaffold: ScaffoldConfig{
			OutputDir:   "tests/e2e/generated",
			PackageName: "e2e_generated",
			Template:    "ginkgo_feature",
			FileSuffix:  "_test.go",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
