// Package suite wires a complete run from a config file. It backs both the
// `pageflow run` command and scaffolded Ginkgo suites.
package suite

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver/engines"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/logging"
	"github.com/fjglira/GoE2E-PageFlow/internal/parser"
	"github.com/fjglira/GoE2E-PageFlow/internal/report"
	"github.com/fjglira/GoE2E-PageFlow/internal/runner"
	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
	"github.com/fjglira/GoE2E-PageFlow/internal/steps"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// Suite owns every long-lived component of a run.
type Suite struct {
	Config *config.Config
	Log    *logrus.Logger
	Runner *runner.Runner
	World  *steps.World
	Steps  *steps.Registry
	Sink   report.Sink

	closers []func() error
}

// Option adjusts how New builds a Suite.
type Option func(*options)

type options struct {
	verbose  bool
	dryRun   bool
	driver   driver.Driver
	logger   *logrus.Logger
	registry *steps.Registry
}

// WithVerbose forces debug logging.
func WithVerbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}

// WithDryRun matches steps without running them; no browser is launched.
func WithDryRun(v bool) Option {
	return func(o *options) { o.dryRun = v }
}

// WithDriver uses drv instead of launching the configured engine. The suite
// does not close a driver it did not launch.
func WithDriver(drv driver.Driver) Option {
	return func(o *options) { o.driver = drv }
}

// WithLogger uses log instead of building one from the logging section.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithSteps replaces the built-in step registry.
func WithSteps(r *steps.Registry) Option {
	return func(o *options) { o.registry = r }
}

// Load reads and validates the config at path. Relative paths inside it are
// resolved against the config file's directory.
func Load(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Rebase(filepath.Dir(path))
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New loads the config at configPath and wires logger, fixtures, browser,
// steps, report sink and runner. Close releases them.
func New(ctx context.Context, configPath string, opts ...Option) (*Suite, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	if o.dryRun {
		cfg.DryRun = true
	}
	return build(ctx, cfg, o)
}

// NewFromConfig wires a Suite around an already loaded config.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Suite, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.dryRun {
		cfg.DryRun = true
	}
	return build(ctx, cfg, o)
}

func build(ctx context.Context, cfg *config.Config, o options) (*Suite, error) {
	s := &Suite{Config: cfg}

	s.Log = o.logger
	if s.Log == nil {
		log, closeLog := logging.New(cfg.Logging, o.verbose)
		s.Log = log
		s.closers = append(s.closers, closeLog)
	}

	store := fixture.NewStore(fixture.NewDirSource(cfg.Fixtures.Directory), s.Log)
	resolver := fixture.NewResolver(store)

	drv := o.driver
	if drv == nil && !cfg.DryRun {
		launched, err := engines.Launch(ctx, cfg.Browser.Engine, driver.Options{
			BaseURL:  cfg.Browser.BaseURL,
			Headless: cfg.Browser.Headless,
			Width:    cfg.Browser.Width,
			Height:   cfg.Browser.Height,
			Bin:      cfg.Browser.Bin,
		}, s.Log)
		if err != nil {
			_ = s.Close()
			return nil, domain.NewErrorWithSuggestion("run", "", 0,
				"failed to launch browser",
				"check browser.engine and browser.bin in pageflow.yaml",
				err)
		}
		drv = launched
		s.closers = append(s.closers, launched.Close)
	}

	s.Sink = report.NopSink{}
	if cfg.Report.Enabled {
		sink, err := report.NewJSONLSink(cfg.Report.File, s.Log)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Sink = sink
		s.closers = append(s.closers, sink.Close)
	}

	s.Steps = o.registry
	if s.Steps == nil {
		s.Steps = steps.NewDefaultRegistry()
	}
	s.World = steps.NewWorld(resolver, testcontext.New(s.Log), drv, s.Log)

	recursive := true
	if cfg.Features.Recursive != nil {
		recursive = *cfg.Features.Recursive
	}
	s.Runner = runner.NewRunner(
		scanner.NewScanner(recursive),
		parser.NewDefaultRegistry(),
		s.Steps,
		s.World,
		s.Sink,
		s.Log,
		runner.Options{
			Directories: cfg.Features.Directories,
			Include:     cfg.Features.Include,
			Exclude:     cfg.Features.Exclude,
			StepTimeout: cfg.Timeout(),
			FailFast:    cfg.FailFast,
			DryRun:      cfg.DryRun,
		},
	)
	return s, nil
}

// Run executes every configured feature.
func (s *Suite) Run(ctx context.Context) (*runner.Summary, error) {
	return s.Runner.Run(ctx)
}

// RunScenario runs one scenario of file by name.
func (s *Suite) RunScenario(ctx context.Context, file, name string) (domain.ScenarioResult, error) {
	return s.Runner.RunScenario(ctx, file, name)
}

// Close releases everything New opened, in reverse order.
func (s *Suite) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
