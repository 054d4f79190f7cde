// Package runner executes parsed features against the step registry.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/parser"
	"github.com/fjglira/GoE2E-PageFlow/internal/report"
	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
	"github.com/fjglira/GoE2E-PageFlow/internal/steps"
)

// Options tune a run.
type Options struct {
	Directories []string
	Include     []string
	Exclude     []string
	// StepTimeout bounds every step; zero means no per-step deadline.
	StepTimeout time.Duration
	// FailFast stops the run after the first failing scenario.
	FailFast bool
	// DryRun matches every step without executing it.
	DryRun bool
}

// Summary aggregates a run.
type Summary struct {
	RunID    string
	Results  []domain.ScenarioResult
	Duration time.Duration
}

// Counts returns the number of scenarios per status.
func (s *Summary) Counts() map[string]int {
	counts := make(map[string]int)
	for _, r := range s.Results {
		counts[string(r.Status)]++
	}
	return counts
}

// Failed reports whether any scenario did not pass.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Status == domain.StatusFailed || r.Status == domain.StatusUndefined {
			return true
		}
	}
	return false
}

// Runner is the top-level orchestrator: scan, parse, execute, report.
type Runner struct {
	scanner scanner.Scanner
	parsers parser.ParserRegistry
	steps   *steps.Registry
	world   *steps.World
	sink    report.Sink
	log     *logrus.Logger
	opts    Options
}

// NewRunner creates a Runner with all dependencies.
func NewRunner(
	s scanner.Scanner,
	p parser.ParserRegistry,
	r *steps.Registry,
	w *steps.World,
	sink report.Sink,
	log *logrus.Logger,
	opts Options,
) *Runner {
	if sink == nil {
		sink = report.NopSink{}
	}
	return &Runner{
		scanner: s,
		parsers: p,
		steps:   r,
		world:   w,
		sink:    sink,
		log:     log,
		opts:    opts,
	}
}

// Load scans the configured directories and parses every source found.
func (r *Runner) Load() ([]*domain.Feature, error) {
	r.log.Debugf("Scanning directories: %v", r.opts.Directories)
	files, err := r.scanner.ScanAll(r.opts.Directories, r.opts.Include, r.opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewErrorWithSuggestion("scan", strings.Join(r.opts.Directories, ", "), 0,
			"no feature files found",
			"check features.directories and features.include in pageflow.yaml",
			nil)
	}
	r.log.Infof("Found %d feature file(s)", len(files))

	var features []*domain.Feature
	for _, path := range files {
		parsed, err := r.ParseFile(path)
		if err != nil {
			return nil, err
		}
		features = append(features, parsed...)
	}
	return features, nil
}

// ParseFile parses a single source with the parser for its extension.
func (r *Runner) ParseFile(path string) ([]*domain.Feature, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", path, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}
	p, err := r.parsers.ParserFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError("parse", path, 0, "unsupported feature source", err)
	}
	return p.Parse(path, content)
}

// Run loads and executes every feature.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	features, err := r.Load()
	if err != nil {
		return nil, err
	}
	return r.RunFeatures(ctx, features)
}

// RunFeatures executes features in order, one scenario at a time.
func (r *Runner) RunFeatures(ctx context.Context, features []*domain.Feature) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: r.sink.RunID()}
	r.sink.Started()
	defer func() {
		summary.Duration = time.Since(start)
		r.sink.Finished(summary.Counts())
	}()

	for _, f := range features {
		for i := range f.Scenarios {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			result := r.runScenario(ctx, f, &f.Scenarios[i])
			summary.Results = append(summary.Results, result)
			if r.opts.FailFast && (result.Status == domain.StatusFailed || result.Status == domain.StatusUndefined) {
				r.log.WithField("scenario", result.Scenario).Warn("Stopping after first failure")
				return summary, nil
			}
		}
	}
	return summary, nil
}

// Check matches every step of features against the registry without running
// anything. Undefined and ambiguous steps come back as joined bind errors.
func (r *Runner) Check(features []*domain.Feature) error {
	var errs []error
	for _, f := range features {
		all := append([]domain.Step{}, f.Background...)
		for _, sc := range f.Scenarios {
			all = append(all, sc.Steps...)
		}
		for _, step := range all {
			if _, _, err := r.steps.Match(step.Text); err != nil {
				errs = append(errs, domain.NewError("bind", f.FilePath, step.LineNumber,
					fmt.Sprintf("%s %s", step.Keyword, step.Text), err))
			}
		}
	}
	return errors.Join(errs...)
}

// ErrScenarioNotFound is returned by RunScenario for an unknown name.
var ErrScenarioNotFound = errors.New("scenario not found")

// RunScenario parses file and runs the scenario called name. A failed
// scenario is returned as an error carrying the first failure.
func (r *Runner) RunScenario(ctx context.Context, file, name string) (domain.ScenarioResult, error) {
	features, err := r.ParseFile(file)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	for _, f := range features {
		for i := range f.Scenarios {
			if f.Scenarios[i].Name != name {
				continue
			}
			result := r.runScenario(ctx, f, &f.Scenarios[i])
			return result, result.Err
		}
	}
	return domain.ScenarioResult{}, fmt.Errorf("%w: %q in %s", ErrScenarioNotFound, name, file)
}

// runScenario clears the test context, then runs the background and the
// scenario steps in order. The first failure skips every remaining step.
func (r *Runner) runScenario(ctx context.Context, f *domain.Feature, sc *domain.Scenario) domain.ScenarioResult {
	r.world.Context.ClearAll()

	log := r.log.WithFields(logrus.Fields{"feature": f.Name, "scenario": sc.Name})
	log.Info("Running scenario")

	start := time.Now()
	result := domain.ScenarioResult{
		Feature:  f.Name,
		File:     f.FilePath,
		Scenario: sc.Name,
		Status:   domain.StatusPassed,
	}

	all := make([]domain.Step, 0, len(f.Background)+len(sc.Steps))
	all = append(all, f.Background...)
	all = append(all, sc.Steps...)

	failed := false
	for _, step := range all {
		if failed {
			result.Steps = append(result.Steps, domain.StepResult{Step: step, Status: domain.StatusSkipped})
			continue
		}
		sr := r.runStep(ctx, step)
		result.Steps = append(result.Steps, sr)
		switch sr.Status {
		case domain.StatusPassed:
		case domain.StatusSkipped:
			// dry run
			result.Status = domain.StatusSkipped
		default:
			failed = true
			result.Status = sr.Status
			result.Err = domain.NewError("run", f.FilePath, step.LineNumber,
				fmt.Sprintf("%s %s", step.Keyword, step.Text), sr.Err)
			log.WithError(sr.Err).WithField("line", step.LineNumber).Error("Step failed")
		}
	}
	result.Duration = time.Since(start)

	var att *report.Attachments
	if failed {
		att = r.attachments(ctx)
	}
	r.sink.Scenario(result, att)

	log.WithFields(logrus.Fields{"status": result.Status, "duration": result.Duration}).Info("Scenario finished")
	return result
}

func (r *Runner) runStep(ctx context.Context, step domain.Step) domain.StepResult {
	start := time.Now()
	sr := domain.StepResult{Step: step, Status: domain.StatusPassed}

	def, args, err := r.steps.Match(step.Text)
	if err != nil {
		sr.Err = err
		sr.Status = domain.StatusFailed
		var undefined *steps.UndefinedStepError
		if errors.As(err, &undefined) {
			sr.Status = domain.StatusUndefined
		}
		return sr
	}
	if r.opts.DryRun {
		sr.Status = domain.StatusSkipped
		return sr
	}

	stepCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.StepTimeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, r.opts.StepTimeout)
	}
	defer cancel()

	call := &steps.Call{World: r.world, Args: args, Table: step.Table, DocString: step.DocString}
	if err := invoke(stepCtx, def.Handler, call); err != nil {
		sr.Err = err
		sr.Status = domain.StatusFailed
	}
	sr.Duration = time.Since(start)
	return sr
}

// invoke runs h, turning a panic into an error so one broken step fails its
// scenario instead of the whole run.
func invoke(ctx context.Context, h steps.Handler, call *steps.Call) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("step panicked: %v", p)
		}
	}()
	return h(ctx, call)
}

// attachments captures the context snapshot and a screenshot of a failed
// scenario. Capture problems are logged and ignored.
func (r *Runner) attachments(ctx context.Context) *report.Attachments {
	att := &report.Attachments{Context: r.world.Context.All()}
	if r.world.Driver == nil || r.opts.DryRun {
		return att
	}
	shot, err := r.world.Driver.Screenshot(ctx)
	if err != nil {
		r.log.WithError(err).Warn("Failed to capture screenshot")
		return att
	}
	att.Screenshot = shot
	return att
}
