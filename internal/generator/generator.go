package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/converter"
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/parser"
	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
	tmpl "github.com/fjglira/GoE2E-PageFlow/internal/template"
)

// SuiteFile is the bootstrap written once per output directory.
const SuiteFile = "suite_test.go"

// generatedMarker starts every file the scaffold writes; only such files are
// removed by clean_before_generate.
const generatedMarker = "// Code generated by pageflow scaffold"

// Generator scaffolds Ginkgo suites from feature sources.
type Generator interface {
	Generate(cfg *config.Config, configPath string) ([]string, error)
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner   scanner.Scanner
	registry  parser.ParserRegistry
	converter converter.Converter
	engine    tmpl.TemplateEngine
	log       *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	r parser.ParserRegistry,
	c converter.Converter,
	e tmpl.TemplateEngine,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		scanner:   s,
		registry:  r,
		converter: c,
		engine:    e,
		log:       log,
	}
}

// Generate runs the full pipeline: scan → parse → convert → render → write.
// It returns the paths written (or that would be written in dry run).
// configPath is baked into the bootstrap so the generated package can build
// its suite when run with `go test`.
func (g *DefaultGenerator) Generate(cfg *config.Config, configPath string) ([]string, error) {
	out := cfg.Scaffold.OutputDir

	// Step 1: Clean output directory if configured
	if cfg.Scaffold.CleanBeforeGenerate && !cfg.DryRun {
		g.log.Debugf("Cleaning output directory: %s", out)
		if err := cleanOutputDir(out); err != nil {
			return nil, domain.NewErrorWithSuggestion("scaffold", out, 0,
				"failed to clean output directory",
				"check file permissions or set scaffold.clean_before_generate to false in pageflow.yaml",
				err)
		}
	}

	// Step 2: Scan for feature sources
	g.log.Debugf("Scanning directories: %v", cfg.Features.Directories)
	allFiles, err := g.scanner.ScanAll(cfg.Features.Directories, cfg.Features.Include, cfg.Features.Exclude)
	if err != nil {
		return nil, err
	}

	if len(allFiles) == 0 {
		g.log.Warn("No feature files found")
		return nil, nil
	}

	g.log.Infof("Found %d feature file(s)", len(allFiles))

	// Step 3: Parse each file and convert features to suite specs
	var specs []domain.SuiteSpec
	for _, filePath := range allFiles {
		g.log.Debugf("Processing: %s", filePath)

		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
				"failed to read file",
				"check that the file exists and has read permissions",
				err)
		}

		ext := filepath.Ext(filePath)
		p, err := g.registry.ParserFor(ext)
		if err != nil {
			g.log.Warnf("No parser for %s, skipping %s", ext, filePath)
			continue
		}

		features, err := p.Parse(filePath, content)
		if err != nil {
			return nil, err
		}

		for _, f := range features {
			spec, err := g.converter.Convert(f)
			if err != nil {
				return nil, err
			}
			if len(spec.Groups) == 0 {
				g.log.Debugf("No scenarios in %q (%s)", f.Name, filePath)
				continue
			}
			specs = append(specs, spec)
		}
	}

	if len(specs) == 0 {
		g.log.Warn("No scenarios found to scaffold")
		return nil, nil
	}

	// Step 4: Ensure output directory exists
	if !cfg.DryRun {
		if err := os.MkdirAll(out, 0755); err != nil {
			return nil, domain.NewErrorWithSuggestion("scaffold", out, 0,
				"failed to create output directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	var written []string

	// Step 5: Bootstrap, unless one already exists
	bootstrap := filepath.Join(out, SuiteFile)
	if _, err := os.Stat(bootstrap); os.IsNotExist(err) {
		rendered, err := g.engine.RenderBootstrap(tmpl.RenderOptions{
			PackageName: cfg.Scaffold.PackageName,
			ConfigPath:  relativeTo(out, configPath),
		})
		if err != nil {
			return nil, err
		}
		if err := g.write(bootstrap, rendered, cfg.DryRun); err != nil {
			return nil, err
		}
		written = append(written, bootstrap)
	} else {
		g.log.Debugf("Keeping existing %s", bootstrap)
	}

	// Step 6: Render and write one file per feature
	used := map[string]bool{"suite": true}
	for _, spec := range specs {
		rendered, err := g.engine.Render(spec, tmpl.RenderOptions{
			PackageName: cfg.Scaffold.PackageName,
			FeaturePath: relativeTo(out, spec.SourceFile),
			ConfigPath:  relativeTo(out, configPath),
		})
		if err != nil {
			return nil, err
		}

		outputFile := buildOutputFilename(spec, cfg.Scaffold, used)
		outputPath := filepath.Join(out, outputFile)
		if err := g.write(outputPath, rendered, cfg.DryRun); err != nil {
			return nil, err
		}
		written = append(written, outputPath)
	}

	g.log.Infof("Scaffolded %d file(s)", len(written))
	return written, nil
}

func (g *DefaultGenerator) write(path, content string, dryRun bool) error {
	if dryRun {
		g.log.Infof("[DRY-RUN] Would write: %s", path)
		g.log.Debugf("[DRY-RUN] Content:\n%s", content)
		return nil
	}
	g.log.Infof("Writing: %s", path)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return domain.NewErrorWithSuggestion("scaffold", path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	return nil
}

// relativeTo rewrites target relative to dir using forward slashes, so the
// generated code is the same on every platform. Paths that cannot be made
// relative are returned absolute.
func relativeTo(dir, target string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(target)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return filepath.ToSlash(absTarget)
	}
	return filepath.ToSlash(rel)
}

// buildOutputFilename names the file after its source. A source holding more
// than one feature, or two sources sharing a base name, get the sanitized
// Describe text or a counter appended.
func buildOutputFilename(spec domain.SuiteSpec, scaffold config.ScaffoldConfig, used map[string]bool) string {
	base := filepath.Base(spec.SourceFile)
	name := sanitizeTestFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "feature"
	}
	if used[name] {
		if described := sanitizeTestFileName(spec.Describe); described != "" {
			name = name + "_" + described
		}
	}
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	used[candidate] = true
	return candidate + scaffold.FileSuffix
}

// sanitizeTestFileName converts a name into a valid filename component.
// e.g. "Checkout from the guide" → "checkout_from_the_guide"
func sanitizeTestFileName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	var b strings.Builder
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		}
	}
	result := b.String()
	// Collapse multiple underscores
	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	return strings.Trim(result, "_")
}

// cleanOutputDir removes previously scaffolded files from the output
// directory. Hand-written tests are left alone.
func cleanOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil // Nothing to clean
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !bytes.HasPrefix(content, []byte(generatedMarker)) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	return nil
}
