package template

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// SuiteImport is the package scaffolded suites call into.
const SuiteImport = "github.com/fjglira/GoE2E-PageFlow/internal/suite"

// BootstrapTemplate renders the RunSpecs entry point of a scaffolded package.
const BootstrapTemplate = "ginkgo_suite"

//go:embed templates/*.tmpl
var builtin embed.FS

// TemplateEngine renders scaffold specs into Go source code strings.
type TemplateEngine interface {
	Render(spec domain.SuiteSpec, opts RenderOptions) (string, error)
	RenderBootstrap(opts RenderOptions) (string, error)
	ListTemplates() []string
}

// RenderOptions carries what a generated file needs beyond the spec. Paths
// are relative to the output directory, where `go test` runs the suite.
type RenderOptions struct {
	PackageName string
	FeaturePath string
	ConfigPath  string
}

// templateData is the struct passed to templates.
type templateData struct {
	PackageName string
	SourceFile  string
	SourceType  string
	FeaturePath string
	ConfigPath  string
	SuiteImport string
	Describe    string
	Labels      []string
	Groups      []domain.TestGroup
}

// DefaultEngine implements TemplateEngine.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
}

// NewEngine creates a new template engine with the built-in templates. When
// templateDir is set, its .tmpl files are loaded on top and replace built-in
// templates of the same name.
func NewEngine(templateDir string, defaultTemplate string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
	}

	if err := engine.loadTemplates(builtin, "templates", "builtin"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		if err := engine.loadTemplates(os.DirFS(templateDir), ".", templateDir); err != nil {
			return nil, err
		}
	}
	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewError("scaffold", templateDir, 0,
			fmt.Sprintf("template %q not found (available: %s)", defaultTemplate, strings.Join(engine.ListTemplates(), ", ")), nil)
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from dir inside fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, dir, location string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return domain.NewError("scaffold", location, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		file := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return domain.NewError("scaffold", path.Join(location, entry.Name()), 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("scaffold", path.Join(location, entry.Name()), 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
		loaded++
	}

	if loaded == 0 {
		return domain.NewError("scaffold", location, 0, "no templates found", nil)
	}

	return nil
}

// Render renders one feature into a formatted Go test file.
func (e *DefaultEngine) Render(spec domain.SuiteSpec, opts RenderOptions) (string, error) {
	data := templateData{
		PackageName: opts.PackageName,
		SourceFile:  spec.SourceFile,
		SourceType:  spec.SourceType,
		FeaturePath: opts.FeaturePath,
		ConfigPath:  opts.ConfigPath,
		SuiteImport: SuiteImport,
		Describe:    spec.Describe,
		Labels:      spec.Labels,
		Groups:      spec.Groups,
	}
	return e.execute(e.defaultName, spec.SourceFile, data)
}

// RenderBootstrap renders the package entry point that builds the shared
// suite once and runs every scaffolded spec.
func (e *DefaultEngine) RenderBootstrap(opts RenderOptions) (string, error) {
	data := templateData{
		PackageName: opts.PackageName,
		ConfigPath:  opts.ConfigPath,
		SuiteImport: SuiteImport,
	}
	return e.execute(BootstrapTemplate, "", data)
}

func (e *DefaultEngine) execute(name, source string, data templateData) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("scaffold", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("scaffold", source, 0, "failed to execute template", err)
	}

	// Format with go/format
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Return unformatted if go/format fails (might be useful for debugging)
		return buf.String(), domain.NewError("scaffold", source, 0,
			"generated code failed go/format validation", err)
	}

	return string(formatted), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
