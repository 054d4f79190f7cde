package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// GherkinParser parses plain .feature files.
type GherkinParser struct{}

// NewGherkinParser creates a new GherkinParser.
func NewGherkinParser() *GherkinParser {
	return &GherkinParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *GherkinParser) SupportedExtensions() []string {
	return []string{".feature"}
}

// Parse parses a single Gherkin feature.
func (p *GherkinParser) Parse(filePath string, content []byte) ([]*domain.Feature, error) {
	feature, err := parseGherkin(filePath, content, 0)
	if err != nil {
		return nil, err
	}
	feature.FileType = "gherkin"
	return []*domain.Feature{feature}, nil
}

// errorLocation finds the "(line:column)" prefix of gherkin parse errors.
var errorLocation = regexp.MustCompile(`\((\d+):\d+\)`)

// parseGherkin parses content whose first line sits at offset+1 in filePath.
// Scenarios come from the compiled pickles, so outlines are expanded once
// per Examples row and tags are inherited from feature, rule and Examples.
func parseGherkin(filePath string, content []byte, offset int) (*domain.Feature, error) {
	newID := (&messages.Incrementing{}).NewId
	doc, err := gherkin.ParseGherkinDocument(bytes.NewReader(content), newID)
	if err != nil {
		line := 0
		if m := errorLocation.FindStringSubmatch(err.Error()); m != nil {
			n, _ := strconv.Atoi(m[1])
			line = offset + n
		}
		return nil, domain.NewErrorWithSuggestion("parse", filePath, line,
			"invalid Gherkin",
			"steps must start with Given, When, Then, And or But; tables and doc strings must follow a step",
			err)
	}
	if doc.Feature == nil {
		return nil, domain.NewError("parse", filePath, offset+1, "no Feature found", nil)
	}

	b := &featureBuilder{
		file:       filePath,
		offset:     offset,
		steps:      make(map[string]*messages.Step),
		scenarios:  make(map[string]*messages.Scenario),
		background: make(map[string]bool),
	}
	if err := b.index(doc.Feature); err != nil {
		return nil, err
	}
	return b.build(doc.Feature, gherkin.Pickles(*doc, filePath, newID)), nil
}

// featureBuilder maps pickles back onto the AST for keywords and lines.
type featureBuilder struct {
	file      string
	offset    int
	steps     map[string]*messages.Step
	scenarios map[string]*messages.Scenario
	// background holds the ids of feature-level Background steps, which are
	// kept on Feature.Background instead of being repeated per scenario.
	background map[string]bool
}

func (b *featureBuilder) index(f *messages.Feature) error {
	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			for _, s := range child.Background.Steps {
				b.steps[s.Id] = s
				b.background[s.Id] = true
			}
		case child.Scenario != nil:
			if err := b.addScenario(child.Scenario); err != nil {
				return err
			}
		case child.Rule != nil:
			for _, rc := range child.Rule.Children {
				if rc.Background != nil {
					for _, s := range rc.Background.Steps {
						b.steps[s.Id] = s
					}
				}
				if rc.Scenario != nil {
					if err := b.addScenario(rc.Scenario); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (b *featureBuilder) addScenario(sc *messages.Scenario) error {
	b.scenarios[sc.Id] = sc
	for _, s := range sc.Steps {
		b.steps[s.Id] = s
	}
	if !isOutline(sc) {
		return nil
	}
	rows := 0
	for _, ex := range sc.Examples {
		rows += len(ex.TableBody)
	}
	if rows == 0 {
		return domain.NewError("parse", b.file, b.line(sc.Location),
			fmt.Sprintf("Scenario Outline %q has no Examples rows", sc.Name), nil)
	}
	return nil
}

func (b *featureBuilder) build(f *messages.Feature, pickles []*messages.Pickle) *domain.Feature {
	feature := &domain.Feature{
		FilePath: b.file,
		Name:     strings.TrimSpace(f.Name),
		Tags:     tagNames(f.Tags),
	}
	for _, child := range f.Children {
		if child.Background == nil {
			continue
		}
		for _, s := range child.Background.Steps {
			feature.Background = append(feature.Background, domain.Step{
				Keyword:    strings.TrimSpace(s.Keyword),
				Text:       s.Text,
				Table:      astTable(s.DataTable),
				DocString:  astDocString(s.DocString),
				LineNumber: b.line(s.Location),
			})
		}
	}

	examples := make(map[string]int)
	for _, pk := range pickles {
		sc := b.scenarios[pk.AstNodeIds[0]]
		name := pk.Name
		if len(pk.AstNodeIds) > 1 {
			examples[sc.Id]++
			name = fmt.Sprintf("%s (example %d)", pk.Name, examples[sc.Id])
		}

		scenario := domain.Scenario{
			Name:       name,
			Tags:       pickleTags(pk.Tags),
			LineNumber: b.line(sc.Location),
		}
		for _, ps := range pk.Steps {
			ast := b.steps[ps.AstNodeIds[0]]
			if b.background[ast.Id] {
				continue
			}
			step := domain.Step{
				Keyword:    strings.TrimSpace(ast.Keyword),
				Text:       ps.Text,
				LineNumber: b.line(ast.Location),
			}
			if ps.Argument != nil {
				step.Table = pickleTable(ps.Argument.DataTable)
				if ps.Argument.DocString != nil {
					step.DocString = ps.Argument.DocString.Content
				}
			}
			scenario.Steps = append(scenario.Steps, step)
		}
		feature.Scenarios = append(feature.Scenarios, scenario)
	}
	return feature
}

func (b *featureBuilder) line(loc *messages.Location) int {
	if loc == nil {
		return 0
	}
	return b.offset + int(loc.Line)
}

func isOutline(sc *messages.Scenario) bool {
	kw := strings.TrimSpace(sc.Keyword)
	return len(sc.Examples) > 0 || kw == "Scenario Outline" || kw == "Scenario Template"
}

func tagNames(tags []*messages.Tag) []string {
	var out []string
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func pickleTags(tags []*messages.PickleTag) []string {
	var out []string
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func astTable(t *messages.DataTable) *domain.DataTable {
	if t == nil {
		return nil
	}
	table := &domain.DataTable{}
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Value
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func pickleTable(t *messages.PickleTable) *domain.DataTable {
	if t == nil {
		return nil
	}
	table := &domain.DataTable{}
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Value
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func astDocString(d *messages.DocString) string {
	if d == nil {
		return ""
	}
	return d.Content
}

// hasFeatureHeader reports whether the first meaningful line of a block is
// a Feature header. Comments and tag lines are skipped.
func hasFeatureHeader(content []byte) bool {
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}
		for _, kw := range []string{"Feature:", "Ability:", "Business Need:"} {
			if strings.HasPrefix(line, kw) {
				return true
			}
		}
		return false
	}
	return false
}
