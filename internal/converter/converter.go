package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Converter turns parsed features into scaffold specs.
type Converter interface {
	Convert(feature *domain.Feature) (domain.SuiteSpec, error)
}

// DefaultConverter implements Converter.
type DefaultConverter struct{}

// NewConverter creates a new DefaultConverter.
func NewConverter() *DefaultConverter {
	return &DefaultConverter{}
}

// Convert maps one feature onto one Describe. Scenarios are grouped into
// Context blocks by the heading they were found under, in document order.
// Scenario names must be unique within a feature because the scaffolded
// test looks its scenario up by name.
func (c *DefaultConverter) Convert(feature *domain.Feature) (domain.SuiteSpec, error) {
	spec := domain.SuiteSpec{
		SourceFile: feature.FilePath,
		SourceType: feature.FileType,
		Describe:   inferDescribeBlock(feature),
		Labels:     labels(feature.Tags),
	}
	if len(feature.Scenarios) == 0 {
		return spec, nil
	}

	seen := make(map[string]int)
	groupIndex := make(map[string]int)
	for _, sc := range feature.Scenarios {
		if strings.TrimSpace(sc.Name) == "" {
			return domain.SuiteSpec{}, domain.NewErrorWithSuggestion("convert", feature.FilePath, sc.LineNumber,
				"scenario has no name",
				"give every scenario a name so the generated test can select it",
				nil)
		}
		if first, dup := seen[sc.Name]; dup {
			return domain.SuiteSpec{}, domain.NewErrorWithSuggestion("convert", feature.FilePath, sc.LineNumber,
				fmt.Sprintf("scenario %q is already defined at line %d", sc.Name, first),
				"scenario names must be unique within a feature",
				nil)
		}
		seen[sc.Name] = sc.LineNumber

		test := domain.TestCase{
			Scenario: sc.Name,
			Labels:   without(labels(sc.Tags), spec.Labels),
			Line:     sc.LineNumber,
		}
		for _, step := range feature.Background {
			test.Steps = append(test.Steps, stepLine(step))
		}
		for _, step := range sc.Steps {
			test.Steps = append(test.Steps, stepLine(step))
		}

		context := sc.Context
		if context == spec.Describe {
			context = ""
		}
		i, ok := groupIndex[context]
		if !ok {
			i = len(spec.Groups)
			groupIndex[context] = i
			spec.Groups = append(spec.Groups, domain.TestGroup{Context: context})
		}
		spec.Groups[i].Tests = append(spec.Groups[i].Tests, test)
	}
	return spec, nil
}

func stepLine(step domain.Step) string {
	return strings.TrimSpace(step.Keyword + " " + step.Text)
}

// labels strips the @ from tags and replaces characters Ginkgo rejects in
// label names.
func labels(tags []string) []string {
	var out []string
	for _, tag := range tags {
		l := strings.TrimPrefix(strings.TrimSpace(tag), "@")
		l = strings.Map(func(r rune) rune {
			if strings.ContainsRune("&|!,()/", r) {
				return '-'
			}
			return r
		}, l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// without drops the labels already set on the Describe.
func without(ls, inherited []string) []string {
	var out []string
	for _, l := range ls {
		dup := false
		for _, i := range inherited {
			if l == i {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}

// inferDescribeBlock prefers the feature name, then the top-level heading.
func inferDescribeBlock(feature *domain.Feature) string {
	if feature.Name != "" {
		return feature.Name
	}
	for _, h := range feature.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	// Fallback: use the first heading regardless of level
	if len(feature.Headings) > 0 {
		return feature.Headings[0].Text
	}
	// Last resort: use filename
	return strings.TrimSuffix(filepath.Base(feature.FilePath), filepath.Ext(feature.FilePath))
}
