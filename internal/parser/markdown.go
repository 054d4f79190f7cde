package parser

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// featureLanguages are the fenced block languages parsed as Gherkin.
var featureLanguages = map[string]bool{"gherkin": true, "feature": true, "cucumber": true}

// MarkdownParser extracts Gherkin from fenced code blocks in Markdown
// documents using goldmark. Each block becomes one feature.
type MarkdownParser struct{}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Parse parses a Markdown document and returns one feature per gherkin block.
func (p *MarkdownParser) Parse(filePath string, content []byte) ([]*domain.Feature, error) {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var (
		features       []*domain.Feature
		headings       []domain.Heading
		currentHeading string
	)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractText(node, content)
			lineNum := 0
			if node.Lines().Len() > 0 {
				lineNum = lineNumber(content, node.Lines().At(0).Start)
			} else if first, ok := node.FirstChild().(*ast.Text); ok {
				lineNum = lineNumber(content, first.Segment.Start)
			}
			headings = append(headings, domain.Heading{
				Level: node.Level,
				Text:  headingText,
				Line:  lineNum,
			})
			currentHeading = headingText

		case *ast.FencedCodeBlock:
			lang := strings.ToLower(string(node.Language(content)))
			if !featureLanguages[lang] || node.Lines().Len() == 0 {
				return ast.WalkContinue, nil
			}

			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}
			offset := lineNumber(content, lines.At(0).Start) - 1

			block := buf.Bytes()
			if !hasFeatureHeader(block) {
				// Scenario-only blocks get a synthetic header line.
				block = append([]byte("Feature:\n"), block...)
				offset--
			}

			feature, err := parseGherkin(filePath, block, offset)
			if err != nil {
				return ast.WalkStop, err
			}
			feature.FileType = "markdown"
			if feature.Name == "" {
				feature.Name = currentHeading
			}
			for i := range feature.Scenarios {
				feature.Scenarios[i].Context = currentHeading
			}
			features = append(features, feature)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		var perr *domain.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to walk markdown AST",
			"check the markdown file for syntax issues, fenced gherkin blocks need triple backticks",
			err)
	}

	for _, f := range features {
		f.Headings = headings
	}
	return features, nil
}

// extractText gets the text content of a heading node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
