package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Parser extracts features from a source file.
type Parser interface {
	Parse(filePath string, content []byte) ([]*domain.Feature, error)
	SupportedExtensions() []string
}

// ParserRegistry maps file extensions to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(extension string) (Parser, error)
}

// DefaultRegistry is a thread-safe parser registry with fallback support.
// Extensions are matched without the leading dot and case-insensitively.
type DefaultRegistry struct {
	mu       sync.RWMutex
	parsers  map[string]Parser
	fallback Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry returns a registry with the Gherkin and Markdown parsers.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	r.Register(NewGherkinParser())
	r.Register(NewMarkdownParser())
	return r
}

// Register adds a parser to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.SupportedExtensions() {
		r.parsers[normalizeExt(ext)] = p
	}
}

// Extensions returns the registered extensions, sorted.
func (r *DefaultRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// SetFallback sets the fallback parser for unregistered extensions.
func (r *DefaultRegistry) SetFallback(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// ParserFor returns the parser registered for the given file extension.
// If no parser is found, it returns the fallback parser if set.
func (r *DefaultRegistry) ParserFor(extension string) (Parser, error) {
	r.mu.RLock()
	p, ok := r.parsers[normalizeExt(extension)]
	if !ok {
		p = r.fallback
	}
	r.mu.RUnlock()

	if p == nil {
		return nil, domain.NewErrorWithSuggestion("parse", "", 0,
			fmt.Sprintf("no parser registered for extension %q", extension),
			fmt.Sprintf("feature sources must be one of: %s", strings.Join(r.Extensions(), ", ")),
			nil)
	}
	return p, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
