// Package steps binds step text from feature files to Go handlers.
package steps

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	cucumberexpressions "github.com/cucumber/cucumber-expressions/go/v16"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Call carries the arguments of one matched step.
type Call struct {
	World     *World
	Args      []any
	Table     *domain.DataTable
	DocString string
}

// String returns argument i as a string.
func (c *Call) String(i int) string {
	s, _ := c.Args[i].(string)
	return s
}

// Int returns argument i as an int.
func (c *Call) Int(i int) int {
	n, _ := c.Args[i].(int)
	return n
}

// Handler executes one step.
type Handler func(ctx context.Context, c *Call) error

// Definition is a registered step pattern.
// Patterns are cucumber expressions: {string}, {int}, {float}, {word} and {}
// capture arguments, (text) is optional and a/b is an alternative.
type Definition struct {
	Pattern string
	Handler Handler
	expr    cucumberexpressions.Expression
}

// UndefinedStepError is returned when no pattern matches a step.
type UndefinedStepError struct {
	Text string
}

func (e *UndefinedStepError) Error() string {
	return fmt.Sprintf("undefined step %q", e.Text)
}

// AmbiguousStepError is returned when several patterns match a step.
type AmbiguousStepError struct {
	Text     string
	Patterns []string
}

func (e *AmbiguousStepError) Error() string {
	return fmt.Sprintf("ambiguous step %q matches %s", e.Text, strings.Join(e.Patterns, ", "))
}

// Registry holds step definitions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  []*Definition
	types *cucumberexpressions.ParameterTypeRegistry
}

// NewRegistry creates an empty Registry with the built-in parameter types.
func NewRegistry() *Registry {
	return &Registry{types: cucumberexpressions.NewParameterTypeRegistry()}
}

// Register compiles pattern and adds it. Duplicate patterns are rejected.
func (r *Registry) Register(pattern string, h Handler) error {
	expr, err := cucumberexpressions.NewCucumberExpression(pattern, r.types)
	if err != nil {
		return domain.NewError("bind", "", 0, fmt.Sprintf("invalid step pattern %q", pattern), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.defs {
		if d.Pattern == pattern {
			return domain.NewError("bind", "", 0, fmt.Sprintf("step pattern %q registered twice", pattern), nil)
		}
	}
	r.defs = append(r.defs, &Definition{Pattern: pattern, Handler: h, expr: expr})
	return nil
}

// MustRegister is Register that panics on error, for built-in steps.
func (r *Registry) MustRegister(pattern string, h Handler) {
	if err := r.Register(pattern, h); err != nil {
		panic(err)
	}
}

// Match finds the single definition matching text and converts its arguments.
func (r *Registry) Match(text string) (*Definition, []any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found *Definition
		args  []*cucumberexpressions.Argument
		all   []string
	)
	for _, d := range r.defs {
		m, err := d.expr.Match(text)
		if err != nil {
			return nil, nil, fmt.Errorf("step %q: %w", text, err)
		}
		if m == nil {
			continue
		}
		all = append(all, d.Pattern)
		if found == nil {
			found, args = d, m
		}
	}

	switch {
	case found == nil:
		return nil, nil, &UndefinedStepError{Text: text}
	case len(all) > 1:
		return nil, nil, &AmbiguousStepError{Text: text, Patterns: all}
	}

	values, err := convert(args)
	if err != nil {
		return nil, nil, fmt.Errorf("step %q: %w", text, err)
	}
	return found, values, nil
}

// Patterns returns every registered pattern, sorted.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d.Pattern)
	}
	sort.Strings(out)
	return out
}

// convert normalizes argument values: integers become int and floats become
// float64, parsed from their shortest decimal form so 29.99 stays 29.99.
func convert(args []*cucumberexpressions.Argument) (values []any, err error) {
	defer func() {
		// Parameter transformers panic on values their regexp let through.
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid argument: %v", r)
		}
	}()
	values = make([]any, len(args))
	for i, arg := range args {
		switch v := arg.GetValue().(type) {
		case int8:
			values[i] = int(v)
		case int16:
			values[i] = int(v)
		case int32:
			values[i] = int(v)
		case int64:
			values[i] = int(v)
		case float32:
			f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
			if err != nil {
				return nil, err
			}
			values[i] = f
		default:
			values[i] = v
		}
	}
	return values, nil
}

// Run matches step against the registry and executes its handler.
func (r *Registry) Run(ctx context.Context, w *World, step domain.Step) error {
	def, args, err := r.Match(step.Text)
	if err != nil {
		return err
	}
	return def.Handler(ctx, &Call{World: w, Args: args, Table: step.Table, DocString: step.DocString})
}
