package pages

import (
	"errors"
	"fmt"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
)

// Definition supplies the URL and logical selectors of a page.
type Definition interface {
	Name() string
	URL() (string, error)
	Selectors() (map[string]string, error)
}

// StaticDefinition declares a page in code.
type StaticDefinition struct {
	PageName    string
	PageURL     string
	SelectorMap map[string]string
}

func (d *StaticDefinition) Name() string { return d.PageName }

func (d *StaticDefinition) URL() (string, error) { return d.PageURL, nil }

func (d *StaticDefinition) Selectors() (map[string]string, error) { return d.SelectorMap, nil }

// FixtureDefinition reads a page from its fixture: urls.<URLKey> and the
// selectors mapping.
type FixtureDefinition struct {
	PageName string
	URLKey   string
	resolver *fixture.Resolver
}

// NewFixtureDefinition creates a fixture-backed definition.
func NewFixtureDefinition(resolver *fixture.Resolver, page, urlKey string) *FixtureDefinition {
	return &FixtureDefinition{PageName: page, URLKey: urlKey, resolver: resolver}
}

func (d *FixtureDefinition) Name() string { return d.PageName }

func (d *FixtureDefinition) URL() (string, error) {
	return d.resolver.URL(d.PageName, d.URLKey)
}

func (d *FixtureDefinition) Selectors() (map[string]string, error) {
	return d.resolver.Selectors(d.PageName)
}

// NewDefinition picks the provider for a logical page once, at construction.
// The fixture wins whenever the page fixture carries a selectors mapping;
// static falls back otherwise. A missing fixture file also selects static.
// When static is nil the fixture is mandatory and its load error is returned.
func NewDefinition(resolver *fixture.Resolver, page, urlKey string, static *StaticDefinition) (Definition, error) {
	if resolver != nil {
		has, err := resolver.Has(page, "selectors")
		switch {
		case err == nil && has:
			return NewFixtureDefinition(resolver, page, urlKey), nil
		case err != nil && static == nil:
			return nil, err
		case err != nil && !isFixtureMissing(err):
			return nil, err
		}
	}
	if static == nil {
		if resolver == nil {
			return nil, fmt.Errorf("page %q has neither a fixture resolver nor a static definition", page)
		}
		return NewFixtureDefinition(resolver, page, urlKey), nil
	}
	return static, nil
}

func isFixtureMissing(err error) bool {
	var missing *domain.FixtureNotFoundError
	return errors.As(err, &missing)
}
