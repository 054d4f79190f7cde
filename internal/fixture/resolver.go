package fixture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Resolver resolves dotted data paths inside page fixtures.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks path (e.g. "timeouts.retryAttempts.network") from the root of
// the page fixture. Every segment must name a key of a mapping. Mappings and
// lists are returned as copies.
func (r *Resolver) Resolve(page, path string) (any, error) {
	doc, err := r.store.Load(page)
	if err != nil {
		return nil, err
	}

	var node any = doc.root
	for _, segment := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, &domain.DataPathNotFoundError{Page: page, Path: path, Segment: segment}
		}
		next, ok := m[segment]
		if !ok {
			return nil, &domain.DataPathNotFoundError{Page: page, Path: path, Segment: segment}
		}
		node = next
	}
	return copyNode(node), nil
}

// Has reports whether path resolves. Fixture load errors are returned.
func (r *Resolver) Has(page, path string) (bool, error) {
	_, err := r.Resolve(page, path)
	if err == nil {
		return true, nil
	}
	var notFound *domain.DataPathNotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}

// Decode resolves path and decodes the node into out.
func (r *Resolver) Decode(page, path string, out any) error {
	node, err := r.Resolve(page, path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return &domain.DataTypeError{Page: page, Path: path, Expected: fmt.Sprintf("%T", out), Got: node}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.DataTypeError{Page: page, Path: path, Expected: fmt.Sprintf("%T", out), Got: node}
	}
	return nil
}

// String resolves path and requires a string.
func (r *Resolver) String(page, path string) (string, error) {
	node, err := r.Resolve(page, path)
	if err != nil {
		return "", err
	}
	s, ok := node.(string)
	if !ok {
		return "", &domain.DataTypeError{Page: page, Path: path, Expected: "string", Got: node}
	}
	return s, nil
}

// URL returns urls.<name> for page.
func (r *Resolver) URL(page, name string) (string, error) {
	return r.String(page, "urls."+name)
}

// ExpectedText returns expectedTexts.<name> for page.
func (r *Resolver) ExpectedText(page, name string) (string, error) {
	return r.String(page, "expectedTexts."+name)
}

// Selector returns selectors.<name> for page.
func (r *Resolver) Selector(page, name string) (string, error) {
	return r.String(page, "selectors."+name)
}

// Selectors returns the whole selectors mapping for page.
func (r *Resolver) Selectors(page string) (map[string]string, error) {
	node, err := r.Resolve(page, "selectors")
	if err != nil {
		return nil, err
	}
	m, ok := node.(map[string]any)
	if !ok {
		return nil, &domain.DataTypeError{Page: page, Path: "selectors", Expected: "mapping", Got: node}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, &domain.DataTypeError{Page: page, Path: "selectors." + k, Expected: "string", Got: v}
		}
		out[k] = s
	}
	return out, nil
}

// Timeout returns timeouts.<name> (milliseconds in the fixture) as a duration.
// name may itself be dotted, e.g. "retryAttempts.network".
func (r *Resolver) Timeout(page, name string) (time.Duration, error) {
	path := "timeouts." + name
	node, err := r.Resolve(page, path)
	if err != nil {
		return 0, err
	}
	ms, ok := node.(float64)
	if !ok || ms < 0 || ms != float64(int64(ms)) {
		return 0, &domain.DataTypeError{Page: page, Path: path, Expected: "non-negative integer milliseconds", Got: node}
	}
	return time.Duration(ms) * time.Millisecond, nil
}
