package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the loaded fixture tree for one logical page. It is shared by
// every caller of Store.Load and must be treated as read-only.
type Document struct {
	Page     string
	Location string
	root     map[string]any
}

// Root returns a copy of the top-level mapping, so callers cannot change the
// cached fixture.
func (d *Document) Root() map[string]any {
	return copyNode(d.root).(map[string]any)
}

// copyNode deep-copies the maps and lists of a decoded fixture. Scalars are
// immutable and returned as is.
func copyNode(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = copyNode(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = copyNode(child)
		}
		return out
	default:
		return v
	}
}

// Store loads page fixtures from a Source and caches them by page name.
type Store struct {
	source Source
	log    *logrus.Logger

	mu    sync.RWMutex
	cache map[string]*Document
	group singleflight.Group
}

// NewStore creates a Store reading from source.
func NewStore(source Source, log *logrus.Logger) *Store {
	return &Store{
		source: source,
		log:    log,
		cache:  make(map[string]*Document),
	}
}

// Load returns the fixture for page. The first call reads the source; later
// calls return the same *Document without I/O.
func (s *Store) Load(page string) (*Document, error) {
	s.mu.RLock()
	doc, ok := s.cache[page]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	v, err, _ := s.group.Do(page, func() (any, error) {
		s.mu.RLock()
		cached, ok := s.cache[page]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := s.read(page)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[page] = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

// ClearCache drops every cached document. Only tests should need this.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]*Document)
	s.mu.Unlock()
}

// Cached reports whether page is already in the cache.
func (s *Store) Cached(page string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[page]
	return ok
}

func (s *Store) read(page string) (*Document, error) {
	data, location, format, err := s.source.Read(page)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.FixtureNotFoundError{Page: page, Path: location, Cause: err}
		}
		return nil, domain.NewError("fixture", location, 0, fmt.Sprintf("failed to read fixture for page %q", page), err)
	}

	root, err := decode(data, format)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("fixture", location, 0,
			fmt.Sprintf("failed to parse fixture for page %q", page),
			"fixture files must contain a single top-level object",
			err)
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{"page": page, "location": location}).Debug("Loaded page fixture")
	}
	return &Document{Page: page, Location: location, root: root}, nil
}

// decode parses JSON or YAML into a map tree. YAML is normalized through JSON
// so both formats produce the same node types (map[string]any, []any,
// float64, string, bool, nil).
func decode(data []byte, format string) (map[string]any, error) {
	if format == "yaml" {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		normalized, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		data = normalized
	}

	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New("fixture is empty")
	}
	return root, nil
}
