package testcontext

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Reserved key suffixes written by StoreForAssertion.
const (
	ActualSuffix   = "_actual"
	ExpectedSuffix = "_expected"
)

// AssertionRecord is one evaluated StoredValues comparison.
type AssertionRecord struct {
	Key      string
	Actual   any
	Expected any
	Passed   bool
}

// Store is the per-test key/value scratch space. One Store is reused for the
// whole run and wiped by ClearAll before every scenario.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]any
	assertions []AssertionRecord
	log        *logrus.Logger
}

// New creates an empty Store. log may be nil.
func New(log *logrus.Logger) *Store {
	return &Store{
		entries: make(map[string]any),
		log:     log,
	}
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
	s.debug("Context set", key)
}

// SetMultiple stores every entry of data.
func (s *Store) SetMultiple(data map[string]any) {
	for k, v := range data {
		s.Set(k, v)
	}
}

// Get returns the value for key or a ContextKeyMissingError if it was never
// set or has been cleared.
func (s *Store) Get(key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, &domain.ContextKeyMissingError{Key: key}
	}
	return v, nil
}

// GetOrDefault returns the value for key, or def when key is absent.
func (s *Store) GetOrDefault(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.entries[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is set.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Delete removes a single key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// ClearAll wipes every entry and the assertion history.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.entries = make(map[string]any)
	s.assertions = nil
	s.mu.Unlock()
	if s.log != nil {
		s.log.Debug("Context cleared")
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a shallow copy of every entry.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// StoreForAssertion writes key_actual and key_expected.
func (s *Store) StoreForAssertion(key string, actual, expected any) {
	s.Set(key+ActualSuffix, actual)
	s.Set(key+ExpectedSuffix, expected)
}

// Actual returns key_actual.
func (s *Store) Actual(key string) (any, error) {
	return s.Get(key + ActualSuffix)
}

// Expected returns key_expected.
func (s *Store) Expected(key string) (any, error) {
	return s.Get(key + ExpectedSuffix)
}

// AssertStoredValues compares key_actual with key_expected using strict
// equality and returns an AssertionMismatchError when they differ. Both
// entries must exist.
func (s *Store) AssertStoredValues(key string) error {
	actual, err := s.Actual(key)
	if err != nil {
		return err
	}
	expected, err := s.Expected(key)
	if err != nil {
		return err
	}

	passed := StrictEqual(actual, expected)
	s.mu.Lock()
	s.assertions = append(s.assertions, AssertionRecord{Key: key, Actual: actual, Expected: expected, Passed: passed})
	s.mu.Unlock()

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"key":      key,
			"actual":   actual,
			"expected": expected,
			"passed":   passed,
		}).Debug("Stored values asserted")
	}

	if !passed {
		return &domain.AssertionMismatchError{Key: key, Expected: expected, Actual: actual}
	}
	return nil
}

// Assertions returns the assertions evaluated since the last ClearAll.
func (s *Store) Assertions() []AssertionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AssertionRecord, len(s.assertions))
	copy(out, s.assertions)
	return out
}

// StrictEqual reports whether a and b have the same dynamic type and value.
// Maps, slices and funcs are never compared by content: they are equal only
// when they share the same backing reference.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Type().Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}

// Value returns the value for key converted to T.
func Value[T any](s *Store, key string) (T, error) {
	var zero T
	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Key: key, Want: reflect.TypeOf((*T)(nil)).Elem().String(), Got: v}
	}
	return t, nil
}

// TypeMismatchError is returned by Value when the stored value has another type.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("context key %q holds %T, not %s", e.Key, e.Got, e.Want)
}

// IsKeyMissing reports whether err is a ContextKeyMissingError.
func IsKeyMissing(err error) bool {
	var missing *domain.ContextKeyMissingError
	return errors.As(err, &missing)
}

func (s *Store) debug(msg, key string) {
	if s.log != nil {
		s.log.WithField("key", key).Debug(msg)
	}
}
