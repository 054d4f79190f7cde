// Package drivertest provides a scripted in-memory driver for tests.
package drivertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
)

// Element is a scripted DOM element.
type Element struct {
	Selector string
	Content  string
	Hidden   bool
	Value    string
	Selected string
	Children map[string][]*Element
	// OnClick runs after the click is recorded, e.g. to reveal another element.
	OnClick func(d *Driver)

	d *Driver
}

// Driver is an in-memory driver.Driver. Elements are registered per selector;
// every interaction is appended to Actions.
type Driver struct {
	mu       sync.Mutex
	elements map[string][]*Element
	URL      string
	PageName string
	Actions  []string
	Closed   bool
	// Fail maps an action prefix (e.g. "click button") to an error to return.
	Fail map[string]error
}

// New creates an empty Driver.
func New() *Driver {
	return &Driver{
		elements: make(map[string][]*Element),
		Fail:     make(map[string]error),
	}
}

// Add registers an element under selector and returns it.
func (d *Driver) Add(selector string, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.Selector = selector
	el.d = d
	for _, children := range el.Children {
		for _, c := range children {
			c.d = d
		}
	}
	d.elements[selector] = append(d.elements[selector], el)
	return el
}

// AddText is shorthand for a visible element with text.
func (d *Driver) AddText(selector, text string) *Element {
	return d.Add(selector, &Element{Content: text})
}

// Remove drops every element under selector.
func (d *Driver) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
}

// Did reports whether action was recorded.
func (d *Driver) Did(action string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (d *Driver) record(action string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for prefix, err := range d.Fail {
		if strings.HasPrefix(action, prefix) {
			return err
		}
	}
	d.Actions = append(d.Actions, action)
	return nil
}

func (d *Driver) Visit(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.record("visit " + url); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.URL = url
	// Navigation resets form state.
	for _, els := range d.elements {
		for _, el := range els {
			el.Value = ""
			el.Selected = ""
		}
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, selector string) (driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	els := d.elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return els[0], nil
}

func (d *Driver) GetAll(ctx context.Context, selector string) ([]driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]driver.Element, 0, len(d.elements[selector]))
	for _, el := range d.elements[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) WaitGone(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.elements[selector]) > 0 {
		return fmt.Errorf("element %q is still present", selector)
	}
	return nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.PageName, nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("fake-png"), nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.d.record("click " + e.Selector); err != nil {
		return err
	}
	if e.OnClick != nil {
		e.OnClick(e.d)
	}
	return nil
}

func (e *Element) Type(ctx context.Context, text string) error {
	if err := e.d.record("type " + e.Selector + " " + text); err != nil {
		return err
	}
	e.d.mu.Lock()
	e.Value += text
	e.d.mu.Unlock()
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.d.record("clear " + e.Selector); err != nil {
		return err
	}
	e.d.mu.Lock()
	e.Value = ""
	e.d.mu.Unlock()
	return nil
}

func (e *Element) Select(ctx context.Context, value string) error {
	if err := e.d.record("select " + e.Selector + " " + value); err != nil {
		return err
	}
	e.d.mu.Lock()
	e.Selected = value
	e.d.mu.Unlock()
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.Content, nil
}

func (e *Element) AssertVisible(ctx context.Context) error {
	if e.Hidden {
		return fmt.Errorf("%q: %w", e.Selector, driver.ErrNotVisible)
	}
	return nil
}

func (e *Element) AssertContainsText(ctx context.Context, text string) error {
	if !strings.Contains(e.Content, text) {
		return fmt.Errorf("%q has text %q, want %q: %w", e.Selector, e.Content, text, driver.ErrTextMismatch)
	}
	return nil
}

func (e *Element) Hover(ctx context.Context) error {
	return e.d.record("hover " + e.Selector)
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.d.record("scroll " + e.Selector)
}

func (e *Element) Get(ctx context.Context, selector string) (driver.Element, error) {
	children := e.Children[selector]
	if len(children) == 0 {
		return nil, fmt.Errorf("no element matches %q inside %q", selector, e.Selector)
	}
	c := children[0]
	c.Selector = selector
	c.d = e.d
	return c, nil
}
