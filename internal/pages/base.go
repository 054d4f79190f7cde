package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

const bodySelector = "body"

// Base implements the primitives shared by every page object. URL and
// selectors are resolved once, when the page is constructed.
type Base struct {
	name      string
	url       string
	selectors map[string]string
	drv       driver.Driver
	store     *testcontext.Store
	log       *logrus.Logger
}

// NewBase resolves def and binds it to a driver and context store.
func NewBase(def Definition, drv driver.Driver, store *testcontext.Store, log *logrus.Logger) (*Base, error) {
	url, err := def.URL()
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", def.Name(), err)
	}
	selectors, err := def.Selectors()
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", def.Name(), err)
	}
	return &Base{
		name:      def.Name(),
		url:       url,
		selectors: selectors,
		drv:       drv,
		store:     store,
		log:       log,
	}, nil
}

// Name returns the logical page name.
func (p *Base) Name() string { return p.name }

// URL returns the page URL.
func (p *Base) URL() string { return p.url }

// Visit navigates to the page URL.
func (p *Base) Visit(ctx context.Context) error {
	p.log.WithFields(logrus.Fields{"page": p.name, "url": p.url}).Debug("Visiting page")
	return p.drv.Visit(ctx, p.url)
}

// WaitForPageLoad waits for the document body to be visible.
func (p *Base) WaitForPageLoad(ctx context.Context) error {
	body, err := p.drv.Get(ctx, bodySelector)
	if err != nil {
		return err
	}
	return body.AssertVisible(ctx)
}

// Selector returns the locator for a logical name.
func (p *Base) Selector(name string) (string, error) {
	sel, ok := p.selectors[name]
	if !ok || sel == "" {
		return "", &domain.SelectorNotFoundError{Page: p.name, Name: name}
	}
	return sel, nil
}

// Element finds the element behind a logical name.
func (p *Base) Element(ctx context.Context, name string) (driver.Element, error) {
	sel, err := p.Selector(name)
	if err != nil {
		return nil, err
	}
	el, err := p.drv.Get(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("page %q element %q: %w", p.name, name, err)
	}
	return el, nil
}

// Elements finds every element behind a logical name.
func (p *Base) Elements(ctx context.Context, name string) ([]driver.Element, error) {
	sel, err := p.Selector(name)
	if err != nil {
		return nil, err
	}
	return p.drv.GetAll(ctx, sel)
}

// Click clicks the named element.
func (p *Base) Click(ctx context.Context, name string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

// Type types text into the named element.
func (p *Base) Type(ctx context.Context, name, text string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.Type(ctx, text)
}

// ClearAndType clears the named element, then types text.
func (p *Base) ClearAndType(ctx context.Context, name, text string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return err
	}
	return el.Type(ctx, text)
}

// AssertVisible fails unless the named element is visible.
func (p *Base) AssertVisible(ctx context.Context, name string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.AssertVisible(ctx)
}

// AssertContainsText fails unless the named element contains text.
func (p *Base) AssertContainsText(ctx context.Context, name, text string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.AssertContainsText(ctx, text)
}

// Text returns the text of the named element.
func (p *Base) Text(ctx context.Context, name string) (string, error) {
	el, err := p.Element(ctx, name)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

// WaitForElement waits up to timeout for the named element to be visible.
func (p *Base) WaitForElement(ctx context.Context, name string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return p.AssertVisible(ctx, name)
}

// Screenshot captures the current viewport.
func (p *Base) Screenshot(ctx context.Context) ([]byte, error) {
	return p.drv.Screenshot(ctx)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
