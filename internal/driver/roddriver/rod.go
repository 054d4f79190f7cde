// Package roddriver implements driver.Driver on top of go-rod.
package roddriver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
)

// Driver wraps a rod browser and its single working page.
type Driver struct {
	launcher process
	browser  io.Closer
	page     *rod.Page
	opts    driver.Options
	log     *logrus.Logger
}

// process is the part of *launcher.Launcher that owns the Chromium process.
type process interface {
	Kill()
	Cleanup()
}

// Launch starts a local Chromium and opens a blank page.
func Launch(ctx context.Context, opts driver.Options, log *logrus.Logger) (*Driver, error) {
	l := launcher.New().Context(ctx).Headless(opts.Headless)
	bin := opts.Bin
	if bin == "" {
		if path, ok := launcher.LookPath(); ok {
			bin = path
		}
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	d := &Driver{launcher: l, browser: browser, opts: opts, log: log}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	d.page = page

	if opts.Width > 0 && opts.Height > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		}); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"engine": "rod", "headless": opts.Headless, "bin": bin}).Info("Browser launched")
	return d, nil
}

func (d *Driver) Visit(ctx context.Context, target string) error {
	u, err := driver.ResolveURL(d.opts.BaseURL, target)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", target, err)
	}
	d.log.WithField("url", u).Debug("Navigating")

	p := d.page.Context(ctx)
	if err := p.Navigate(u); err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load of %s: %w", u, err)
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, selector string) (driver.Element, error) {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	return &element{el: el, selector: selector, opts: d.opts}, nil
}

func (d *Driver) GetAll(ctx context.Context, selector string) ([]driver.Element, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("find all %q: %w", selector, err)
	}
	out := make([]driver.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el, selector: selector, opts: d.opts})
	}
	return out, nil
}

func (d *Driver) WaitGone(ctx context.Context, selector string) error {
	p := d.page.Context(ctx)
	return driver.Poll(ctx, d.opts.PollInterval, func() (bool, error) {
		has, _, err := p.Has(selector)
		if err != nil {
			return true, err
		}
		if has {
			return false, fmt.Errorf("element %q is still present", selector)
		}
		return true, nil
	})
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(true, nil)
}

// Close shuts the browser down and removes the launcher's profile directory.
func (d *Driver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.launcher != nil {
		if err != nil {
			d.launcher.Kill()
		}
		d.launcher.Cleanup()
	}
	return err
}

type element struct {
	el       *rod.Element
	selector string
	opts     driver.Options
}

func (e *element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.el.Context(ctx).Input(text); err != nil {
		return fmt.Errorf("type into %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clear %q: %w", e.selector, err)
	}
	if err := el.Input(""); err != nil {
		return fmt.Errorf("clear %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Select(ctx context.Context, value string) error {
	sel := fmt.Sprintf(`option[value=%q]`, value)
	if err := e.el.Context(ctx).Select([]string{sel}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("select %q in %q: %w", value, e.selector, err)
	}
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *element) AssertVisible(ctx context.Context) error {
	if err := e.el.Context(ctx).WaitVisible(); err != nil {
		return fmt.Errorf("%q: %w: %v", e.selector, driver.ErrNotVisible, err)
	}
	return nil
}

func (e *element) AssertContainsText(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	return driver.Poll(ctx, e.opts.PollInterval, func() (bool, error) {
		got, err := el.Text()
		if err != nil {
			return true, err
		}
		if strings.Contains(got, text) {
			return true, nil
		}
		return false, fmt.Errorf("%q has text %q, want %q: %w", e.selector, got, text, driver.ErrTextMismatch)
	})
}

func (e *element) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.el.Context(ctx).ScrollIntoView()
}

func (e *element) Get(ctx context.Context, selector string) (driver.Element, error) {
	child, err := e.el.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q inside %q: %w", selector, e.selector, err)
	}
	return &element{el: child, selector: selector, opts: e.opts}, nil
}
