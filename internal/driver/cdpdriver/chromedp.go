// Package cdpdriver implements driver.Driver on top of chromedp.
package cdpdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
)

const (
	selectOptionJS = `function(v) { this.value = v; this.dispatchEvent(new Event('change', {bubbles: true})); }`
	hoverJS        = `function() { this.dispatchEvent(new MouseEvent('mouseover', {bubbles: true})); }`
)

// Driver owns one chromedp browser context.
type Driver struct {
	browserCtx  context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        driver.Options
	log         *logrus.Logger
}

// Launch starts a local Chrome through an exec allocator.
func Launch(ctx context.Context, opts driver.Options, log *logrus.Logger) (*Driver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}
	if opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.Bin))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser.
	startCtx, stop := bind(browserCtx, ctx)
	defer stop()
	if err := chromedp.Run(startCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	log.WithFields(logrus.Fields{"engine": "chromedp", "headless": opts.Headless}).Info("Browser launched")
	return &Driver{
		browserCtx:  browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		log:         log,
	}, nil
}

// bind derives a context from the browser context that also ends when the
// caller's ctx ends.
func bind(browserCtx, caller context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(browserCtx)
	if dl, ok := caller.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, dl)
		prev := cancel
		cancel = func() { cancelDeadline(); prev() }
	}
	stopAfter := context.AfterFunc(caller, cancel)
	return runCtx, func() {
		stopAfter()
		cancel()
	}
}

func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, stop := bind(d.browserCtx, ctx)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (d *Driver) Visit(ctx context.Context, target string) error {
	u, err := driver.ResolveURL(d.opts.BaseURL, target)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", target, err)
	}
	d.log.WithField("url", u).Debug("Navigating")
	if err := d.run(ctx, chromedp.Navigate(u)); err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, selector string) (driver.Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("find %q: no element", selector)
	}
	return &element{d: d, node: nodes[0], selector: selector}, nil
}

func (d *Driver) GetAll(ctx context.Context, selector string) ([]driver.Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("find all %q: %w", selector, err)
	}
	out := make([]driver.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &element{d: d, node: n, selector: selector})
	}
	return out, nil
}

func (d *Driver) WaitGone(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.WaitNotPresent(selector, chromedp.ByQuery))
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := d.run(ctx, chromedp.Location(&u))
	return u, err
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	var t string
	err := d.run(ctx, chromedp.Title(&t))
	return t, err
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := d.run(ctx, chromedp.FullScreenshot(&buf, 90))
	return buf, err
}

func (d *Driver) Close() error {
	d.cancel()
	d.allocCancel()
	return nil
}

type element struct {
	d        *Driver
	node     *cdp.Node
	selector string
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) Click(ctx context.Context) error {
	if err := e.d.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("click %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.d.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("type into %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	if err := e.d.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("clear %q: %w", e.selector, err)
	}
	return nil
}

func (e *element) Select(ctx context.Context, value string) error {
	err := e.d.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return chromedp.CallFunctionOnNode(c, e.node, selectOptionJS, nil, value)
	}))
	if err != nil {
		return fmt.Errorf("select %q in %q: %w", value, e.selector, err)
	}
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	var s string
	err := e.d.run(ctx, chromedp.Text(e.ids(), &s, chromedp.ByNodeID))
	return s, err
}

func (e *element) AssertVisible(ctx context.Context) error {
	if err := e.d.run(ctx, chromedp.WaitVisible(e.ids(), chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("%q: %w: %v", e.selector, driver.ErrNotVisible, err)
	}
	return nil
}

func (e *element) AssertContainsText(ctx context.Context, text string) error {
	return driver.Poll(ctx, e.d.opts.PollInterval, func() (bool, error) {
		got, err := e.Text(ctx)
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
	return e.d.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return chromedp.CallFunctionOnNode(c, e.node, hoverJS, nil)
	}))
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.d.run(ctx, chromedp.ScrollIntoView(e.ids(), chromedp.ByNodeID))
}

func (e *element) Get(ctx context.Context, selector string) (driver.Element, error) {
	var nodes []*cdp.Node
	if err := e.d.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.FromNode(e.node))); err != nil {
		return nil, fmt.Errorf("find %q inside %q: %w", selector, e.selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("find %q inside %q: no element", selector, e.selector)
	}
	return &element{d: e.d, node: nodes[0], selector: selector}, nil
}
