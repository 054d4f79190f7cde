// Package driver defines the seam between page objects and a browser
// automation engine. Every call blocks until the action has visibly completed
// or ctx is done.
package driver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrNotVisible is returned by AssertVisible for a hidden element.
var ErrNotVisible = errors.New("element is not visible")

// ErrTextMismatch is returned by AssertContainsText when the text is absent.
var ErrTextMismatch = errors.New("element does not contain expected text")

// Driver is the browser-level capability set.
type Driver interface {
	// Visit navigates to url (relative urls resolve against the base URL)
	// and waits for the load event.
	Visit(ctx context.Context, url string) error
	// Get waits for the first element matching selector.
	Get(ctx context.Context, selector string) (Element, error)
	// GetAll returns every element currently matching selector.
	GetAll(ctx context.Context, selector string) ([]Element, error)
	// WaitGone waits until no element matches selector.
	WaitGone(ctx context.Context, selector string) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Element is a handle on one DOM element.
type Element interface {
	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	// Select chooses the <option> with the given value.
	Select(ctx context.Context, value string) error
	Text(ctx context.Context) (string, error)
	AssertVisible(ctx context.Context) error
	AssertContainsText(ctx context.Context, text string) error
	Hover(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
	// Get finds a descendant element.
	Get(ctx context.Context, selector string) (Element, error)
}

// ResolveURL resolves target against base. Absolute targets and an empty base
// are returned unchanged.
func ResolveURL(base, target string) (string, error) {
	if base == "" {
		return target, nil
	}
	t, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if t.IsAbs() {
		return target, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(t).String(), nil
}

// Options configures a browser engine.
type Options struct {
	BaseURL  string
	Headless bool
	Width    int
	Height   int
	// Bin is the browser executable; empty means auto-detect.
	Bin string
	// PollInterval paces WaitGone and AssertContainsText retries.
	PollInterval time.Duration
}

// Poll calls check every interval until it reports done, returns an error,
// or ctx ends. On ctx end the last check error (if any) is wrapped.
func Poll(ctx context.Context, interval time.Duration, check func() (bool, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		done, err := check()
		if done {
			return err
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("%w: %v", ctx.Err(), err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
