// Package engines selects a browser engine by name.
package engines

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver/cdpdriver"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver/roddriver"
)

// LaunchFunc starts a browser and returns a driver for it.
type LaunchFunc func(ctx context.Context, opts driver.Options, log *logrus.Logger) (driver.Driver, error)

var launchers = map[string]LaunchFunc{
	"rod": func(ctx context.Context, opts driver.Options, log *logrus.Logger) (driver.Driver, error) {
		return roddriver.Launch(ctx, opts, log)
	},
	"chromedp": func(ctx context.Context, opts driver.Options, log *logrus.Logger) (driver.Driver, error) {
		return cdpdriver.Launch(ctx, opts, log)
	},
}

// Names returns the supported engine names.
func Names() []string {
	names := make([]string, 0, len(launchers))
	for name := range launchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Launch starts the named engine.
func Launch(ctx context.Context, name string, opts driver.Options, log *logrus.Logger) (driver.Driver, error) {
	launch, ok := launchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown browser engine %q (available: %v)", name, Names())
	}
	return launch(ctx, opts, log)
}
