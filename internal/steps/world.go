package steps

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/assertion"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/pages"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// World is the state shared by the steps of a run. The context store is
// cleared between scenarios; page objects and the fixture cache survive.
type World struct {
	Resolver *fixture.Resolver
	Context  *testcontext.Store
	Assert   *assertion.Helper
	Driver   driver.Driver
	Log      *logrus.Logger
	Now      func() time.Time

	mu        sync.Mutex
	login     *pages.LoginPage
	dashboard *pages.DashboardPage
	order     *pages.OrderPage
	common    *pages.CommonPage
	orders    map[string]bool
}

// NewWorld wires a World around a driver and a fixture resolver.
func NewWorld(resolver *fixture.Resolver, store *testcontext.Store, drv driver.Driver, log *logrus.Logger) *World {
	return &World{
		Resolver: resolver,
		Context:  store,
		Assert:   assertion.NewHelper(store),
		Driver:   drv,
		Log:      log,
		Now:      time.Now,
		orders:   make(map[string]bool),
	}
}

// Timestamp returns the current time formatted for context entries.
func (w *World) Timestamp() string {
	return w.Now().UTC().Format(time.RFC3339Nano)
}

func (w *World) LoginPage() (*pages.LoginPage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.login == nil {
		p, err := pages.NewLoginPage(w.Resolver, w.Driver, w.Context, w.Log)
		if err != nil {
			return nil, err
		}
		w.login = p
	}
	return w.login, nil
}

func (w *World) DashboardPage() (*pages.DashboardPage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dashboard == nil {
		p, err := pages.NewDashboardPage(w.Resolver, w.Driver, w.Context, w.Log)
		if err != nil {
			return nil, err
		}
		w.dashboard = p
	}
	return w.dashboard, nil
}

func (w *World) OrderPage() (*pages.OrderPage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.order == nil {
		p, err := pages.NewOrderPage(w.Resolver, w.Driver, w.Context, w.Log)
		if err != nil {
			return nil, err
		}
		p.SetClock(func() time.Time { return w.Now() })
		w.order = p
	}
	return w.order, nil
}

func (w *World) CommonPage() (*pages.CommonPage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.common == nil {
		p, err := pages.NewCommonPage(w.Resolver, w.Driver, w.Context, w.Log)
		if err != nil {
			return nil, err
		}
		w.common = p
	}
	return w.common, nil
}

// rememberOrder records an order number and reports whether it was new to
// this run.
func (w *World) rememberOrder(orderNumber string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.orders[orderNumber] {
		return false
	}
	w.orders[orderNumber] = true
	return true
}
