package pages

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// CommonPageName is the logical name of the shared widgets fixture.
const CommonPageName = "common"

// CommonStatic is the in-code definition of widgets present on every page.
var CommonStatic = &StaticDefinition{
	PageName: CommonPageName,
	PageURL:  "/",
	SelectorMap: map[string]string{
		"loadingSpinner": `.loading, .spinner, [data-testid="loading"]`,
		"notification":   `.notification, .toast, [data-testid="notification"]`,
		"modal":          `.modal, .dialog, [data-testid="modal"]`,
		"closeButton":    `.close, .close-btn, [data-testid="close"]`,
		"confirmButton":  `.confirm, .ok-btn, [data-testid="confirm"]`,
		"cancelButton":   `.cancel, .cancel-btn, [data-testid="cancel"]`,
	},
}

// CommonPage drives widgets shared across pages: spinners, toasts, modals.
type CommonPage struct {
	*Base
}

// NewCommonPage builds the common page from its fixture or CommonStatic.
func NewCommonPage(resolver *fixture.Resolver, drv driver.Driver, store *testcontext.Store, log *logrus.Logger) (*CommonPage, error) {
	def, err := NewDefinition(resolver, CommonPageName, "home", CommonStatic)
	if err != nil {
		return nil, err
	}
	base, err := NewBase(def, drv, store, log)
	if err != nil {
		return nil, err
	}
	return &CommonPage{Base: base}, nil
}

// WaitForLoadingToComplete waits until no loading spinner is present.
func (p *CommonPage) WaitForLoadingToComplete(ctx context.Context) error {
	sel, err := p.Selector("loadingSpinner")
	if err != nil {
		return err
	}
	return p.drv.WaitGone(ctx, sel)
}

func (p *CommonPage) AssertNotificationVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "notification")
}

func (p *CommonPage) VerifyNotificationText(ctx context.Context, expected string) error {
	return p.AssertContainsText(ctx, "notification", expected)
}

func (p *CommonPage) AssertModalVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "modal")
}

func (p *CommonPage) CloseModal(ctx context.Context) error {
	return p.Click(ctx, "closeButton")
}

func (p *CommonPage) ConfirmAction(ctx context.Context) error {
	return p.Click(ctx, "confirmButton")
}

func (p *CommonPage) CancelAction(ctx context.Context) error {
	return p.Click(ctx, "cancelButton")
}

// WaitForElementText waits up to timeout for the named element to contain text.
func (p *CommonPage) WaitForElementText(ctx context.Context, name, text string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return p.AssertContainsText(ctx, name, text)
}

func (p *CommonPage) ScrollToElement(ctx context.Context, name string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.ScrollIntoView(ctx)
}

func (p *CommonPage) HoverOverElement(ctx context.Context, name string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.Hover(ctx)
}
