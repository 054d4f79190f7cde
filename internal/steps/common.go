package steps

import (
	"context"
	"time"
)

// RegisterCommonSteps adds steps for widgets shared by every page.
func RegisterCommonSteps(r *Registry) {
	r.MustRegister("I wait for loading to complete", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.WaitForLoadingToComplete(ctx)
	})
	r.MustRegister("I should see a notification containing {string}", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		if err := page.AssertNotificationVisible(ctx); err != nil {
			return err
		}
		return page.VerifyNotificationText(ctx, c.String(0))
	})
	r.MustRegister("I should see a modal", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.AssertModalVisible(ctx)
	})
	r.MustRegister("I close the modal", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.CloseModal(ctx)
	})
	r.MustRegister("I confirm the action", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.ConfirmAction(ctx)
	})
	r.MustRegister("I cancel the action", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.CancelAction(ctx)
	})
	r.MustRegister("the {word} element should contain {string} within {int} seconds", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.WaitForElementText(ctx, c.String(0), c.String(1), time.Duration(c.Int(2))*time.Second)
	})
	r.MustRegister("I scroll to the {word} element", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.ScrollToElement(ctx, c.String(0))
	})
	r.MustRegister("I hover over the {word} element", func(ctx context.Context, c *Call) error {
		page, err := c.World.CommonPage()
		if err != nil {
			return err
		}
		return page.HoverOverElement(ctx, c.String(0))
	})
}

// NewDefaultRegistry returns a registry holding every built-in step.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterLoginSteps(r)
	RegisterOrderSteps(r)
	RegisterCommonSteps(r)
	return r
}
