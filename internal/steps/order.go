package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// Order table fields shared by the table-driven steps.
const (
	fieldProductID       = "Product ID"
	fieldQuantity        = "Quantity"
	fieldOrderType       = "Order Type"
	fieldShippingAddress = "Shipping Address"
)

// ErrDuplicateOrderNumber is returned when the site reuses an order number
// within one run.
var ErrDuplicateOrderNumber = errors.New("order number was already issued in this run")

// RegisterOrderSteps adds the order placement and history steps.
func RegisterOrderSteps(r *Registry) {
	r.MustRegister("I am on the place order page", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.NavigateToPlaceOrder(ctx); err != nil {
			return err
		}
		c.World.Context.Set("page_load_timestamp", c.World.Timestamp())
		return nil
	})
	r.MustRegister("I place an order with the following details:", placeOrderFromTable)
	r.MustRegister("I should see order confirmation", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.AssertConfirmationVisible(ctx); err != nil {
			return err
		}
		c.World.Context.Set("confirmation_timestamp", c.World.Timestamp())
		return nil
	})
	r.MustRegister("I should get a unique order number", uniqueOrderNumber)
	r.MustRegister("I navigate to order history", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.NavigateToOrderHistory(ctx); err != nil {
			return err
		}
		c.World.Context.Set("history_navigation_timestamp", c.World.Timestamp())
		return nil
	})
	r.MustRegister("I search for the generated order number", searchGeneratedOrder)
	r.MustRegister("I should see the order in search results", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		orderNumber, err := page.StoredOrderNumber()
		if err != nil {
			return err
		}
		if err := page.VerifyOrderInResults(ctx, orderNumber); err != nil {
			return err
		}
		c.World.Context.Set("verification_timestamp", c.World.Timestamp())
		return nil
	})
	r.MustRegister("the order status should be {string}", orderStatusShouldBe)

	r.MustRegister("I select product {string}", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.SelectProduct(ctx, c.String(0)); err != nil {
			return err
		}
		product, err := testcontext.Value[domain.ProductRecord](c.World.Context, testcontext.KeySelectedProduct)
		if err != nil {
			return err
		}
		return expectStored(testcontext.KeySelectedProduct, product.ID, c.String(0))
	})
	r.MustRegister("I set quantity to {int}", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.SetQuantity(ctx, c.Int(0)); err != nil {
			return err
		}
		quantity, err := testcontext.Value[int](c.World.Context, testcontext.KeyOrderQuantity)
		if err != nil {
			return err
		}
		return expectStored(testcontext.KeyOrderQuantity, quantity, c.Int(0))
	})
	r.MustRegister("I select order type {string}", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.SelectOrderType(ctx, c.String(0)); err != nil {
			return err
		}
		orderType, err := testcontext.Value[domain.OrderTypeRecord](c.World.Context, testcontext.KeySelectedOrderType)
		if err != nil {
			return err
		}
		return expectStored(testcontext.KeySelectedOrderType, orderType.ID, c.String(0))
	})
	r.MustRegister("I select shipping address {string}", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.SelectShippingAddress(ctx, c.String(0)); err != nil {
			return err
		}
		address, err := testcontext.Value[domain.AddressRecord](c.World.Context, testcontext.KeySelectedAddress)
		if err != nil {
			return err
		}
		return expectStored(testcontext.KeySelectedAddress, address.ID, c.String(0))
	})
	r.MustRegister("the stored order details should contain:", storedDetailsContain)
	r.MustRegister("I place the order", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		if err := page.PlaceOrder(ctx); err != nil {
			return err
		}
		c.World.Context.Set("order_placement_timestamp", c.World.Timestamp())
		return nil
	})
	r.MustRegister("I extract the order number", func(ctx context.Context, c *Call) error {
		page, err := c.World.OrderPage()
		if err != nil {
			return err
		}
		orderNumber, err := page.ExtractOrderNumber(ctx)
		if err != nil {
			return err
		}
		c.World.Context.Set("extracted_order_number", orderNumber)
		return nil
	})
	r.MustRegister("the complete order details should be stored", completeDetailsStored)
	r.MustRegister("I can retrieve the order number for later use", retrieveOrderNumber)
}

func placeOrderFromTable(ctx context.Context, c *Call) error {
	if c.Table == nil {
		return fmt.Errorf("step needs a data table with %s, %s, %s and %s",
			fieldProductID, fieldQuantity, fieldOrderType, fieldShippingAddress)
	}
	data := c.Table.RowsHash()
	c.World.Context.Set("order_data_table", data)

	quantity, err := strconv.Atoi(strings.TrimSpace(data[fieldQuantity]))
	if err != nil {
		return fmt.Errorf("order table %s %q: %w", fieldQuantity, data[fieldQuantity], err)
	}

	page, err := c.World.OrderPage()
	if err != nil {
		return err
	}
	orderNumber, err := page.CompleteOrderFlow(ctx, data[fieldProductID], quantity, data[fieldOrderType], data[fieldShippingAddress])
	if err != nil {
		return err
	}
	c.World.Log.WithField("order", orderNumber).Debug("Order flow completed")
	return nil
}

func uniqueOrderNumber(ctx context.Context, c *Call) error {
	orderNumber, err := testcontext.Value[string](c.World.Context, testcontext.KeyGeneratedOrderNumber)
	if err != nil {
		return err
	}
	if orderNumber == "" {
		return fmt.Errorf("%s is empty", testcontext.KeyGeneratedOrderNumber)
	}
	if !c.World.rememberOrder(orderNumber) {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, orderNumber)
	}
	c.World.Context.Set("order_number_for_verification", orderNumber)
	return nil
}

func searchGeneratedOrder(ctx context.Context, c *Call) error {
	page, err := c.World.OrderPage()
	if err != nil {
		return err
	}
	orderNumber, err := page.StoredOrderNumber()
	if err != nil {
		return err
	}
	if err := page.SearchOrder(ctx, orderNumber); err != nil {
		return err
	}
	if err := page.ClickSearchButton(ctx); err != nil {
		return err
	}
	c.World.Context.Set("search_timestamp", c.World.Timestamp())
	return nil
}

func orderStatusShouldBe(ctx context.Context, c *Call) error {
	page, err := c.World.OrderPage()
	if err != nil {
		return err
	}
	orderNumber, err := page.StoredOrderNumber()
	if err != nil {
		return err
	}
	actual, err := page.OrderStatus(ctx, orderNumber)
	if err != nil {
		return err
	}
	return c.World.Assert.AssertAndStore("order_status", actual, c.String(0))
}

// storedDetailsContain compares each table row with the matching context
// entry, in table order.
func storedDetailsContain(ctx context.Context, c *Call) error {
	if c.Table == nil {
		return errors.New("step needs a data table")
	}
	for _, row := range c.Table.Rows {
		if len(row) < 2 {
			continue
		}
		field, expected := row[0], row[1]
		actual, err := storedField(c.World.Context, field)
		if err != nil {
			return err
		}
		key := "order_field_" + strings.ReplaceAll(strings.ToLower(field), " ", "_")
		if err := c.World.Assert.AssertAndStore(key, actual, expected); err != nil {
			return err
		}
	}
	return nil
}

func storedField(store *testcontext.Store, field string) (string, error) {
	switch field {
	case fieldProductID:
		v, err := testcontext.Value[domain.ProductRecord](store, testcontext.KeySelectedProduct)
		return v.ID, err
	case fieldQuantity:
		v, err := testcontext.Value[int](store, testcontext.KeyOrderQuantity)
		return strconv.Itoa(v), err
	case fieldOrderType:
		v, err := testcontext.Value[domain.OrderTypeRecord](store, testcontext.KeySelectedOrderType)
		return v.ID, err
	case fieldShippingAddress:
		v, err := testcontext.Value[domain.AddressRecord](store, testcontext.KeySelectedAddress)
		return v.ID, err
	default:
		return "", fmt.Errorf("unknown order field %q", field)
	}
}

func completeDetailsStored(ctx context.Context, c *Call) error {
	page, err := c.World.OrderPage()
	if err != nil {
		return err
	}
	details, err := page.StoredOrderDetails()
	if err != nil {
		return err
	}
	var missing []string
	if details.OrderNumber == "" {
		missing = append(missing, "orderNumber")
	}
	if details.Product.ID == "" {
		missing = append(missing, "product")
	}
	if details.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if details.OrderType.ID == "" {
		missing = append(missing, "orderType")
	}
	if details.ShippingAddress.ID == "" {
		missing = append(missing, "shippingAddress")
	}
	if details.Timestamp == "" {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is missing %s", testcontext.KeyCompleteOrderDetails, strings.Join(missing, ", "))
	}
	c.World.Context.Set("verified_order_details", details)
	return nil
}

func retrieveOrderNumber(ctx context.Context, c *Call) error {
	generated, err := testcontext.Value[string](c.World.Context, testcontext.KeyGeneratedOrderNumber)
	if err != nil {
		return err
	}
	extracted, err := testcontext.Value[string](c.World.Context, "extracted_order_number")
	if err != nil {
		return err
	}
	if err := c.World.Assert.AssertAndStore("retrieved_order_number", generated, extracted); err != nil {
		return err
	}
	c.World.Context.SetMultiple(map[string]any{
		"order_number_for_api_call":           generated,
		"order_number_for_database_query":     generated,
		"order_number_for_email_verification": generated,
	})
	return nil
}

func expectStored[T comparable](key string, actual, expected T) error {
	if actual != expected {
		return &domain.AssertionMismatchError{Key: key, Expected: expected, Actual: actual}
	}
	return nil
}
