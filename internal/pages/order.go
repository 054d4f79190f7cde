package pages

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// ErrEmptyOrderNumber is returned when the confirmation shows no order number.
var ErrEmptyOrderNumber = errors.New("order confirmation shows an empty order number")

// OrderPage drives order placement and order history. It is always
// fixture-backed: products, order types and addresses live in the order
// fixture alongside its selectors.
type OrderPage struct {
	*Base
	resolver *fixture.Resolver
	now      func() time.Time
}

// NewOrderPage builds the order page from the order fixture.
func NewOrderPage(resolver *fixture.Resolver, drv driver.Driver, store *testcontext.Store, log *logrus.Logger) (*OrderPage, error) {
	def, err := NewDefinition(resolver, fixture.OrderPage, "placeOrderPage", nil)
	if err != nil {
		return nil, err
	}
	base, err := NewBase(def, drv, store, log)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Base: base, resolver: resolver, now: time.Now}, nil
}

// SetClock replaces the timestamp source.
func (p *OrderPage) SetClock(now func() time.Time) {
	p.now = now
}

func (p *OrderPage) NavigateToPlaceOrder(ctx context.Context) error {
	return p.Visit(ctx)
}

// SelectProduct picks a product by id and stores it as selected_product.
func (p *OrderPage) SelectProduct(ctx context.Context, productID string) error {
	product, err := p.resolver.ProductByID(productID)
	if err != nil {
		return err
	}
	p.store.Set(testcontext.KeySelectedProduct, product)
	return p.selectOption(ctx, "productSelect", productID)
}

// SetQuantity types the quantity and stores it as order_quantity.
func (p *OrderPage) SetQuantity(ctx context.Context, quantity int) error {
	p.store.Set(testcontext.KeyOrderQuantity, quantity)
	return p.ClearAndType(ctx, "quantityInput", strconv.Itoa(quantity))
}

// SelectOrderType picks an order type by id and stores it.
func (p *OrderPage) SelectOrderType(ctx context.Context, orderTypeID string) error {
	orderType, err := p.resolver.OrderTypeByID(orderTypeID)
	if err != nil {
		return err
	}
	p.store.Set(testcontext.KeySelectedOrderType, orderType)
	return p.selectOption(ctx, "orderTypeSelect", orderTypeID)
}

// SelectShippingAddress picks an address by id and stores it.
func (p *OrderPage) SelectShippingAddress(ctx context.Context, addressID string) error {
	address, err := p.resolver.ShippingAddressByID(addressID)
	if err != nil {
		return err
	}
	p.store.Set(testcontext.KeySelectedAddress, address)
	return p.selectOption(ctx, "shippingAddressSelect", addressID)
}

// PlaceOrder records the placement time and submits the order.
func (p *OrderPage) PlaceOrder(ctx context.Context) error {
	p.store.Set(testcontext.KeyOrderPlacedTimestamp, p.now().UTC().Format(time.RFC3339Nano))
	return p.Click(ctx, "placeOrderButton")
}

func (p *OrderPage) AssertConfirmationVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "orderConfirmation")
}

// ExtractOrderNumber reads the confirmed order number and stores it together
// with the complete order details assembled from earlier selections.
func (p *OrderPage) ExtractOrderNumber(ctx context.Context) (string, error) {
	text, err := p.Text(ctx, "orderNumber")
	if err != nil {
		return "", err
	}
	orderNumber := strings.TrimSpace(text)
	if orderNumber == "" {
		return "", ErrEmptyOrderNumber
	}
	p.store.Set(testcontext.KeyGeneratedOrderNumber, orderNumber)

	details, err := p.assembleOrderDetails(orderNumber)
	if err != nil {
		return "", err
	}
	p.store.Set(testcontext.KeyCompleteOrderDetails, details)

	p.log.WithFields(logrus.Fields{
		"order":    orderNumber,
		"total":    details.TotalAmount,
		"quantity": details.Quantity,
	}).Info("Order placed")
	return orderNumber, nil
}

func (p *OrderPage) assembleOrderDetails(orderNumber string) (domain.OrderDetails, error) {
	product, err := testcontext.Value[domain.ProductRecord](p.store, testcontext.KeySelectedProduct)
	if err != nil {
		return domain.OrderDetails{}, err
	}
	quantity, err := testcontext.Value[int](p.store, testcontext.KeyOrderQuantity)
	if err != nil {
		return domain.OrderDetails{}, err
	}
	orderType, err := testcontext.Value[domain.OrderTypeRecord](p.store, testcontext.KeySelectedOrderType)
	if err != nil {
		return domain.OrderDetails{}, err
	}
	address, err := testcontext.Value[domain.AddressRecord](p.store, testcontext.KeySelectedAddress)
	if err != nil {
		return domain.OrderDetails{}, err
	}
	timestamp, err := testcontext.Value[string](p.store, testcontext.KeyOrderPlacedTimestamp)
	if err != nil {
		return domain.OrderDetails{}, err
	}

	return domain.OrderDetails{
		OrderNumber:     orderNumber,
		Product:         product,
		Quantity:        quantity,
		OrderType:       orderType,
		ShippingAddress: address,
		Timestamp:       timestamp,
		TotalAmount:     TotalAmount(product, quantity),
	}, nil
}

// TotalAmount is price times quantity.
func TotalAmount(product domain.ProductRecord, quantity int) float64 {
	return product.Price * float64(quantity)
}

// CompleteOrderFlow selects everything, places the order, waits for the
// confirmation and returns the generated order number.
func (p *OrderPage) CompleteOrderFlow(ctx context.Context, productID string, quantity int, orderTypeID, addressID string) (string, error) {
	err := sequence(ctx,
		p.WaitForPageLoad,
		func(ctx context.Context) error { return p.SelectProduct(ctx, productID) },
		func(ctx context.Context) error { return p.SetQuantity(ctx, quantity) },
		func(ctx context.Context) error { return p.SelectOrderType(ctx, orderTypeID) },
		func(ctx context.Context) error { return p.SelectShippingAddress(ctx, addressID) },
		p.PlaceOrder,
		p.AssertConfirmationVisible,
	)
	if err != nil {
		return "", err
	}
	return p.ExtractOrderNumber(ctx)
}

// NavigateToOrderHistory opens urls.orderHistoryPage.
func (p *OrderPage) NavigateToOrderHistory(ctx context.Context) error {
	u, err := p.resolver.URL(fixture.OrderPage, "orderHistoryPage")
	if err != nil {
		return err
	}
	return p.drv.Visit(ctx, u)
}

// SearchOrder types the search criteria and stores it.
func (p *OrderPage) SearchOrder(ctx context.Context, criteria string) error {
	p.store.Set(testcontext.KeySearchCriteria, criteria)
	return p.ClearAndType(ctx, "searchOrderInput", criteria)
}

func (p *OrderPage) ClickSearchButton(ctx context.Context) error {
	return p.Click(ctx, "searchButton")
}

// VerifyOrderInResults fails unless the history table lists orderNumber.
func (p *OrderPage) VerifyOrderInResults(ctx context.Context, orderNumber string) error {
	p.store.Set("expected_order_number_in_results", orderNumber)
	return p.AssertContainsText(ctx, "orderHistoryTable", orderNumber)
}

// OrderStatus finds the history row for orderNumber and returns its status,
// also stored as order_status_<orderNumber>.
func (p *OrderPage) OrderStatus(ctx context.Context, orderNumber string) (string, error) {
	statusSel, err := p.Selector("orderStatus")
	if err != nil {
		return "", err
	}
	rows, err := p.Elements(ctx, "orderRow")
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		text, err := row.Text(ctx)
		if err != nil {
			return "", err
		}
		if !strings.Contains(text, orderNumber) {
			continue
		}
		cell, err := row.Get(ctx, statusSel)
		if err != nil {
			return "", err
		}
		status, err := cell.Text(ctx)
		if err != nil {
			return "", err
		}
		status = strings.TrimSpace(status)
		p.store.Set("order_status_"+orderNumber, status)
		return status, nil
	}
	return "", &domain.RecordNotFoundError{Kind: "order", ID: orderNumber, Page: "order history"}
}

// StoredOrderDetails returns complete_order_details.
func (p *OrderPage) StoredOrderDetails() (domain.OrderDetails, error) {
	return testcontext.Value[domain.OrderDetails](p.store, testcontext.KeyCompleteOrderDetails)
}

// StoredOrderNumber returns generated_order_number.
func (p *OrderPage) StoredOrderNumber() (string, error) {
	return testcontext.Value[string](p.store, testcontext.KeyGeneratedOrderNumber)
}

func (p *OrderPage) selectOption(ctx context.Context, name, value string) error {
	el, err := p.Element(ctx, name)
	if err != nil {
		return err
	}
	return el.Select(ctx, value)
}
