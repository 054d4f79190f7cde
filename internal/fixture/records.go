package fixture

import (
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Logical pages that carry domain records.
const (
	LoginPage = "login"
	OrderPage = "order"
)

// ValidUsers returns login.validUsers.
func (r *Resolver) ValidUsers() ([]domain.UserRecord, error) {
	var users []domain.UserRecord
	if err := r.Decode(LoginPage, "validUsers", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// InvalidUsers returns login.invalidUsers.
func (r *Resolver) InvalidUsers() ([]domain.UserRecord, error) {
	var users []domain.UserRecord
	if err := r.Decode(LoginPage, "invalidUsers", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByID searches valid then invalid users. A miss is reported through ok,
// not through err, so callers can branch on absence; err is reserved for
// fixture problems.
func (r *Resolver) UserByID(id string) (user domain.UserRecord, ok bool, err error) {
	valid, err := r.ValidUsers()
	if err != nil {
		return domain.UserRecord{}, false, err
	}
	invalid, err := r.InvalidUsers()
	if err != nil {
		return domain.UserRecord{}, false, err
	}
	for _, u := range append(valid, invalid...) {
		if u.ID == id {
			return u, true, nil
		}
	}
	return domain.UserRecord{}, false, nil
}

// Products returns order.products.
func (r *Resolver) Products() ([]domain.ProductRecord, error) {
	var products []domain.ProductRecord
	if err := r.Decode(OrderPage, "products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID returns the product with id or a RecordNotFoundError.
func (r *Resolver) ProductByID(id string) (domain.ProductRecord, error) {
	products, err := r.Products()
	if err != nil {
		return domain.ProductRecord{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.ProductRecord{}, &domain.RecordNotFoundError{Kind: "product", ID: id, Page: OrderPage}
}

// OrderTypes returns order.orderTypes.
func (r *Resolver) OrderTypes() ([]domain.OrderTypeRecord, error) {
	var types []domain.OrderTypeRecord
	if err := r.Decode(OrderPage, "orderTypes", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// OrderTypeByID returns the order type with id or a RecordNotFoundError.
func (r *Resolver) OrderTypeByID(id string) (domain.OrderTypeRecord, error) {
	types, err := r.OrderTypes()
	if err != nil {
		return domain.OrderTypeRecord{}, err
	}
	for _, t := range types {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.OrderTypeRecord{}, &domain.RecordNotFoundError{Kind: "order type", ID: id, Page: OrderPage}
}

// ShippingAddresses returns order.shippingAddresses.
func (r *Resolver) ShippingAddresses() ([]domain.AddressRecord, error) {
	var addresses []domain.AddressRecord
	if err := r.Decode(OrderPage, "shippingAddresses", &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// ShippingAddressByID returns the address with id or a RecordNotFoundError.
func (r *Resolver) ShippingAddressByID(id string) (domain.AddressRecord, error) {
	addresses, err := r.ShippingAddresses()
	if err != nil {
		return domain.AddressRecord{}, err
	}
	for _, a := range addresses {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.AddressRecord{}, &domain.RecordNotFoundError{Kind: "shipping address", ID: id, Page: OrderPage}
}
