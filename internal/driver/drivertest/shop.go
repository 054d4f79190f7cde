package drivertest

import (
	"fmt"

	"github.com/fjglira/GoE2E-PageFlow/internal/pages"
)

// Selectors used by the shop fixtures under testdata/fixtures.
const (
	UsernameInput   = "#username"
	PasswordInput   = "#password"
	LoginButton     = "#login-button"
	LoginError      = ".error-message"
	LoginTitle      = "h1.page-title"
	ProductSelect   = "#product"
	QuantityInput   = "#quantity"
	OrderTypeSelect = "#order-type"
	AddressSelect   = "#shipping-address"
	PlaceOrder      = "#place-order"
	Confirmation    = ".order-confirmation"
	OrderNumber     = ".order-number"
	SearchInput     = "#order-search"
	SearchButton    = "#search-button"
	HistoryTable    = "#order-history"
	HistoryRow      = "#order-history tr.order"
	StatusCell      = "td.status"
)

// LoginErrors maps user ids to the message the shop shows on failed login.
var LoginErrors = map[string]string{
	"ghost":  "Invalid username or password",
	"locked": "Account is locked",
}

// Shop scripts a small storefront matching testdata/fixtures: a login form,
// a dashboard, the order form with history, and the shared widgets. Order
// numbers are ORD-1001, ORD-1002 and so on; every order has status Status.
type Shop struct {
	*Driver
	Status string
	next   int
}

// NewShop returns a Shop with every page present.
func NewShop() *Shop {
	s := &Shop{Driver: New(), Status: "Processing", next: 1000}
	s.AddText("body", "")
	s.addLogin()
	s.addDashboard()
	s.addOrder()
	s.addCommon()
	return s
}

func (s *Shop) addLogin() {
	username := s.Add(UsernameInput, &Element{})
	s.Add(PasswordInput, &Element{})
	s.AddText(LoginTitle, " Sign in ")
	errBox := s.Add(LoginError, &Element{Hidden: true})
	welcome := s.dashboardElement("welcomeMessage")

	s.Add(LoginButton, &Element{OnClick: func(d *Driver) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if msg, bad := LoginErrors[username.Value]; bad {
			errBox.Hidden = false
			errBox.Content = msg
			return
		}
		welcome.Content = "Welcome, " + username.Value
	}})
}

func (s *Shop) dashboardElement(name string) *Element {
	sel := pages.DashboardStatic.SelectorMap[name]
	if el := s.Element(sel); el != nil {
		return el
	}
	return s.Add(sel, &Element{})
}

func (s *Shop) addDashboard() {
	s.dashboardElement("dashboardTitle").Content = "Dashboard"
	s.dashboardElement("welcomeMessage")
	s.dashboardElement("navigationMenu").Content = "Home Orders Profile"
	s.dashboardElement("userProfile")
	s.dashboardElement("quickActions")
	s.dashboardElement("logoutButton")
}

func (s *Shop) addOrder() {
	for _, sel := range []string{ProductSelect, OrderTypeSelect, AddressSelect, QuantityInput, SearchInput, SearchButton} {
		s.Add(sel, &Element{})
	}
	confirmation := s.Add(Confirmation, &Element{Hidden: true, Content: "Thank you for your order"})
	number := s.Add(OrderNumber, &Element{})
	history := s.Add(HistoryTable, &Element{})

	s.Add(PlaceOrder, &Element{OnClick: func(d *Driver) {
		d.mu.Lock()
		s.next++
		orderNumber := fmt.Sprintf("ORD-%d", s.next)
		confirmation.Hidden = false
		number.Content = " " + orderNumber + " "
		history.Content += orderNumber + " "
		status := s.Status
		d.mu.Unlock()

		d.Add(HistoryRow, &Element{
			Content: orderNumber + " " + status,
			Children: map[string][]*Element{
				StatusCell: {{Content: status}},
			},
		})
	}})
}

func (s *Shop) addCommon() {
	sel := pages.CommonStatic.SelectorMap
	s.AddText(sel["notification"], "Saved successfully")
	s.AddText(sel["modal"], "Are you sure?")
	s.Add(sel["closeButton"], &Element{})
	s.Add(sel["confirmButton"], &Element{})
	s.Add(sel["cancelButton"], &Element{})
}

// Element returns the first element registered under selector.
func (d *Driver) Element(selector string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if els := d.elements[selector]; len(els) > 0 {
		return els[0]
	}
	return nil
}
