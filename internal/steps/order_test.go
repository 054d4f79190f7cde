package steps_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver/drivertest"
	"github.com/fjglira/GoE2E-PageFlow/internal/steps"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

var orderTable = [][]string{
	{"Product ID", "PROD001"},
	{"Quantity", "2"},
	{"Order Type", "STANDARD"},
	{"Shipping Address", "ADDR001"},
}

var _ = Describe("Order steps", func() {
	var (
		r    *steps.Registry
		w    *steps.World
		shop *drivertest.Shop
	)

	BeforeEach(func() {
		r = steps.NewDefaultRegistry()
		w, shop = newWorld()
		Expect(run(r, w, "I am on the place order page")).To(Succeed())
	})

	It("should navigate to the fixture URL and stamp the load time", func() {
		Expect(shop.Did("visit /orders/new")).To(BeTrue())
		Expect(w.Context.Get("page_load_timestamp")).To(Equal("2026-03-14T09:26:53Z"))
	})

	It("should place a table-driven order and find it in history", func() {
		Expect(run(r, w, "I place an order with the following details:", orderTable...)).To(Succeed())
		Expect(run(r, w, "I should see order confirmation")).To(Succeed())
		Expect(run(r, w, "I should get a unique order number")).To(Succeed())
		Expect(run(r, w, "I navigate to order history")).To(Succeed())
		Expect(run(r, w, "I search for the generated order number")).To(Succeed())
		Expect(run(r, w, "I should see the order in search results")).To(Succeed())
		Expect(run(r, w, `the order status should be "Processing"`)).To(Succeed())

		Expect(shop.Did("visit /orders")).To(BeTrue())
		Expect(shop.Did("type " + drivertest.SearchInput + " ORD-1001")).To(BeTrue())

		details, err := testcontext.Value[domain.OrderDetails](w.Context, testcontext.KeyCompleteOrderDetails)
		Expect(err).ToNot(HaveOccurred())
		Expect(details.TotalAmount).To(Equal(59.98))
		Expect(details.OrderNumber).To(Equal("ORD-1001"))
	})

	It("should fail the status check with both values", func() {
		shop.Status = "Shipped"
		Expect(run(r, w, "I place an order with the following details:", orderTable...)).To(Succeed())
		err := run(r, w, `the order status should be "Delivered"`)
		var mismatch *domain.AssertionMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Key).To(Equal("order_status"))
		Expect(mismatch.Expected).To(Equal("Delivered"))
		Expect(mismatch.Actual).To(Equal("Shipped"))
	})

	It("should reject a reused order number within a run", func() {
		Expect(run(r, w, "I place an order with the following details:", orderTable...)).To(Succeed())
		Expect(run(r, w, "I should get a unique order number")).To(Succeed())
		Expect(run(r, w, "I should get a unique order number")).To(MatchError(steps.ErrDuplicateOrderNumber))
	})

	It("should reject a non-numeric quantity", func() {
		err := run(r, w, "I place an order with the following details:",
			[]string{"Product ID", "PROD001"}, []string{"Quantity", "two"})
		Expect(err).To(MatchError(ContainSubstring(`Quantity "two"`)))
	})

	It("should keep individual selections in the context", func() {
		Expect(run(r, w, `I select product "PROD002"`)).To(Succeed())
		Expect(run(r, w, "I set quantity to 3")).To(Succeed())
		Expect(run(r, w, `I select order type "EXPRESS"`)).To(Succeed())
		Expect(run(r, w, `I select shipping address "ADDR002"`)).To(Succeed())
		Expect(run(r, w, "the stored order details should contain:",
			[]string{"Product ID", "PROD002"},
			[]string{"Quantity", "3"},
			[]string{"Order Type", "EXPRESS"},
			[]string{"Shipping Address", "ADDR002"},
		)).To(Succeed())
		Expect(w.Context.Get("order_field_quantity_actual")).To(Equal("3"))
		Expect(shop.Element(drivertest.ProductSelect).Selected).To(Equal("PROD002"))
	})

	It("should flag a stored field that differs from the table", func() {
		Expect(run(r, w, `I select product "PROD002"`)).To(Succeed())
		err := run(r, w, "the stored order details should contain:", []string{"Product ID", "PROD001"})
		var mismatch *domain.AssertionMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Key).To(Equal("order_field_product_id"))
	})

	It("should reject unknown fields and unknown records", func() {
		Expect(run(r, w, "the stored order details should contain:", []string{"Colour", "red"})).
			To(MatchError(ContainSubstring(`unknown order field "Colour"`)))

		var notFound *domain.RecordNotFoundError
		Expect(errors.As(run(r, w, `I select product "PROD999"`), &notFound)).To(BeTrue())
	})

	It("should extract and retrieve the order number step by step", func() {
		Expect(run(r, w, `I select product "PROD001"`)).To(Succeed())
		Expect(run(r, w, "I set quantity to 1")).To(Succeed())
		Expect(run(r, w, `I select order type "EXPRESS"`)).To(Succeed())
		Expect(run(r, w, `I select shipping address "ADDR002"`)).To(Succeed())
		Expect(run(r, w, "I place the order")).To(Succeed())
		Expect(run(r, w, "I extract the order number")).To(Succeed())
		Expect(run(r, w, "the complete order details should be stored")).To(Succeed())
		Expect(run(r, w, "I can retrieve the order number for later use")).To(Succeed())
		Expect(w.Context.Get("order_number_for_email_verification")).To(Equal("ORD-1001"))
	})

	It("should report missing details before an order is placed", func() {
		err := run(r, w, "the complete order details should be stored")
		Expect(testcontext.IsKeyMissing(err)).To(BeTrue())
	})
})

var _ = Describe("Common steps", func() {
	var (
		r    *steps.Registry
		w    *steps.World
		shop *drivertest.Shop
	)

	BeforeEach(func() {
		r = steps.NewDefaultRegistry()
		w, shop = newWorld()
	})

	It("should check notifications and dismiss modals", func() {
		Expect(run(r, w, `I should see a notification containing "Saved"`)).To(Succeed())
		Expect(run(r, w, "I should see a modal")).To(Succeed())
		Expect(run(r, w, "I close the modal")).To(Succeed())
		Expect(shop.Actions).To(ContainElement(HavePrefix("click .close")))
	})

	It("should fail while the spinner is still present", func() {
		shop.AddText(`.loading, .spinner, [data-testid="loading"]`, "")
		Expect(run(r, w, "I wait for loading to complete")).To(HaveOccurred())
	})

	It("should hover and scroll named elements", func() {
		Expect(run(r, w, "I hover over the modal element")).To(Succeed())
		Expect(run(r, w, "I scroll to the notification element")).To(Succeed())
		Expect(shop.Actions).To(ContainElements(HavePrefix("hover .modal"), HavePrefix("scroll .notification")))
	})
})
