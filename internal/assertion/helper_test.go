package assertion_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/assertion"
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

var _ = Describe("Helper", func() {
	var (
		store  *testcontext.Store
		helper *assertion.Helper
	)

	BeforeEach(func() {
		store = testcontext.New(nil)
		helper = assertion.NewHelper(store)
	})

	It("should keep both sides of a failed comparison", func() {
		err := helper.AssertAndStore("order_status", "Shipped", "Delivered")
		var mismatch *domain.AssertionMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Key).To(Equal("order_status"))
		Expect(mismatch.Expected).To(Equal("Delivered"))
		Expect(mismatch.Actual).To(Equal("Shipped"))

		Expect(store.Actual("order_status")).To(Equal("Shipped"))
		Expect(store.Expected("order_status")).To(Equal("Delivered"))
	})

	It("should allow storing now and asserting later", func() {
		helper.StoreForAssertion("total", 59.98, 59.98)
		Expect(store.Assertions()).To(BeEmpty())
		Expect(helper.AssertStoredValues("total")).To(Succeed())
	})

	It("should render a diff for composite values", func() {
		err := helper.AssertObjectProperty("order", "address",
			domain.AddressRecord{ID: "ADDR001", City: "Springfield"},
			domain.AddressRecord{ID: "ADDR002", City: "Springfield"})
		Expect(err).To(MatchError(ContainSubstring("ADDR002")))
		Expect(err.Error()).To(ContainSubstring("-"))
	})

	DescribeTable("key namespaces",
		func(assert func(*assertion.Helper) error, key string) {
			Expect(assert(helper)).To(Succeed())
			Expect(store.Has(key + testcontext.ActualSuffix)).To(BeTrue())
			Expect(store.Has(key + testcontext.ExpectedSuffix)).To(BeTrue())
		},
		Entry("page title", func(h *assertion.Helper) error { return h.AssertPageTitle("login_page", "Sign in", "Sign in") }, "login_page_title"),
		Entry("form field", func(h *assertion.Helper) error { return h.AssertFormField("quantity", "2", "2") }, "form_quantity"),
		Entry("user data", func(h *assertion.Helper) error { return h.AssertUserData("csra", "csra", "csra") }, "user_csra"),
		Entry("api response", func(h *assertion.Helper) error { return h.AssertAPIResponse("orders", 201, 201) }, "api_orders"),
		Entry("element text", func(h *assertion.Helper) error { return h.AssertElementText("welcome", "Hi", "Hi") }, "element_welcome"),
		Entry("element count", func(h *assertion.Helper) error { return h.AssertElementCount("rows", 3, 3) }, "count_rows"),
		Entry("url", func(h *assertion.Helper) error { return h.AssertURL("/orders", "/orders") }, "current_url"),
		Entry("boolean", func(h *assertion.Helper) error { return h.AssertBoolean("visible", true, true) }, "bool_visible"),
		Entry("array length", func(h *assertion.Helper) error { return h.AssertArrayLength("items", []string{"a", "b"}, 2) }, "array_length_items"),
		Entry("object property", func(h *assertion.Helper) error { return h.AssertObjectProperty("order", "qty", 2, 2) }, "obj_order_qty"),
	)

	It("should compare counts as integers", func() {
		Expect(helper.AssertElementCount("rows", 3, 4)).ToNot(Succeed())
		Expect(store.Actual("count_rows")).To(Equal(3))
	})

	It("should reject a non-list for array length", func() {
		err := helper.AssertArrayLength("items", "abc", 3)
		Expect(err).To(MatchError(ContainSubstring("not a slice or array")))
		Expect(store.Has("array_length_items_actual")).To(BeFalse())
	})
})
