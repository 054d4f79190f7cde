package testcontext_test

import (
	"errors"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

var _ = Describe("Store", func() {
	var store *testcontext.Store

	BeforeEach(func() {
		store = testcontext.New(nil)
	})

	Describe("Get", func() {
		It("should fail for a key that was never set", func() {
			_, err := store.Get("current_user")
			var missing *domain.ContextKeyMissingError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Key).To(Equal("current_user"))
			Expect(testcontext.IsKeyMissing(err)).To(BeTrue())
		})

		It("should return exactly what was set", func() {
			user := &domain.UserRecord{ID: "csra"}
			store.Set(testcontext.KeyCurrentUser, user)
			v, err := store.Get(testcontext.KeyCurrentUser)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(BeIdenticalTo(user))
		})

		It("should keep explicit nil values", func() {
			store.Set("maybe", nil)
			Expect(store.Has("maybe")).To(BeTrue())
			v, err := store.Get("maybe")
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(BeNil())
		})

		It("should overwrite on Set", func() {
			store.Set("k", 1)
			store.Set("k", 2)
			Expect(store.Get("k")).To(Equal(2))
		})
	})

	Describe("GetOrDefault", func() {
		It("should fall back only when the key is absent", func() {
			Expect(store.GetOrDefault("k", "def")).To(Equal("def"))
			store.Set("k", "")
			Expect(store.GetOrDefault("k", "def")).To(Equal(""))
		})
	})

	Describe("ClearAll", func() {
		It("should remove every entry and assertion", func() {
			store.SetMultiple(map[string]any{"a": 1, "b": "two"})
			store.StoreForAssertion("status", "Shipped", "Shipped")
			Expect(store.AssertStoredValues("status")).To(Succeed())

			store.ClearAll()

			for _, k := range []string{"a", "b", "status_actual", "status_expected"} {
				Expect(store.Has(k)).To(BeFalse(), k)
			}
			Expect(store.Len()).To(BeZero())
			Expect(store.Assertions()).To(BeEmpty())
		})
	})

	Describe("introspection", func() {
		It("should list keys sorted and copy entries", func() {
			store.Set("b", 2)
			store.Set("a", 1)
			Expect(store.Keys()).To(Equal([]string{"a", "b"}))

			all := store.All()
			all["c"] = 3
			Expect(store.Has("c")).To(BeFalse())

			store.Delete("a")
			Expect(store.Keys()).To(Equal([]string{"b"}))
		})

		It("should namespace helper keys", func() {
			store.StoreUserData("csra", "profile")
			store.StoreFormData("login", "form")
			store.StoreAPIResponse("orders", 201)
			Expect(store.Keys()).To(Equal([]string{"api_orders", "form_login", "user_csra"}))
			Expect(store.UserData("csra")).To(Equal("profile"))
			Expect(store.FormData("login")).To(Equal("form"))
			Expect(store.APIResponse("orders")).To(Equal(201))
		})
	})

	Describe("AssertStoredValues", func() {
		It("should pass when both sides are strictly equal", func() {
			store.StoreForAssertion("qty", 2, 2)
			Expect(store.AssertStoredValues("qty")).To(Succeed())
			Expect(store.Assertions()).To(ConsistOf(testcontext.AssertionRecord{Key: "qty", Actual: 2, Expected: 2, Passed: true}))
		})

		It("should fail with both sides on mismatch", func() {
			store.StoreForAssertion("order_status", "Shipped", "Delivered")
			err := store.AssertStoredValues("order_status")
			var mismatch *domain.AssertionMismatchError
			Expect(errors.As(err, &mismatch)).To(BeTrue())
			Expect(mismatch.Expected).To(Equal("Delivered"))
			Expect(mismatch.Actual).To(Equal("Shipped"))
			Expect(store.Assertions()[0].Passed).To(BeFalse())
		})

		It("should not coerce types", func() {
			store.StoreForAssertion("qty", "2", 2)
			Expect(store.AssertStoredValues("qty")).ToNot(Succeed())
		})

		It("should fail when a side is missing", func() {
			store.Set("lonely_actual", 1)
			err := store.AssertStoredValues("lonely")
			Expect(testcontext.IsKeyMissing(err)).To(BeTrue())
			Expect(store.Assertions()).To(BeEmpty())
		})
	})

	Describe("Value", func() {
		It("should return the typed value", func() {
			store.Set("qty", 3)
			n, err := testcontext.Value[int](store, "qty")
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(3))
		})

		It("should report a type mismatch", func() {
			store.Set("qty", "3")
			_, err := testcontext.Value[int](store, "qty")
			var mismatch *testcontext.TypeMismatchError
			Expect(errors.As(err, &mismatch)).To(BeTrue())
			Expect(mismatch.Want).To(Equal("int"))
		})
	})

	It("should be safe for concurrent use", func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("k%d", i)
				store.Set(key, i)
				_, _ = store.Get(key)
				_ = store.Keys()
			}(i)
		}
		wg.Wait()
		Expect(store.Len()).To(Equal(20))
	})
})

var _ = DescribeTable("StrictEqual",
	func(a, b any, want bool) {
		Expect(testcontext.StrictEqual(a, b)).To(Equal(want))
	},
	Entry("equal strings", "a", "a", true),
	Entry("different strings", "a", "b", false),
	Entry("int and float", 2, 2.0, false),
	Entry("int and string", 2, "2", false),
	Entry("int and int64", 2, int64(2), false),
	Entry("both nil", nil, nil, true),
	Entry("nil and empty string", nil, "", false),
	Entry("equal structs", domain.ProductRecord{ID: "P"}, domain.ProductRecord{ID: "P"}, true),
	Entry("distinct maps with equal content", map[string]int{"a": 1}, map[string]int{"a": 1}, false),
	Entry("distinct slices with equal content", []int{1}, []int{1}, false),
)

var _ = Describe("StrictEqual by reference", func() {
	It("should treat the same map or slice as equal", func() {
		m := map[string]int{"a": 1}
		s := []string{"x"}
		Expect(testcontext.StrictEqual(m, m)).To(BeTrue())
		Expect(testcontext.StrictEqual(s, s)).To(BeTrue())
	})

	It("should treat pointers by identity", func() {
		a, b := &domain.UserRecord{ID: "x"}, &domain.UserRecord{ID: "x"}
		Expect(testcontext.StrictEqual(a, a)).To(BeTrue())
		Expect(testcontext.StrictEqual(a, b)).To(BeFalse())
	})

	It("should not panic on structs holding slices", func() {
		type bag struct{ Items []int }
		Expect(testcontext.StrictEqual(bag{}, bag{})).To(BeFalse())
	})
})
