package steps_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/steps"
)

var _ = Describe("Registry", func() {
	var (
		r    *steps.Registry
		seen []any
	)

	record := func(ctx context.Context, c *steps.Call) error {
		seen = c.Args
		return nil
	}

	BeforeEach(func() {
		r = steps.NewRegistry()
		seen = nil
	})

	It("should convert typed placeholders", func() {
		Expect(r.Register("I buy {int} of {string} at {float} from {word}", record)).To(Succeed())
		def, args, err := r.Match(`I buy 3 of "Wireless Mouse" at 29.99 from shop-1`)
		Expect(err).ToNot(HaveOccurred())
		Expect(def.Pattern).To(Equal("I buy {int} of {string} at {float} from {word}"))
		Expect(args).To(Equal([]any{3, "Wireless Mouse", 29.99, "shop-1"}))
	})

	It("should treat regexp metacharacters in patterns literally", func() {
		Expect(r.Register("I place an order with the following details:", record)).To(Succeed())
		Expect(r.Register("the total is {float}?", record)).To(Succeed())

		_, _, err := r.Match("I place an order with the following details:")
		Expect(err).ToNot(HaveOccurred())
		_, args, err := r.Match("the total is 59.98?")
		Expect(err).ToNot(HaveOccurred())
		Expect(args).To(Equal([]any{59.98}))
	})

	It("should support optional text and alternatives", func() {
		Expect(r.Register("I have {int} item(s) in my cart/basket", record)).To(Succeed())
		for _, text := range []string{"I have 1 item in my cart", "I have 2 items in my basket"} {
			_, _, err := r.Match(text)
			Expect(err).ToNot(HaveOccurred(), text)
		}
	})

	It("should accept single-quoted strings", func() {
		Expect(r.Register("I select product {string}", record)).To(Succeed())
		_, args, err := r.Match("I select product 'PROD001'")
		Expect(err).ToNot(HaveOccurred())
		Expect(args).To(Equal([]any{"PROD001"}))
	})

	It("should reject invalid expressions", func() {
		Expect(r.Register("I pick {colour}", record)).To(MatchError(ContainSubstring("invalid step pattern")))
	})

	It("should anchor patterns to the whole step", func() {
		Expect(r.Register("I log out", record)).To(Succeed())
		_, _, err := r.Match("I log out now")
		var undefined *steps.UndefinedStepError
		Expect(errors.As(err, &undefined)).To(BeTrue())
		Expect(undefined.Text).To(Equal("I log out now"))
	})

	It("should report ambiguous steps", func() {
		Expect(r.Register("I open {string}", record)).To(Succeed())
		Expect(r.Register("I open {word}", record)).To(Succeed())
		_, _, err := r.Match(`I open "menu"`)
		var ambiguous *steps.AmbiguousStepError
		Expect(errors.As(err, &ambiguous)).To(BeTrue())
		Expect(ambiguous.Patterns).To(ConsistOf("I open {string}", "I open {word}"))
	})

	It("should reject duplicate patterns", func() {
		Expect(r.Register("I log out", record)).To(Succeed())
		Expect(r.Register("I log out", record)).To(MatchError(ContainSubstring("registered twice")))
	})

	It("should pass doc strings to the handler through Run", func() {
		var body string
		r.MustRegister("the request body is", func(ctx context.Context, c *steps.Call) error {
			body = c.DocString
			return nil
		})
		w, _ := newWorld()
		step := domain.Step{Keyword: "Given", Text: "the request body is", DocString: "{\"id\": 1}"}
		Expect(r.Run(context.Background(), w, step)).To(Succeed())
		Expect(body).To(Equal(`{"id": 1}`))
	})

	It("should pass tables and args to the handler through Run", func() {
		r.MustRegister("I set quantity to {int}", record)
		w, _ := newWorld()
		Expect(run(r, w, "I set quantity to 7")).To(Succeed())
		Expect(seen).To(Equal([]any{7}))
	})

	It("should keep built-in patterns unambiguous", func() {
		builtin := steps.NewDefaultRegistry()
		patterns := builtin.Patterns()
		Expect(patterns).To(ContainElement("I login with user id {string} and no password"))
		for _, text := range []string{
			"I am on the login page",
			`I login with user id "csra" and no password`,
			"I login with valid credentials",
			"I login with invalid credentials",
			"I am on the place order page",
			`I select product "PROD001"`,
			`I select order type "STANDARD"`,
			`I select shipping address "ADDR001"`,
			"I set quantity to 2",
			`the order status should be "Processing"`,
			"I close the modal",
		} {
			_, _, err := builtin.Match(text)
			Expect(err).ToNot(HaveOccurred(), text)
		}
	})
})
