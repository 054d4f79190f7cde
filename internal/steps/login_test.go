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

var _ = Describe("Login steps", func() {
	var (
		r    *steps.Registry
		w    *steps.World
		shop *drivertest.Shop
	)

	BeforeEach(func() {
		r = steps.NewDefaultRegistry()
		w, shop = newWorld()
	})

	It("should open the login page and assert its title", func() {
		Expect(run(r, w, "I am on the login page")).To(Succeed())
		Expect(shop.Did("visit /login")).To(BeTrue())
		Expect(w.Context.Get("login_page_title_actual")).To(Equal("Sign in"))
		Expect(w.Context.Get("login_page_title_expected")).To(Equal("Sign in"))
	})

	It("should use the passwordless flow for a user with a null password", func() {
		Expect(run(r, w, "I have valid login credentials")).To(Succeed())
		Expect(run(r, w, "I login with valid credentials")).To(Succeed())

		user, err := testcontext.Value[domain.UserRecord](w.Context, testcontext.KeyCurrentUser)
		Expect(err).ToNot(HaveOccurred())
		Expect(user.ID).To(Equal("csra"))
		Expect(user.Password).To(BeNil())

		Expect(shop.Did("type " + drivertest.UsernameInput + " csra")).To(BeTrue())
		Expect(shop.Actions).ToNot(ContainElement(HavePrefix("type " + drivertest.PasswordInput)))
		Expect(shop.Did("click " + drivertest.LoginButton)).To(BeTrue())

		Expect(run(r, w, "I should be successfully logged in")).To(Succeed())
	})

	It("should log in by id and reach the dashboard", func() {
		Expect(run(r, w, `I login with user id "admin" and no password`)).To(Succeed())
		Expect(shop.Did("type " + drivertest.PasswordInput + " s3cret")).To(BeTrue())
		Expect(run(r, w, "I should see the dashboard")).To(Succeed())
		Expect(w.Context.AssertStoredValues("dashboard_title")).To(Succeed())
	})

	It("should fail before touching the browser for an unknown user id", func() {
		err := run(r, w, `I login with user id "nonexistent" and no password`)
		var notFound *domain.RecordNotFoundError
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(notFound.Kind).To(Equal("user"))
		Expect(err.Error()).To(ContainSubstring(`"nonexistent"`))
		Expect(shop.Actions).To(BeEmpty())
		Expect(w.Context.Has(testcontext.KeyCurrentUser)).To(BeFalse())
	})

	It("should compare the login error with the fixture message", func() {
		Expect(run(r, w, "I have invalid login credentials")).To(Succeed())
		Expect(run(r, w, "I login with invalid credentials")).To(Succeed())
		Expect(run(r, w, "I should see an error message")).To(Succeed())
		Expect(w.Context.Get("error_message_actual")).To(Equal("Invalid username or password"))
	})

	It("should surface a mismatching error message", func() {
		drivertest.LoginErrors["ghost"] = "Server unavailable"
		DeferCleanup(func() { drivertest.LoginErrors["ghost"] = "Invalid username or password" })

		Expect(run(r, w, "I have invalid login credentials")).To(Succeed())
		Expect(run(r, w, "I login with invalid credentials")).To(Succeed())
		err := run(r, w, "I should see an error message")
		var mismatch *domain.AssertionMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Expected).To(Equal("Invalid username or password"))
		Expect(mismatch.Actual).To(Equal("Server unavailable"))
	})

	It("should require credentials to be loaded first", func() {
		err := run(r, w, "I login with valid credentials")
		Expect(testcontext.IsKeyMissing(err)).To(BeTrue())
	})
})
