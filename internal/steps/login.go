package steps

import (
	"context"
	"errors"
	"strings"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/pages"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// ErrNoUsers is returned when a fixture user list is empty.
var ErrNoUsers = errors.New("fixture lists no users")

// RegisterLoginSteps adds the login and dashboard steps.
func RegisterLoginSteps(r *Registry) {
	r.MustRegister("I am on the login page", onLoginPage)
	r.MustRegister("I login with user id {string} and no password", loginWithUserID)
	r.MustRegister("I should see the dashboard", shouldSeeDashboard)
	r.MustRegister("I have valid login credentials", func(ctx context.Context, c *Call) error {
		return haveUsers(c, c.World.Resolver.ValidUsers, testcontext.KeyValidUsers)
	})
	r.MustRegister("I have invalid login credentials", func(ctx context.Context, c *Call) error {
		return haveUsers(c, c.World.Resolver.InvalidUsers, testcontext.KeyInvalidUsers)
	})
	r.MustRegister("I login with valid credentials", func(ctx context.Context, c *Call) error {
		return loginWithFirst(ctx, c, testcontext.KeyValidUsers)
	})
	r.MustRegister("I login with invalid credentials", func(ctx context.Context, c *Call) error {
		return loginWithFirst(ctx, c, testcontext.KeyInvalidUsers)
	})
	r.MustRegister("I should be successfully logged in", shouldBeLoggedIn)
	r.MustRegister("I should see an error message", shouldSeeErrorMessage)
	r.MustRegister("I log out", func(ctx context.Context, c *Call) error {
		dashboard, err := c.World.DashboardPage()
		if err != nil {
			return err
		}
		return dashboard.ClickLogout(ctx)
	})
}

func onLoginPage(ctx context.Context, c *Call) error {
	login, err := c.World.LoginPage()
	if err != nil {
		return err
	}
	if err := login.NavigateToLogin(ctx); err != nil {
		return err
	}

	expected, err := c.World.Resolver.ExpectedText(fixture.LoginPage, "pageTitle")
	if err != nil {
		return err
	}
	actual, err := login.PageTitle(ctx)
	if err != nil {
		return err
	}
	return c.World.Assert.AssertPageTitle("login_page", strings.TrimSpace(actual), expected)
}

// loginWithUserID fails with a descriptive error before touching the browser
// when the id is not in the login fixture.
func loginWithUserID(ctx context.Context, c *Call) error {
	id := c.String(0)
	user, ok, err := c.World.Resolver.UserByID(id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.RecordNotFoundError{Kind: "user", ID: id, Page: fixture.LoginPage}
	}
	return login(ctx, c, user)
}

func login(ctx context.Context, c *Call, user domain.UserRecord) error {
	c.World.Context.Set(testcontext.KeyCurrentUser, user)
	page, err := c.World.LoginPage()
	if err != nil {
		return err
	}
	return page.Login(ctx, user)
}

func haveUsers(c *Call, list func() ([]domain.UserRecord, error), key string) error {
	users, err := list()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return ErrNoUsers
	}
	c.World.Context.Set(key, users)
	return nil
}

func loginWithFirst(ctx context.Context, c *Call, key string) error {
	users, err := testcontext.Value[[]domain.UserRecord](c.World.Context, key)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return ErrNoUsers
	}
	return login(ctx, c, users[0])
}

func currentUser(c *Call) (domain.UserRecord, error) {
	return testcontext.Value[domain.UserRecord](c.World.Context, testcontext.KeyCurrentUser)
}

func shouldSeeDashboard(ctx context.Context, c *Call) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	dashboard, err := c.World.DashboardPage()
	if err != nil {
		return err
	}
	expected, err := c.World.Resolver.ExpectedText(pages.DashboardPageName, "dashboardTitle")
	if err != nil {
		return err
	}
	if err := dashboard.VerifyDashboardLoaded(ctx); err != nil {
		return err
	}
	actual, err := dashboard.PageTitle(ctx)
	if err != nil {
		return err
	}
	if err := c.World.Assert.AssertPageTitle(pages.DashboardPageName, strings.TrimSpace(actual), expected); err != nil {
		return err
	}
	return dashboard.VerifySuccessfulLogin(ctx, user.ID)
}

func shouldBeLoggedIn(ctx context.Context, c *Call) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	dashboard, err := c.World.DashboardPage()
	if err != nil {
		return err
	}
	return dashboard.VerifySuccessfulLogin(ctx, user.ID)
}

func shouldSeeErrorMessage(ctx context.Context, c *Call) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	page, err := c.World.LoginPage()
	if err != nil {
		return err
	}
	actual, err := page.ErrorMessage(ctx)
	if err != nil {
		return err
	}
	return c.World.Assert.AssertAndStore("error_message", strings.TrimSpace(actual), user.ExpectedErrorMessage)
}
