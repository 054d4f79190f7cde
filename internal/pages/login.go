package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// LoginStatic is the in-code login page definition.
var LoginStatic = &StaticDefinition{
	PageName: fixture.LoginPage,
	PageURL:  "/",
	SelectorMap: map[string]string{
		"usernameInput":  `input[name="username"], input#username, input[placeholder*="User" i]`,
		"passwordInput":  `input[type="password"], input[name="password"], input#password`,
		"loginButton":    `button[type="submit"], input[type="submit"]`,
		"errorMessage":   `.error-message, .alert-error, [data-testid="error"]`,
		"successMessage": `.success-message, .alert-success, [data-testid="success"]`,
		"pageTitle":      `h1, .page-title, [data-testid="page-title"]`,
	},
}

// LoginPage drives the login screen.
type LoginPage struct {
	*Base
}

// NewLoginPage builds the login page from its fixture, or LoginStatic when
// the fixture declares no selectors.
func NewLoginPage(resolver *fixture.Resolver, drv driver.Driver, store *testcontext.Store, log *logrus.Logger) (*LoginPage, error) {
	def, err := NewDefinition(resolver, fixture.LoginPage, "loginPage", LoginStatic)
	if err != nil {
		return nil, err
	}
	base, err := NewBase(def, drv, store, log)
	if err != nil {
		return nil, err
	}
	return &LoginPage{Base: base}, nil
}

func (p *LoginPage) NavigateToLogin(ctx context.Context) error {
	return p.Visit(ctx)
}

func (p *LoginPage) EnterUsername(ctx context.Context, username string) error {
	return p.Type(ctx, "usernameInput", username)
}

func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return p.Type(ctx, "passwordInput", password)
}

func (p *LoginPage) ClickLoginButton(ctx context.Context) error {
	return p.Click(ctx, "loginButton")
}

// LoginWithUsernameOnly runs the passwordless login flow.
func (p *LoginPage) LoginWithUsernameOnly(ctx context.Context, username string) error {
	p.log.WithField("user", username).Info("Logging in without password")
	return sequence(ctx,
		p.NavigateToLogin,
		p.WaitForPageLoad,
		func(ctx context.Context) error { return p.EnterUsername(ctx, username) },
		p.ClickLoginButton,
	)
}

// LoginWithCredentials runs the username + password login flow.
func (p *LoginPage) LoginWithCredentials(ctx context.Context, username, password string) error {
	p.log.WithField("user", username).Info("Logging in with credentials")
	return sequence(ctx,
		p.NavigateToLogin,
		p.WaitForPageLoad,
		func(ctx context.Context) error { return p.EnterUsername(ctx, username) },
		func(ctx context.Context) error { return p.EnterPassword(ctx, password) },
		p.ClickLoginButton,
	)
}

// Login picks the flow from the record: a nil password means username only.
func (p *LoginPage) Login(ctx context.Context, user domain.UserRecord) error {
	if user.Password == nil {
		return p.LoginWithUsernameOnly(ctx, user.ID)
	}
	return p.LoginWithCredentials(ctx, user.ID, *user.Password)
}

func (p *LoginPage) AssertErrorMessageVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "errorMessage")
}

func (p *LoginPage) AssertSuccessMessageVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "successMessage")
}

// ErrorMessage returns the visible error text.
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	if err := p.AssertErrorMessageVisible(ctx); err != nil {
		return "", err
	}
	return p.Text(ctx, "errorMessage")
}

// PageTitle returns the page heading text.
func (p *LoginPage) PageTitle(ctx context.Context) (string, error) {
	return p.Text(ctx, "pageTitle")
}

func (p *LoginPage) VerifyPageTitle(ctx context.Context, expected string) error {
	return p.AssertContainsText(ctx, "pageTitle", expected)
}

// sequence runs steps in order and stops at the first error.
func sequence(ctx context.Context, steps ...func(context.Context) error) error {
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}
