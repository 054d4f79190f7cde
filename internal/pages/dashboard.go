package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/driver"
	"github.com/fjglira/GoE2E-PageFlow/internal/fixture"
	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// DashboardPageName is the logical name of the dashboard fixture.
const DashboardPageName = "dashboard"

// DashboardStatic is the in-code dashboard definition.
var DashboardStatic = &StaticDefinition{
	PageName: DashboardPageName,
	PageURL:  "/dashboard",
	SelectorMap: map[string]string{
		"dashboardTitle": `h1, .dashboard-title, [data-testid="dashboard-title"]`,
		"welcomeMessage": `.welcome-message, .user-greeting, [data-testid="welcome"]`,
		"navigationMenu": `.nav-menu, .sidebar, [data-testid="navigation"]`,
		"logoutButton":   `.logout-btn, .signout-btn, [data-testid="logout"]`,
		"userProfile":    `.user-profile, .profile-info, [data-testid="profile"]`,
		"quickActions":   `.quick-actions, .action-buttons, [data-testid="actions"]`,
	},
}

// DashboardPage is the landing page after login.
type DashboardPage struct {
	*Base
}

// NewDashboardPage builds the dashboard from its fixture or DashboardStatic.
func NewDashboardPage(resolver *fixture.Resolver, drv driver.Driver, store *testcontext.Store, log *logrus.Logger) (*DashboardPage, error) {
	def, err := NewDefinition(resolver, DashboardPageName, "dashboardPage", DashboardStatic)
	if err != nil {
		return nil, err
	}
	base, err := NewBase(def, drv, store, log)
	if err != nil {
		return nil, err
	}
	return &DashboardPage{Base: base}, nil
}

func (p *DashboardPage) VerifyDashboardLoaded(ctx context.Context) error {
	return p.WaitForPageLoad(ctx)
}

func (p *DashboardPage) AssertTitleVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "dashboardTitle")
}

func (p *DashboardPage) VerifyDashboardTitle(ctx context.Context, expected string) error {
	return p.AssertContainsText(ctx, "dashboardTitle", expected)
}

func (p *DashboardPage) AssertWelcomeMessageVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "welcomeMessage")
}

func (p *DashboardPage) VerifyWelcomeMessageContainsUsername(ctx context.Context, username string) error {
	return p.AssertContainsText(ctx, "welcomeMessage", username)
}

func (p *DashboardPage) AssertNavigationVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "navigationMenu")
}

func (p *DashboardPage) AssertUserProfileVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "userProfile")
}

func (p *DashboardPage) AssertQuickActionsVisible(ctx context.Context) error {
	return p.AssertVisible(ctx, "quickActions")
}

func (p *DashboardPage) ClickLogout(ctx context.Context) error {
	return p.Click(ctx, "logoutButton")
}

// PageTitle returns the dashboard heading text.
func (p *DashboardPage) PageTitle(ctx context.Context) (string, error) {
	return p.Text(ctx, "dashboardTitle")
}

// VerifySuccessfulLogin checks the landmarks a logged-in user sees.
func (p *DashboardPage) VerifySuccessfulLogin(ctx context.Context, username string) error {
	return sequence(ctx,
		p.VerifyDashboardLoaded,
		p.AssertTitleVisible,
		p.AssertWelcomeMessageVisible,
		func(ctx context.Context) error { return p.VerifyWelcomeMessageContainsUsername(ctx, username) },
		p.AssertNavigationVisible,
	)
}
