package scenarios

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/scenario"
	"github.com/themizzi/saucecheck/internal/screens"
)

// Login covers sign-in with every recognized account and the form validation
func Login() scenario.Group {
	return scenario.Group{
		Name:  "Login",
		Tags:  []scenario.Tag{scenario.TagLogin},
		Setup: OpenStore(),
		Scenarios: []scenario.Scenario{
			{
				Name: "SuccessfulLogin",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					login := env.Login()

					onLogin, err := login.IsLoginPage()
					require.NoError(t, err)
					require.True(t, onLogin, "should be on login page")

					loginReachesInventory(t, env, StandardUser, screens.WaitBudget)
				},
			},
			{
				Name: "LockedOutUser",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run:  loginRejected(LockedOutUser, Password, "locked out"),
			},
			{
				Name: "InvalidPassword",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  loginRejected(StandardUser, WrongPassword, "username and password do not match"),
			},
			{
				Name: "InvalidUsername",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  loginRejected(InvalidUser, Password, "username and password do not match"),
			},
			{
				Name: "EmptyUsername",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  loginRejected("", Password, "username is required"),
			},
			{
				Name: "EmptyPassword",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  loginRejected(StandardUser, "", "password is required"),
			},
			{
				Name: "ProblemUser",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					loginReachesInventory(t, env, ProblemUser, screens.WaitBudget)
				},
			},
			{
				Name: "PerformanceGlitchUser",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					loginReachesInventory(t, env, PerformanceGlitchUser, screens.SlowLoginBudget)
				},
			},
		},
	}
}

func loginReachesInventory(t scenario.T, env *scenario.Env, username string, budget time.Duration) {
	t.Helper()
	require.NoError(t, env.Login().Login(username, Password))
	waitForPage(t, env, InventoryPage, budget)
	assert.Contains(t, env.Page.URL(), "inventory", "should redirect to inventory page")
}

// loginRejected submits credentials and expects a banner containing want while
// staying on the login form
func loginRejected(username, password, want string) scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		login := env.Login()
		require.NoError(t, login.Login(username, password))

		visible, err := login.IsErrorVisible()
		require.NoError(t, err)
		require.True(t, visible, "error message should be visible")

		msg, err := login.ErrorMessage()
		require.NoError(t, err)
		assert.True(t, containsFold(msg, want), "error %q should contain %q", msg, want)

		onLogin, err := login.IsLoginPage()
		require.NoError(t, err)
		assert.True(t, onLogin, "should stay on login page")
		assert.NotContains(t, env.Page.URL(), InventoryPage, "should not reach inventory")
	}
}
