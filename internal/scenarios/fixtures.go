// Package scenarios is the Sauce Demo suite: login, inventory, cart and
// checkout groups built from screen objects and chained fixtures.
package scenarios

import (
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/scenario"
	"github.com/themizzi/saucecheck/internal/screens"
)

// Accounts recognized by the storefront
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	ProblemUser           = "problem_user"
	PerformanceGlitchUser = "performance_glitch_user"
	InvalidUser           = "invalid_user"

	Password      = "secret_sauce"
	WrongPassword = "wrong_password"
)

// Page suffixes the suite waits for
const (
	InventoryPage   = "inventory.html"
	CartPage        = "cart.html"
	CheckoutStepOne = "checkout-step-one.html"
	CheckoutStepTwo = "checkout-step-two.html"
	CheckoutDone    = "checkout-complete.html"
)

// All returns every group of the suite
func All() []scenario.Group {
	return []scenario.Group{Login(), Inventory(), Cart(), Checkout()}
}

// waitForPage waits for the URL to end in suffix
func waitForPage(t scenario.T, env *scenario.Env, suffix string, timeout time.Duration) {
	t.Helper()
	require.NoError(t, env.Page.WaitForURL("**/"+suffix, timeout), "should reach %s", suffix)
}

// containsFold reports whether s contains substr, ignoring case
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// OpenStore navigates to the storefront home
func OpenStore() scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		require.NoError(t, env.Login().Navigate(env.BaseURL), "should open the storefront")
	}
}

// LoggedInAs signs in and waits for the inventory
func LoggedInAs(username, password string) scenario.Step {
	return scenario.Chain(OpenStore(), func(t scenario.T, env *scenario.Env) {
		t.Helper()
		require.NoError(t, env.Login().Login(username, password), "should submit credentials")
		waitForPage(t, env, InventoryPage, screens.WaitBudget)
	})
}

// WithProducts adds products by add-button index from the inventory
func WithProducts(indexes ...int) scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		inventory := env.Inventory()
		for _, i := range indexes {
			require.NoError(t, inventory.AddToCart(i), "should add product %d", i)
		}
	}
}

// AtCart opens the cart from the header link
func AtCart() scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		require.NoError(t, env.Inventory().OpenCart(), "should open the cart")
		waitForPage(t, env, CartPage, screens.WaitBudget)
	}
}

// AtCheckout starts checkout from the cart
func AtCheckout() scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		require.NoError(t, env.Cart().Checkout(), "should start checkout")
		waitForPage(t, env, CheckoutStepOne, screens.WaitBudget)
	}
}

// CartWithTwoProducts is the cart state shared by the cart and checkout groups
func CartWithTwoProducts() scenario.Step {
	return scenario.Chain(LoggedInAs(StandardUser, Password), WithProducts(0, 1), AtCart())
}
