package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/scenario"
	"github.com/themizzi/saucecheck/internal/screens"
)

// Shopper details used to complete checkout
const (
	FirstName  = "John"
	LastName   = "Doe"
	PostalCode = "12345"
)

// Checkout covers the three checkout steps starting from the information form
func Checkout() scenario.Group {
	return scenario.Group{
		Name:  "Checkout",
		Tags:  []scenario.Tag{scenario.TagCheckout},
		Setup: scenario.Chain(CartWithTwoProducts(), AtCheckout()),
		Scenarios: []scenario.Scenario{
			{
				Name: "StepOneDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					checkout := env.Checkout()
					for _, field := range []screens.Locator{
						screens.CheckoutFirstName,
						screens.CheckoutLastName,
						screens.CheckoutPostalCode,
					} {
						visible, err := checkout.IsVisible(field)
						require.NoError(t, err)
						assert.True(t, visible, "%s should be visible", field)
					}
				},
			},
			{
				Name: "SuccessfulCheckout",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					toOverview(t, env)
					assert.Contains(t, env.Page.URL(), "checkout-step-two", "should navigate to checkout step two")

					total, err := env.Checkout().TotalPrice()
					require.NoError(t, err)
					assert.Contains(t, total, "$", "total price should contain $")

					placeOrder(t, env)
					checkout := env.Checkout()
					complete, err := checkout.IsOrderComplete()
					require.NoError(t, err)
					assert.True(t, complete, "order should be complete")
					assertConfirmation(t, checkout)
				},
			},
			{
				Name: "EmptyFirstName",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  infoRejected("", LastName, PostalCode, "first name is required"),
			},
			{
				Name: "EmptyLastName",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  infoRejected(FirstName, "", PostalCode, "last name is required"),
			},
			{
				Name: "EmptyPostalCode",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  infoRejected(FirstName, LastName, "", "postal code is required"),
			},
			{
				Name: "StepTwoDisplaysTotal",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					toOverview(t, env)

					total, err := env.Checkout().TotalPrice()
					require.NoError(t, err)
					require.NotEmpty(t, total, "total price should be displayed")
					assert.Contains(t, total, "$", "total price should contain $")
				},
			},
			{
				Name: "CompleteOrderMessage",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					toOverview(t, env)
					placeOrder(t, env)
					assertConfirmation(t, env.Checkout())
				},
			},
			{
				Name: "BackToHomeFromComplete",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					toOverview(t, env)
					placeOrder(t, env)

					require.NoError(t, env.Checkout().BackHome())
					waitForPage(t, env, InventoryPage, screens.WaitBudget)
					assert.Contains(t, env.Page.URL(), "inventory", "should navigate back to inventory page")
				},
			},
		},
	}
}

// toOverview submits valid shopper details and waits for step two
func toOverview(t scenario.T, env *scenario.Env) {
	t.Helper()
	checkout := env.Checkout()
	require.NoError(t, checkout.FillInfo(FirstName, LastName, PostalCode))
	require.NoError(t, checkout.Continue())
	waitForPage(t, env, CheckoutStepTwo, screens.WaitBudget)
}

// placeOrder finishes the overview and waits for the completion screen
func placeOrder(t scenario.T, env *scenario.Env) {
	t.Helper()
	require.NoError(t, env.Checkout().Finish())
	waitForPage(t, env, CheckoutDone, screens.WaitBudget)
}

func assertConfirmation(t scenario.T, checkout *screens.Checkout) {
	t.Helper()
	msg, err := checkout.CompleteMessage()
	require.NoError(t, err)
	require.NotEmpty(t, msg, "complete message should be displayed")
	assert.True(t, containsFold(msg, "dispatch") || containsFold(msg, "thank you"),
		"message %q should confirm the order", msg)
}

// infoRejected submits the form with one field empty and expects the field's
// required banner without advancing to step two
func infoRejected(firstName, lastName, postalCode, want string) scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		t.Helper()
		checkout := env.Checkout()
		require.NoError(t, checkout.FillInfo(firstName, lastName, postalCode))
		require.NoError(t, checkout.Continue())

		visible, err := checkout.IsErrorVisible()
		require.NoError(t, err)
		require.True(t, visible, "error message should be visible")

		msg, err := checkout.ErrorMessage()
		require.NoError(t, err)
		assert.True(t, containsFold(msg, want), "error %q should contain %q", msg, want)
		assert.NotContains(t, env.Page.URL(), CheckoutStepTwo, "should not advance to step two")
	}
}
