package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/scenario"
	"github.com/themizzi/saucecheck/internal/screens"
)

// Cart covers the cart screen holding the first two products
func Cart() scenario.Group {
	return scenario.Group{
		Name:  "Cart",
		Tags:  []scenario.Tag{scenario.TagCart},
		Setup: CartWithTwoProducts(),
		Scenarios: []scenario.Scenario{
			{
				Name: "CartPageDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					onCart, err := env.Cart().IsCartPage()
					require.NoError(t, err)
					assert.True(t, onCart, "should be on cart page")
				},
			},
			{
				Name: "CartItemsDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					assertItemCount(t, env.Cart(), 2)
				},
			},
			{
				Name: "CartHoldsAddedProducts",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					cart := env.Cart()
					assertItemCount(t, cart, 2)
					assertItemNames(t, cart, 2)
					assertItemPrices(t, cart, 2)
				},
			},
			{
				Name: "CartItemNamesDisplayed",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					assertItemNames(t, env.Cart(), 2)
				},
			},
			{
				Name: "CartItemPricesDisplayed",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					assertItemPrices(t, env.Cart(), 2)
				},
			},
			{
				Name: "RemoveItem",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					cart := env.Cart()
					assertItemCount(t, cart, 2)
					require.NoError(t, cart.Remove(0))
					assertItemCount(t, cart, 1)
				},
			},
			{
				Name: "RemoveAllItems",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  emptyCart,
			},
			{
				Name: "ContinueShopping",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					require.NoError(t, env.Cart().ContinueShopping())
					waitForPage(t, env, InventoryPage, screens.WaitBudget)
					assert.Contains(t, env.Page.URL(), "inventory", "should navigate back to inventory page")
				},
			},
			{
				Name: "ProceedToCheckout",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					require.NoError(t, env.Cart().Checkout())
					waitForPage(t, env, CheckoutStepOne, screens.WaitBudget)
					assert.Contains(t, env.Page.URL(), "checkout-step-one", "should navigate to checkout page")
				},
			},
			{
				Name: "EmptyCartAfterRemovals",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  emptyCart,
			},
		},
	}
}

// emptyCart removes both items; each removal shifts the rest to index 0
func emptyCart(t scenario.T, env *scenario.Env) {
	cart := env.Cart()
	require.NoError(t, cart.Remove(0))
	require.NoError(t, cart.Remove(0))

	empty, err := cart.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty, "cart should be empty")
}

func assertItemCount(t scenario.T, cart *screens.Cart, want int) {
	t.Helper()
	got, err := cart.ItemCount()
	require.NoError(t, err)
	assert.Equal(t, want, got, "cart items")
}

func assertItemNames(t scenario.T, cart *screens.Cart, want int) {
	t.Helper()
	names, err := cart.ItemNames()
	require.NoError(t, err)
	require.Len(t, names, want)
	for i, name := range names {
		assert.NotEmpty(t, name, "item %d name should be non-empty", i)
	}
}

func assertItemPrices(t scenario.T, cart *screens.Cart, want int) {
	t.Helper()
	prices, err := cart.ItemPrices()
	require.NoError(t, err)
	require.Len(t, prices, want)
	for i, price := range prices {
		assert.Contains(t, price, "$", "item %d price should contain $", i)
	}
}
