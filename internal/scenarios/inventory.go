package scenarios

import (
	"slices"
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/scenario"
	"github.com/themizzi/saucecheck/internal/screens"
)

// catalogSize is the number of products the storefront lists
const catalogSize = 6

// Inventory covers the product listing, cart badge and sorting
func Inventory() scenario.Group {
	return scenario.Group{
		Name:  "Inventory",
		Tags:  []scenario.Tag{scenario.TagProduct},
		Setup: LoggedInAs(StandardUser, Password),
		Scenarios: []scenario.Scenario{
			{
				Name: "ProductsDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()

					onInventory, err := inventory.IsInventoryPage()
					require.NoError(t, err)
					require.True(t, onInventory, "should be on inventory page")

					count, err := inventory.ProductCount()
					require.NoError(t, err)
					assert.Equal(t, catalogSize, count, "should display 6 products")
				},
			},
			{
				Name: "ProductNamesDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					names, err := env.Inventory().ProductNames()
					require.NoError(t, err)
					require.Len(t, names, catalogSize)
					for i, name := range names {
						assert.NotEmpty(t, name, "product %d name should be non-empty", i)
					}
				},
			},
			{
				Name: "ProductPricesDisplayed",
				Tags: []scenario.Tag{scenario.TagSmoke},
				Run: func(t scenario.T, env *scenario.Env) {
					prices, err := env.Inventory().ProductPrices()
					require.NoError(t, err)
					require.Len(t, prices, catalogSize)
					for i, price := range prices {
						assert.Contains(t, price, "$", "product %d price should contain $", i)
					}
				},
			},
			{
				Name: "AddSingleProduct",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					require.NoError(t, inventory.AddToCart(0))
					assertBadge(t, inventory, "1")
				},
			},
			{
				Name: "AddMultipleProducts",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					for i := 0; i < 3; i++ {
						require.NoError(t, inventory.AddToCart(i))
					}
					assertBadge(t, inventory, "3")
				},
			},
			{
				Name: "BadgeTracksEveryAdd",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					assertNoBadge(t, inventory)

					// added products turn into remove buttons, so the next
					// product is always the first add button
					for n := 1; n <= catalogSize; n++ {
						require.NoError(t, inventory.AddToCart(0))
						assertBadge(t, inventory, strconv.Itoa(n))
					}
				},
			},
			{
				Name: "AddProductByName",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					names, err := inventory.ProductNames()
					require.NoError(t, err)
					require.NotEmpty(t, names)

					require.NoError(t, inventory.AddByName(names[0]))
					assertBadge(t, inventory, "1")
				},
			},
			{
				Name: "RemoveProduct",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					assertNoBadge(t, inventory)

					require.NoError(t, inventory.AddToCart(0))
					assertBadge(t, inventory, "1")

					require.NoError(t, inventory.RemoveFromCart(0))
					assertNoBadge(t, inventory)
				},
			},
			{
				Name: "SortByNameAscending",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  sortedNames(screens.SortNameAsc, false),
			},
			{
				Name: "SortByNameDescending",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  sortedNames(screens.SortNameDesc, true),
			},
			{
				Name: "SortByPriceLowToHigh",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  sortedPrices(screens.SortPriceAsc, false),
			},
			{
				Name: "SortByPriceHighToLow",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run:  sortedPrices(screens.SortPriceDesc, true),
			},
			{
				Name: "NavigateToCart",
				Tags: []scenario.Tag{scenario.TagRegression},
				Run: func(t scenario.T, env *scenario.Env) {
					inventory := env.Inventory()
					require.NoError(t, inventory.AddToCart(0))
					require.NoError(t, inventory.OpenCart())

					waitForPage(t, env, CartPage, screens.WaitBudget)
					assert.Contains(t, env.Page.URL(), "cart", "should navigate to cart page")
				},
			},
		},
	}
}

func assertBadge(t scenario.T, inventory *screens.Inventory, want string) {
	t.Helper()
	got, err := inventory.CartBadgeCount()
	require.NoError(t, err)
	assert.Equal(t, want, got, "cart badge")
}

func assertNoBadge(t scenario.T, inventory *screens.Inventory) {
	t.Helper()
	visible, err := inventory.IsVisible(screens.CartBadge)
	require.NoError(t, err)
	assert.False(t, visible, "cart badge should not be visible")
	assertBadge(t, inventory, "0")
}

// applySort selects option and lets the listing settle. A sort control that
// does not respond skips the scenario.
func applySort(t scenario.T, inventory *screens.Inventory, option screens.SortOption) {
	t.Helper()
	scenario.SkipOnError(t, "sort "+string(option), inventory.Sort(option))
	inventory.Pause(screens.SortSettleDelay)
}

func sortedNames(option screens.SortOption, descending bool) scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		inventory := env.Inventory()
		original, err := inventory.ProductNames()
		require.NoError(t, err)

		applySort(t, inventory, option)

		got, err := inventory.ProductNames()
		scenario.SkipOnError(t, "sorted listing", err)

		want := slices.Clone(original)
		slices.Sort(want)
		if descending {
			slices.Reverse(want)
		}
		assert.Equal(t, want, got, "products should be sorted by %s", option)
	}
}

func sortedPrices(option screens.SortOption, descending bool) scenario.Step {
	return func(t scenario.T, env *scenario.Env) {
		inventory := env.Inventory()
		applySort(t, inventory, option)

		texts, err := inventory.ProductPrices()
		scenario.SkipOnError(t, "sorted listing", err)
		got, err := screens.ParsePrices(texts)
		require.NoError(t, err)

		want := slices.Clone(got)
		slices.Sort(want)
		if descending {
			slices.Reverse(want)
		}
		assert.Equal(t, want, got, "prices should be sorted by %s", option)
	}
}
