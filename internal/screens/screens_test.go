package screens_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/screens"
	"github.com/themizzi/saucecheck/internal/screens/screenstest"
)

const baseURL = "https://www.saucedemo.com/"

func TestMatchURL(t *testing.T) {
	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"**/inventory.html", baseURL + "inventory.html", true},
		{"**/inventory.html", baseURL + "cart.html", false},
		{"**/checkout-step-one.html", baseURL + "checkout-step-one.html", true},
		{"https://*/cart.html", baseURL + "cart.html", true},
		{"https://*/cart.html", "https://www.saucedemo.com/a/cart.html", false},
		{baseURL, baseURL, true},
		{"**/inventory.html", baseURL + "inventory.html?x=1", false},
		{"**/inventory.html?x=1", baseURL + "inventory.html?x=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, screens.MatchURL(tt.pattern, tt.url))
		})
	}
}

func TestParsePrice(t *testing.T) {
	v, err := screens.ParsePrice("$29.99")
	require.NoError(t, err)
	assert.InDelta(t, 29.99, v, 1e-9)

	v, err = screens.ParsePrice(" 7.99 ")
	require.NoError(t, err)
	assert.InDelta(t, 7.99, v, 1e-9)

	_, err = screens.ParsePrice("free")
	assert.Error(t, err)

	prices, err := screens.ParsePrices([]string{"$1.00", "$2.50"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, prices)

	_, err = screens.ParsePrices([]string{"$1.00", "n/a"})
	assert.Error(t, err)
}

func openStore(t *testing.T) *screenstest.Storefront {
	t.Helper()
	store := screenstest.NewStorefront(baseURL)
	require.NoError(t, store.Navigate(baseURL))
	return store
}

func loggedIn(t *testing.T) *screenstest.Storefront {
	t.Helper()
	store := openStore(t)
	require.NoError(t, screens.NewLogin(store).Login("standard_user", "secret_sauce"))
	require.NoError(t, store.WaitForURL("**/inventory.html", screens.WaitBudget))
	return store
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials reach the inventory", func(t *testing.T) {
		store := openStore(t)
		login := screens.NewLogin(store)

		onLogin, err := login.IsLoginPage()
		require.NoError(t, err)
		assert.True(t, onLogin)

		require.NoError(t, login.Login("standard_user", "secret_sauce"))
		assert.Equal(t, baseURL+"inventory.html", store.URL())

		onLogin, err = login.IsLoginPage()
		require.NoError(t, err)
		assert.False(t, onLogin)
	})

	t.Run("locked out user sees a banner", func(t *testing.T) {
		store := openStore(t)
		login := screens.NewLogin(store)
		require.NoError(t, login.Login("locked_out_user", "secret_sauce"))

		visible, err := login.IsErrorVisible()
		require.NoError(t, err)
		assert.True(t, visible)

		msg, err := login.ErrorMessage()
		require.NoError(t, err)
		assert.Equal(t, screenstest.MsgLockedOut, msg)
	})

	t.Run("missing banner propagates the lookup error", func(t *testing.T) {
		login := screens.NewLogin(openStore(t))
		_, err := login.ErrorMessage()
		assert.ErrorIs(t, err, screens.ErrNotFound)
	})

	t.Run("fill replaces previous input", func(t *testing.T) {
		store := openStore(t)
		login := screens.NewLogin(store)
		require.NoError(t, login.Login("invalid_user", "secret_sauce"))
		require.NoError(t, login.Login("standard_user", "secret_sauce"))
		assert.Equal(t, baseURL+"inventory.html", store.URL())
	})
}

func TestInventory_Listing(t *testing.T) {
	inventory := screens.NewInventory(loggedIn(t))

	ok, err := inventory.IsInventoryPage()
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := inventory.ProductCount()
	require.NoError(t, err)
	assert.Equal(t, len(screenstest.Catalog), count)

	names, err := inventory.ProductNames()
	require.NoError(t, err)
	prices, err := inventory.ProductPrices()
	require.NoError(t, err)
	require.Len(t, names, count)
	require.Len(t, prices, count)

	// names and prices are index-correlated
	assert.Equal(t, "Sauce Labs Backpack", names[0])
	assert.Equal(t, "$29.99", prices[0])
	assert.Equal(t, "Sauce Labs Bike Light", names[1])
	assert.Equal(t, "$9.99", prices[1])
}

func TestInventory_CartBadge(t *testing.T) {
	store := loggedIn(t)
	inventory := screens.NewInventory(store)

	badge, err := inventory.CartBadgeCount()
	require.NoError(t, err)
	assert.Equal(t, "0", badge, "absent badge reads as zero")

	require.NoError(t, inventory.AddToCart(0))
	require.NoError(t, inventory.AddToCart(0))
	badge, err = inventory.CartBadgeCount()
	require.NoError(t, err)
	assert.Equal(t, "2", badge)
	assert.Equal(t, 2, store.CartSize())

	require.NoError(t, inventory.RemoveFromCart(0))
	badge, err = inventory.CartBadgeCount()
	require.NoError(t, err)
	assert.Equal(t, "1", badge)

	assert.ErrorIs(t, inventory.RemoveFromCart(5), screens.ErrNotFound)
}

func TestInventory_AddByName(t *testing.T) {
	t.Run("unique name", func(t *testing.T) {
		store := loggedIn(t)
		require.NoError(t, screens.NewInventory(store).AddByName("Sauce Labs Onesie"))
		assert.Equal(t, 1, store.CartSize())
	})

	t.Run("shared prefix is ambiguous", func(t *testing.T) {
		store := loggedIn(t)
		err := screens.NewInventory(store).AddByName("Sauce Labs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matches")
		assert.Equal(t, 0, store.CartSize())
	})

	t.Run("unknown name", func(t *testing.T) {
		store := loggedIn(t)
		err := screens.NewInventory(store).AddByName("Sauce Labs Hoverboard")
		assert.ErrorIs(t, err, screens.ErrNotFound)
	})
}

func TestInventory_Sort(t *testing.T) {
	tests := []struct {
		option    screens.SortOption
		wantFirst string
		wantLast  string
	}{
		{screens.SortNameAsc, "Sauce Labs Backpack", "Test.allTheThings() T-Shirt (Red)"},
		{screens.SortNameDesc, "Test.allTheThings() T-Shirt (Red)", "Sauce Labs Backpack"},
		{screens.SortPriceAsc, "Sauce Labs Onesie", "Sauce Labs Fleece Jacket"},
		{screens.SortPriceDesc, "Sauce Labs Fleece Jacket", "Sauce Labs Onesie"},
	}

	for _, tt := range tests {
		t.Run(string(tt.option), func(t *testing.T) {
			inventory := screens.NewInventory(loggedIn(t))
			require.NoError(t, inventory.Sort(tt.option))

			names, err := inventory.ProductNames()
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, names[0])
			assert.Equal(t, tt.wantLast, names[len(names)-1])
		})
	}

	t.Run("broken control times out", func(t *testing.T) {
		store := loggedIn(t)
		store.SortBroken = true
		err := screens.NewInventory(store).Sort(screens.SortPriceAsc)
		assert.ErrorIs(t, err, screens.ErrTimeout)
	})
}

func cartWith(t *testing.T, indexes ...int) *screenstest.Storefront {
	t.Helper()
	store := loggedIn(t)
	inventory := screens.NewInventory(store)
	for _, i := range indexes {
		require.NoError(t, inventory.AddToCart(i))
	}
	require.NoError(t, inventory.OpenCart())
	require.NoError(t, store.WaitForURL("**/cart.html", screens.WaitBudget))
	return store
}

func TestCart(t *testing.T) {
	store := cartWith(t, 0, 0)
	cart := screens.NewCart(store)

	ok, err := cart.IsCartPage()
	require.NoError(t, err)
	assert.True(t, ok)

	names, err := cart.ItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sauce Labs Backpack", "Sauce Labs Bike Light"}, names)

	prices, err := cart.ItemPrices()
	require.NoError(t, err)
	assert.Equal(t, []string{"$29.99", "$9.99"}, prices)

	require.NoError(t, cart.Remove(0))
	count, err := cart.ItemCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	empty, err := cart.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	require.NoError(t, cart.Remove(0))
	empty, err = cart.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Equal(t, 2*screens.SettleDelay, store.Paused(), "IsEmpty waits before counting")
}

func TestCart_Navigation(t *testing.T) {
	store := cartWith(t, 0)
	require.NoError(t, screens.NewCart(store).ContinueShopping())
	assert.Equal(t, baseURL+"inventory.html", store.URL())

	store = cartWith(t, 0)
	require.NoError(t, screens.NewCart(store).Checkout())
	assert.Equal(t, baseURL+"checkout-step-one.html", store.URL())
}

func TestCheckout(t *testing.T) {
	store := cartWith(t, 0, 0)
	require.NoError(t, screens.NewCart(store).Checkout())
	checkout := screens.NewCheckout(store)

	msg, err := checkout.ErrorMessage()
	require.NoError(t, err)
	assert.Empty(t, msg, "no banner reads as empty")

	require.NoError(t, checkout.FillInfo("", "Doe", "12345"))
	require.NoError(t, checkout.Continue())
	visible, err := checkout.IsErrorVisible()
	require.NoError(t, err)
	assert.True(t, visible)
	msg, err = checkout.ErrorMessage()
	require.NoError(t, err)
	assert.Equal(t, screenstest.MsgFirstName, msg)

	require.NoError(t, checkout.FillInfo("John", "Doe", "12345"))
	require.NoError(t, checkout.Continue())
	require.NoError(t, store.WaitForURL("**/checkout-step-two.html", time.Second))

	total, err := checkout.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, "Total: $43.18", total)

	require.NoError(t, checkout.Finish())
	done, err := checkout.IsOrderComplete()
	require.NoError(t, err)
	assert.True(t, done)

	text, err := checkout.CompleteMessage()
	require.NoError(t, err)
	assert.Contains(t, text, "dispatched")

	require.NoError(t, checkout.BackHome())
	assert.Equal(t, baseURL+"inventory.html", store.URL())
	assert.Equal(t, 0, store.CartSize())
}

func TestPage_Waits(t *testing.T) {
	store := openStore(t)

	assert.NoError(t, store.WaitFor(screens.LoginContainer, screens.WaitBudget))
	assert.ErrorIs(t, store.WaitFor(screens.InventoryContainer, screens.WaitBudget), screens.ErrTimeout)
	assert.ErrorIs(t, store.WaitForURL("**/inventory.html", screens.WaitBudget), screens.ErrTimeout)
	assert.ErrorIs(t, store.Click(screens.CheckoutFinish), screens.ErrNotFound)

	title, err := store.Title()
	require.NoError(t, err)
	assert.Equal(t, "Swag Labs", title)
}

func TestPage_SignedOutRedirect(t *testing.T) {
	store := screenstest.NewStorefront(baseURL)
	require.NoError(t, store.Navigate(baseURL+"cart.html"))
	assert.Equal(t, baseURL, store.URL())

	visible, err := screens.NewLogin(store).IsErrorVisible()
	require.NoError(t, err)
	assert.True(t, visible)
}
