package screens

// Cart screen locators
const (
	CartList               Locator = ".cart_list"
	CartItem               Locator = ".cart_item"
	CartItemName           Locator = ".inventory_item_name"
	CartItemPrice          Locator = ".inventory_item_price"
	CartQuantity           Locator = ".cart_quantity"
	CartRemoveButton       Locator = "button[data-test*='remove']"
	ContinueShoppingButton Locator = "[data-test='continue-shopping']"
	CheckoutButton         Locator = "[data-test='checkout']"
)

// Cart is the shopping cart screen
type Cart struct {
	Page
}

// NewCart creates a Cart screen over p
func NewCart(p Page) *Cart {
	return &Cart{Page: p}
}

// IsCartPage reports whether the cart list is shown
func (s *Cart) IsCartPage() (bool, error) {
	return s.IsVisible(CartList)
}

// ItemCount returns the number of cart line items
func (s *Cart) ItemCount() (int, error) {
	return s.Count(CartItem)
}

// ItemNames returns line item names in display order
func (s *Cart) ItemNames() ([]string, error) {
	return texts(s, CartItem, CartItemName)
}

// ItemPrices returns line item prices in display order
func (s *Cart) ItemPrices() ([]string, error) {
	return texts(s, CartItem, CartItemPrice)
}

// Remove removes the index-th line item
func (s *Cart) Remove(index int) error {
	return s.ClickAt(CartRemoveButton, index)
}

// ContinueShopping returns to the inventory
func (s *Cart) ContinueShopping() error {
	return s.Click(ContinueShoppingButton)
}

// Checkout starts the checkout flow
func (s *Cart) Checkout() error {
	return s.Click(CheckoutButton)
}

// IsEmpty waits SettleDelay for removals to reach the DOM, then reports
// whether no line items remain.
func (s *Cart) IsEmpty() (bool, error) {
	s.Pause(SettleDelay)
	n, err := s.Count(CartItem)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
