package screens

import "fmt"

// Inventory screen locators
const (
	InventoryContainer Locator = ".inventory_container"
	InventoryItem      Locator = ".inventory_item"
	InventoryItemName  Locator = ".inventory_item_name"
	InventoryItemPrice Locator = ".inventory_item_price"
	AddToCartButton    Locator = "button[data-test*='add-to-cart']"
	RemoveButton       Locator = "button[data-test*='remove']"
	CartBadge          Locator = ".shopping_cart_badge"
	CartLink           Locator = ".shopping_cart_link"
	SortDropdown       Locator = "[data-test='product_sort_container']"
)

// SortOption is a value of the product sort control
type SortOption string

// Sort options offered by the inventory screen
const (
	SortNameAsc   SortOption = "az"
	SortNameDesc  SortOption = "za"
	SortPriceAsc  SortOption = "lohi"
	SortPriceDesc SortOption = "hilo"
)

// Inventory is the product listing screen
type Inventory struct {
	Page
}

// NewInventory creates an Inventory screen over p
func NewInventory(p Page) *Inventory {
	return &Inventory{Page: p}
}

// IsInventoryPage reports whether the product listing is shown
func (s *Inventory) IsInventoryPage() (bool, error) {
	return s.IsVisible(InventoryContainer)
}

// ProductCount returns the number of product rows
func (s *Inventory) ProductCount() (int, error) {
	return s.Count(InventoryItem)
}

// ProductNames returns product names in display order
func (s *Inventory) ProductNames() ([]string, error) {
	return texts(s, InventoryItem, InventoryItemName)
}

// ProductPrices returns product prices in display order. The Nth price belongs
// to the Nth name.
func (s *Inventory) ProductPrices() ([]string, error) {
	return texts(s, InventoryItem, InventoryItemPrice)
}

// AddToCart activates the index-th add-to-cart button still on the page
func (s *Inventory) AddToCart(index int) error {
	return s.ClickAt(AddToCartButton, index)
}

// RemoveFromCart activates the index-th remove button on the page
func (s *Inventory) RemoveFromCart(index int) error {
	return s.ClickAt(RemoveButton, index)
}

// ProductRowButton locates the add-to-cart button of the row whose name text
// contains name. Names sharing a prefix resolve to more than one row.
func ProductRowButton(name string) Locator {
	return Locator(fmt.Sprintf(
		"//div[contains(text(), '%s')]/ancestor::div[@class='inventory_item']//button[contains(@data-test, 'add-to-cart')]",
		name,
	))
}

// AddByName adds the product whose row text contains name. It fails when the
// name matches more than one row.
func (s *Inventory) AddByName(name string) error {
	button := ProductRowButton(name)

	n, err := s.Count(button)
	if err != nil {
		return err
	}
	if n > 1 {
		return fmt.Errorf("product name %q matches %d rows", name, n)
	}
	return s.Click(button)
}

// CartBadgeCount returns the badge text, or "0" when the badge is not rendered
func (s *Inventory) CartBadgeCount() (string, error) {
	visible, err := s.IsVisible(CartBadge)
	if err != nil {
		return "", err
	}
	if !visible {
		return "0", nil
	}
	return s.Text(CartBadge)
}

// OpenCart follows the cart link
func (s *Inventory) OpenCart() error {
	return s.Click(CartLink)
}

// Sort applies a sort option through the sort control
func (s *Inventory) Sort(option SortOption) error {
	return s.Select(SortDropdown, string(option), WaitBudget)
}
