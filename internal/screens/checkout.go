package screens

// Checkout screen locators, step one
const (
	CheckoutFirstName  Locator = "[data-test='firstName']"
	CheckoutLastName   Locator = "[data-test='lastName']"
	CheckoutPostalCode Locator = "[data-test='postalCode']"
	CheckoutContinue   Locator = "[data-test='continue']"
)

// Checkout screen locators, step two and completion
const (
	CheckoutFinish Locator = "[data-test='finish']"
	CheckoutTotal  Locator = ".summary_total_label"
	CompleteHeader Locator = ".complete-header"
	CompleteText   Locator = ".complete-text"
	BackHomeButton Locator = "[data-test='back-to-products']"
)

// Checkout covers the information, overview and completion steps
type Checkout struct {
	Page
}

// NewCheckout creates a Checkout screen over p
func NewCheckout(p Page) *Checkout {
	return &Checkout{Page: p}
}

// FillInfo fills the personal information form
func (s *Checkout) FillInfo(firstName, lastName, postalCode string) error {
	if err := s.Fill(CheckoutFirstName, firstName); err != nil {
		return err
	}
	if err := s.Fill(CheckoutLastName, lastName); err != nil {
		return err
	}
	return s.Fill(CheckoutPostalCode, postalCode)
}

// Continue submits the information form
func (s *Checkout) Continue() error {
	return s.Click(CheckoutContinue)
}

// Finish places the order from the overview step
func (s *Checkout) Finish() error {
	return s.Click(CheckoutFinish)
}

// ErrorMessage returns the error banner text, or "" when no banner is shown
func (s *Checkout) ErrorMessage() (string, error) {
	visible, err := s.IsVisible(ErrorBanner)
	if err != nil || !visible {
		return "", err
	}
	return s.Text(ErrorBanner)
}

// IsErrorVisible reports whether the error banner is shown
func (s *Checkout) IsErrorVisible() (bool, error) {
	return s.IsVisible(ErrorBanner)
}

// TotalPrice returns the overview total label
func (s *Checkout) TotalPrice() (string, error) {
	return s.Text(CheckoutTotal)
}

// IsOrderComplete reports whether the completion header is shown
func (s *Checkout) IsOrderComplete() (bool, error) {
	return s.IsVisible(CompleteHeader)
}

// CompleteMessage returns the completion text
func (s *Checkout) CompleteMessage() (string, error) {
	return s.Text(CompleteText)
}

// BackHome returns to the inventory from the completion screen
func (s *Checkout) BackHome() error {
	return s.Click(BackHomeButton)
}
