// Package screenstest provides an in-memory Sauce Demo double that satisfies
// screens.Page, so screen objects and scenarios run without a browser.
package screenstest

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/saucecheck/internal/screens"
)

// Product is a catalog entry of the storefront double
type Product struct {
	Name  string
	Price float64
}

// Catalog mirrors the six products of the live storefront
var Catalog = []Product{
	{Name: "Sauce Labs Backpack", Price: 29.99},
	{Name: "Sauce Labs Bike Light", Price: 9.99},
	{Name: "Sauce Labs Bolt T-Shirt", Price: 15.99},
	{Name: "Sauce Labs Fleece Jacket", Price: 49.99},
	{Name: "Sauce Labs Onesie", Price: 7.99},
	{Name: "Test.allTheThings() T-Shirt (Red)", Price: 15.99},
}

// Banner texts rendered by the storefront double
const (
	MsgLockedOut        = "Epic sadface: Sorry, this user has been locked out."
	MsgBadCredentials   = "Epic sadface: Username and password do not match any user in this service"
	MsgUsernameRequired = "Epic sadface: Username is required"
	MsgPasswordRequired = "Epic sadface: Password is required"
	MsgFirstName        = "Error: First Name is required"
	MsgLastName         = "Error: Last Name is required"
	MsgPostalCode       = "Error: Postal Code is required"
	MsgCompleteHeader   = "Thank you for your order!"
	MsgCompleteText     = "Your order has been dispatched, and will arrive just as fast as the pony can get there!"
)

// Page paths relative to the base URL
const (
	PathLogin    = ""
	PathInv      = "inventory.html"
	PathCart     = "cart.html"
	PathStepOne  = "checkout-step-one.html"
	PathStepTwo  = "checkout-step-two.html"
	PathComplete = "checkout-complete.html"
)

const password = "secret_sauce"

var users = map[string]bool{
	"standard_user":           true,
	"locked_out_user":         true,
	"problem_user":            true,
	"performance_glitch_user": true,
}

// Storefront is a single-tab storefront double. It is not safe for concurrent
// use, like a real page.
type Storefront struct {
	// SortBroken makes the sort control time out
	SortBroken bool

	baseURL string
	path    string
	user    string
	cart    []int
	sort    screens.SortOption
	fields  map[screens.Locator]string
	banner  string
	paused  time.Duration
	closed  bool
	shots   []string
}

// NewStorefront creates a storefront double served at baseURL
func NewStorefront(baseURL string) *Storefront {
	return &Storefront{
		baseURL: baseURL,
		path:    PathLogin,
		sort:    screens.SortNameAsc,
		fields:  map[screens.Locator]string{},
	}
}

type element struct {
	text  string
	click func() error
}

// Navigate loads url. Pages other than login redirect to login when no user is
// signed in.
func (s *Storefront) Navigate(url string) error {
	if !strings.HasPrefix(url, s.baseURL) {
		return fmt.Errorf("failed to navigate to %s: unknown host", url)
	}
	path := strings.TrimPrefix(url, s.baseURL)
	switch path {
	case PathLogin, PathInv, PathCart, PathStepOne, PathStepTwo, PathComplete:
	default:
		return fmt.Errorf("failed to navigate to %s: 404", url)
	}

	if path != PathLogin && s.user == "" {
		s.goTo(PathLogin)
		s.banner = fmt.Sprintf("Epic sadface: You can only access '/%s' when you are logged in.", path)
		return nil
	}
	s.goTo(path)
	return nil
}

func (s *Storefront) goTo(path string) {
	s.path = path
	s.banner = ""
	s.fields = map[screens.Locator]string{}
}

// Click clicks the first element matching sel
func (s *Storefront) Click(sel screens.Locator) error {
	return s.ClickAt(sel, 0)
}

// Fill sets the value of an input on the current page
func (s *Storefront) Fill(sel screens.Locator, text string) error {
	if !slices.Contains(s.inputs(), sel) {
		return notFound(sel)
	}
	s.fields[sel] = text
	return nil
}

// Text returns the text of the first element matching sel
func (s *Storefront) Text(sel screens.Locator) (string, error) {
	return s.TextAt(sel, 0)
}

// IsVisible reports whether sel matches any element
func (s *Storefront) IsVisible(sel screens.Locator) (bool, error) {
	return len(s.elements(sel)) > 0, nil
}

// WaitFor fails with screens.ErrTimeout when sel is not present
func (s *Storefront) WaitFor(sel screens.Locator, timeout time.Duration) error {
	if len(s.elements(sel)) == 0 {
		return fmt.Errorf("%w: %s after %v", screens.ErrTimeout, sel, timeout)
	}
	return nil
}

// Count returns the number of elements matching sel
func (s *Storefront) Count(sel screens.Locator) (int, error) {
	return len(s.elements(sel)), nil
}

// TextAt returns the text of the index-th element matching sel
func (s *Storefront) TextAt(sel screens.Locator, index int) (string, error) {
	els := s.elements(sel)
	if index < 0 || index >= len(els) {
		return "", notFound(sel)
	}
	return els[index].text, nil
}

// ClickAt clicks the index-th element matching sel
func (s *Storefront) ClickAt(sel screens.Locator, index int) error {
	els := s.elements(sel)
	if index < 0 || index >= len(els) {
		return notFound(sel)
	}
	if els[index].click == nil {
		return nil
	}
	return els[index].click()
}

// Select picks a sort option on the inventory page
func (s *Storefront) Select(sel screens.Locator, value string, timeout time.Duration) error {
	if sel != screens.SortDropdown || s.path != PathInv {
		return notFound(sel)
	}
	if s.SortBroken {
		return fmt.Errorf("%w: select %q on %s after %v", screens.ErrTimeout, value, sel, timeout)
	}
	switch opt := screens.SortOption(value); opt {
	case screens.SortNameAsc, screens.SortNameDesc, screens.SortPriceAsc, screens.SortPriceDesc:
		s.sort = opt
		return nil
	default:
		return fmt.Errorf("%w: no option %q", screens.ErrTimeout, value)
	}
}

// Pause records the delay without sleeping
func (s *Storefront) Pause(d time.Duration) {
	s.paused += d
}

// Paused returns the total delay requested through Pause
func (s *Storefront) Paused() time.Duration {
	return s.paused
}

// URL returns the current page URL
func (s *Storefront) URL() string {
	return s.baseURL + s.path
}

// Title returns the document title
func (s *Storefront) Title() (string, error) {
	return "Swag Labs", nil
}

// WaitForURL fails with screens.ErrTimeout when the current URL does not match
func (s *Storefront) WaitForURL(pattern string, timeout time.Duration) error {
	if !screens.MatchURL(pattern, s.URL()) {
		return fmt.Errorf("%w: url %s did not match %s after %v", screens.ErrTimeout, s.URL(), pattern, timeout)
	}
	return nil
}

// Screenshot writes a placeholder image to path
func (s *Storefront) Screenshot(path string) error {
	s.shots = append(s.shots, path)
	return os.WriteFile(path, []byte("PNG "+s.URL()), 0o644)
}

// Close marks the tab closed
func (s *Storefront) Close() error {
	s.closed = true
	return nil
}

// Screenshots returns the paths written by Screenshot
func (s *Storefront) Screenshots() []string {
	return s.shots
}

// Closed reports whether Close was called
func (s *Storefront) Closed() bool {
	return s.closed
}

// CartSize returns the number of products in the cart
func (s *Storefront) CartSize() int {
	return len(s.cart)
}

func notFound(sel screens.Locator) error {
	return fmt.Errorf("%w: %s", screens.ErrNotFound, sel)
}

func (s *Storefront) inputs() []screens.Locator {
	switch s.path {
	case PathLogin:
		return []screens.Locator{screens.LoginUsername, screens.LoginPassword}
	case PathStepOne:
		return []screens.Locator{screens.CheckoutFirstName, screens.CheckoutLastName, screens.CheckoutPostalCode}
	default:
		return nil
	}
}

// elements resolves sel against the current page
func (s *Storefront) elements(sel screens.Locator) []element {
	for _, in := range s.inputs() {
		if in == sel {
			return []element{{text: s.fields[sel]}}
		}
	}
	if sel == screens.ErrorBanner {
		if s.banner == "" {
			return nil
		}
		return []element{{text: s.banner}}
	}

	switch s.path {
	case PathLogin:
		return s.loginElements(sel)
	case PathComplete:
		if els := s.completeElements(sel); els != nil {
			return els
		}
	case PathInv:
		if els := s.inventoryElements(sel); els != nil {
			return els
		}
	case PathCart, PathStepTwo:
		if els := s.cartElements(sel); els != nil {
			return els
		}
	case PathStepOne:
		if sel == screens.CheckoutContinue {
			return []element{{text: "Continue", click: s.submitInfo}}
		}
	}
	return s.headerElements(sel)
}

func (s *Storefront) loginElements(sel screens.Locator) []element {
	switch sel {
	case screens.LoginContainer:
		return []element{{}}
	case screens.LoginButton:
		return []element{{text: "Login", click: s.submitLogin}}
	}
	return nil
}

func (s *Storefront) submitLogin() error {
	username := s.fields[screens.LoginUsername]
	pass := s.fields[screens.LoginPassword]

	switch {
	case username == "":
		s.banner = MsgUsernameRequired
	case pass == "":
		s.banner = MsgPasswordRequired
	case !users[username] || pass != password:
		s.banner = MsgBadCredentials
	case username == "locked_out_user":
		s.banner = MsgLockedOut
	default:
		s.user = username
		s.goTo(PathInv)
	}
	return nil
}

func (s *Storefront) headerElements(sel screens.Locator) []element {
	switch sel {
	case screens.CartBadge:
		if len(s.cart) == 0 {
			return nil
		}
		return []element{{text: strconv.Itoa(len(s.cart))}}
	case screens.CartLink:
		return []element{{click: func() error {
			s.goTo(PathCart)
			return nil
		}}}
	}
	return nil
}

// sorted returns catalog indexes in display order
func (s *Storefront) sorted() []int {
	order := make([]int, len(Catalog))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		pa, pb := Catalog[a], Catalog[b]
		switch s.sort {
		case screens.SortNameDesc:
			return strings.Compare(pb.Name, pa.Name)
		case screens.SortPriceAsc:
			return comparePrice(pa.Price, pb.Price)
		case screens.SortPriceDesc:
			return comparePrice(pb.Price, pa.Price)
		default:
			return strings.Compare(pa.Name, pb.Name)
		}
	})
	return order
}

func comparePrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s *Storefront) inCart(id int) bool {
	return slices.Contains(s.cart, id)
}

func (s *Storefront) add(id int) func() error {
	return func() error {
		if !s.inCart(id) {
			s.cart = append(s.cart, id)
		}
		return nil
	}
}

func (s *Storefront) remove(id int) func() error {
	return func() error {
		s.cart = slices.DeleteFunc(s.cart, func(v int) bool { return v == id })
		return nil
	}
}

func (s *Storefront) inventoryElements(sel screens.Locator) []element {
	order := s.sorted()
	var els []element

	switch sel {
	case screens.InventoryContainer:
		return []element{{}}
	case screens.SortDropdown:
		return []element{{text: string(s.sort)}}
	case screens.InventoryItem:
		for _, id := range order {
			els = append(els, element{text: Catalog[id].Name})
		}
	case screens.InventoryItemName:
		for _, id := range order {
			els = append(els, element{text: Catalog[id].Name})
		}
	case screens.InventoryItemPrice:
		for _, id := range order {
			els = append(els, element{text: formatPrice(Catalog[id].Price)})
		}
	case screens.AddToCartButton:
		for _, id := range order {
			if !s.inCart(id) {
				els = append(els, element{text: "Add to cart", click: s.add(id)})
			}
		}
	case screens.RemoveButton:
		for _, id := range order {
			if s.inCart(id) {
				els = append(els, element{text: "Remove", click: s.remove(id)})
			}
		}
	default:
		name, ok := rowButtonName(sel)
		if !ok {
			return nil
		}
		for _, id := range order {
			if strings.Contains(Catalog[id].Name, name) && !s.inCart(id) {
				els = append(els, element{text: "Add to cart", click: s.add(id)})
			}
		}
	}
	if els == nil {
		els = []element{}
	}
	return els
}

// rowButtonName extracts the name fragment from a screens.ProductRowButton locator
func rowButtonName(sel screens.Locator) (string, bool) {
	const prefix = "//div[contains(text(), '"
	raw := string(sel)
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	rest := raw[len(prefix):]
	end := strings.Index(rest, "')]")
	if end < 0 {
		return "", false
	}
	name := rest[:end]
	if screens.ProductRowButton(name) != sel {
		return "", false
	}
	return name, true
}

func (s *Storefront) cartElements(sel screens.Locator) []element {
	switch sel {
	case screens.CartList:
		return []element{{}}
	case screens.CartItem, screens.CartItemName:
		els := []element{}
		for _, id := range s.cart {
			els = append(els, element{text: Catalog[id].Name})
		}
		return els
	case screens.CartItemPrice:
		els := []element{}
		for _, id := range s.cart {
			els = append(els, element{text: formatPrice(Catalog[id].Price)})
		}
		return els
	case screens.CartQuantity:
		els := []element{}
		for range s.cart {
			els = append(els, element{text: "1"})
		}
		return els
	}

	if s.path == PathCart {
		switch sel {
		case screens.CartRemoveButton:
			els := []element{}
			for _, id := range s.cart {
				els = append(els, element{text: "Remove", click: s.remove(id)})
			}
			return els
		case screens.ContinueShoppingButton:
			return []element{{click: func() error {
				s.goTo(PathInv)
				return nil
			}}}
		case screens.CheckoutButton:
			return []element{{click: func() error {
				s.goTo(PathStepOne)
				return nil
			}}}
		}
		return nil
	}

	switch sel {
	case screens.CheckoutTotal:
		return []element{{text: "Total: " + formatPrice(s.total())}}
	case screens.CheckoutFinish:
		return []element{{click: func() error {
			s.cart = nil
			s.goTo(PathComplete)
			return nil
		}}}
	}
	return nil
}

func (s *Storefront) submitInfo() error {
	switch {
	case s.fields[screens.CheckoutFirstName] == "":
		s.banner = MsgFirstName
	case s.fields[screens.CheckoutLastName] == "":
		s.banner = MsgLastName
	case s.fields[screens.CheckoutPostalCode] == "":
		s.banner = MsgPostalCode
	default:
		s.goTo(PathStepTwo)
	}
	return nil
}

func (s *Storefront) total() float64 {
	var sum float64
	for _, id := range s.cart {
		sum += Catalog[id].Price
	}
	return sum * 1.08
}

func (s *Storefront) completeElements(sel screens.Locator) []element {
	switch sel {
	case screens.CompleteHeader:
		return []element{{text: MsgCompleteHeader}}
	case screens.CompleteText:
		return []element{{text: MsgCompleteText}}
	case screens.BackHomeButton:
		return []element{{click: func() error {
			s.goTo(PathInv)
			return nil
		}}}
	}
	return nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
