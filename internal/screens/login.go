package screens

// Login screen locators
const (
	LoginUsername  Locator = "[data-test='username']"
	LoginPassword  Locator = "[data-test='password']"
	LoginButton    Locator = "[data-test='login-button']"
	LoginContainer Locator = ".login_container"
)

// Login is the sign-in screen
type Login struct {
	Page
}

// NewLogin creates a Login screen over p
func NewLogin(p Page) *Login {
	return &Login{Page: p}
}

// Login fills both credential fields and submits the form
func (s *Login) Login(username, password string) error {
	if err := s.Fill(LoginUsername, username); err != nil {
		return err
	}
	if err := s.Fill(LoginPassword, password); err != nil {
		return err
	}
	return s.Click(LoginButton)
}

// ErrorMessage returns the error banner text
func (s *Login) ErrorMessage() (string, error) {
	return s.Text(ErrorBanner)
}

// IsErrorVisible reports whether the error banner is shown
func (s *Login) IsErrorVisible() (bool, error) {
	return s.IsVisible(ErrorBanner)
}

// IsLoginPage reports whether the login form is shown
func (s *Login) IsLoginPage() (bool, error) {
	return s.IsVisible(LoginContainer)
}
