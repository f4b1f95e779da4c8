package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/themizzi/saucecheck/internal/screens"
)

const pollInterval = 100 * time.Millisecond

// RodSession is a chrome process driven over CDP by rod
type RodSession struct {
	browser *rod.Browser
	opts    Options
}

// NewRodSession launches chrome (downloading it when missing) and connects to it
func NewRodSession(opts Options) (*RodSession, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("no-sandbox").
		Set("disable-gpu")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if opts.SlowMo > 0 {
		browser = browser.SlowMotion(opts.SlowMo)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	return &RodSession{browser: browser, opts: opts}, nil
}

// NewTab creates an incognito browsing context and opens a page in it
func (s *RodSession) NewTab(ctx context.Context) (Tab, error) {
	incognito, err := s.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	// the tab outlives ctx and must still close after it is cancelled
	incognito = incognito.Context(context.Background())
	if s.opts.IgnoreHTTPSErrors {
		if err := incognito.IgnoreCertErrors(true); err != nil {
			_ = incognito.Close()
			return nil, fmt.Errorf("failed to ignore certificate errors: %w", err)
		}
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.opts.Viewport.Width,
		Height:            s.opts.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &rodTab{
		ctx:     incognito,
		page:    page.Context(context.Background()),
		timeout: s.opts.ActionTimeout,
	}, nil
}

// Close closes chrome
func (s *RodSession) Close() error {
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

type rodTab struct {
	ctx     *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

func isXPath(sel screens.Locator) bool {
	return strings.HasPrefix(string(sel), "//") || strings.HasPrefix(string(sel), "xpath=")
}

func xpath(sel screens.Locator) string {
	return strings.TrimPrefix(string(sel), "xpath=")
}

// element waits up to timeout for the first match of sel. The element keeps
// that deadline for follow-up actions until release is called.
func (t *rodTab) element(sel screens.Locator, timeout time.Duration) (el *rod.Element, release func(), err error) {
	page := t.page.Timeout(timeout)
	if isXPath(sel) {
		el, err = page.ElementX(xpath(sel))
	} else {
		el, err = page.Element(string(sel))
	}
	if err != nil {
		page.CancelTimeout()
		return nil, nil, err
	}
	return el, func() { page.CancelTimeout() }, nil
}

// elements returns the current matches of sel without waiting
func (t *rodTab) elements(sel screens.Locator) (rod.Elements, error) {
	if isXPath(sel) {
		return t.page.ElementsX(xpath(sel))
	}
	return t.page.Elements(string(sel))
}

// nth polls until sel has more than index matches
func (t *rodTab) nth(sel screens.Locator, index int) (*rod.Element, error) {
	deadline := time.Now().Add(t.timeout)
	for {
		els, err := t.elements(sel)
		if err != nil {
			return nil, err
		}
		if index < len(els) {
			return els[index], nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s index %d after %v", screens.ErrTimeout, sel, index, t.timeout)
		}
		time.Sleep(pollInterval)
	}
}

func (t *rodTab) Navigate(url string) error {
	page := t.page.Timeout(t.timeout)
	defer page.CancelTimeout()
	if err := page.Navigate(url); err != nil {
		return rodErr("navigate to", screens.Locator(url), err)
	}
	return rodErr("load", screens.Locator(url), page.WaitLoad())
}

func (t *rodTab) Click(sel screens.Locator) error {
	el, release, err := t.element(sel, t.timeout)
	if err != nil {
		return rodErr("click", sel, err)
	}
	defer release()
	return rodErr("click", sel, el.Click(proto.InputMouseButtonLeft, 1))
}

func (t *rodTab) Fill(sel screens.Locator, text string) error {
	el, release, err := t.element(sel, t.timeout)
	if err != nil {
		return rodErr("fill", sel, err)
	}
	defer release()
	if err := el.SelectAllText(); err != nil {
		return rodErr("fill", sel, err)
	}
	if text == "" {
		return rodErr("fill", sel, t.page.Keyboard.Press(input.Backspace))
	}
	return rodErr("fill", sel, el.Input(text))
}

func (t *rodTab) Text(sel screens.Locator) (string, error) {
	el, release, err := t.element(sel, t.timeout)
	if err != nil {
		return "", rodErr("read text of", sel, err)
	}
	defer release()
	return textContent(el, sel)
}

func textContent(el *rod.Element, sel screens.Locator) (string, error) {
	v, err := el.Property("textContent")
	if err != nil {
		return "", rodErr("read text of", sel, err)
	}
	return v.Str(), nil
}

func (t *rodTab) IsVisible(sel screens.Locator) (bool, error) {
	els, err := t.elements(sel)
	if err != nil || len(els) == 0 {
		return false, rodErr("check visibility of", sel, err)
	}
	visible, err := els[0].Visible()
	return visible, rodErr("check visibility of", sel, err)
}

func (t *rodTab) WaitFor(sel screens.Locator, timeout time.Duration) error {
	el, release, err := t.element(sel, timeout)
	if err != nil {
		return rodErr("wait for", sel, err)
	}
	defer release()
	return rodErr("wait for", sel, el.WaitVisible())
}

func (t *rodTab) Count(sel screens.Locator) (int, error) {
	els, err := t.elements(sel)
	if err != nil {
		return 0, rodErr("count", sel, err)
	}
	return len(els), nil
}

func (t *rodTab) TextAt(sel screens.Locator, index int) (string, error) {
	el, err := t.nth(sel, index)
	if err != nil {
		return "", rodErr("read text of", sel, err)
	}
	return textContent(el, sel)
}

func (t *rodTab) ClickAt(sel screens.Locator, index int) error {
	el, err := t.nth(sel, index)
	if err != nil {
		return rodErr("click", sel, err)
	}
	return rodErr("click", sel, el.Click(proto.InputMouseButtonLeft, 1))
}

func (t *rodTab) Select(sel screens.Locator, value string, timeout time.Duration) error {
	el, release, err := t.element(sel, timeout)
	if err != nil {
		return rodErr("select "+value+" in", sel, err)
	}
	defer release()
	option := fmt.Sprintf("option[value=%q]", value)
	return rodErr("select "+value+" in", sel,
		el.Select([]string{option}, true, rod.SelectorTypeCSSSector))
}

func (t *rodTab) Pause(d time.Duration) {
	time.Sleep(d)
}

func (t *rodTab) URL() string {
	info, err := t.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (t *rodTab) Title() (string, error) {
	info, err := t.page.Info()
	if err != nil {
		return "", rodErr("read title", "", err)
	}
	return info.Title, nil
}

func (t *rodTab) WaitForURL(pattern string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for !screens.MatchURL(pattern, t.URL()) {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: url %s did not match %s after %v", screens.ErrTimeout, t.URL(), pattern, timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

func (t *rodTab) Screenshot(path string) error {
	img, err := t.page.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

func (t *rodTab) Close() error {
	var errs []error
	if err := t.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if err := t.ctx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser context: %w", err))
	}
	return errors.Join(errs...)
}

// rodErr maps rod deadlines and lookups onto the screens error taxonomy
func rodErr(op string, sel screens.Locator, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s: %w", screens.ErrTimeout, op, sel, err)
	}
	if errors.Is(err, screens.ErrTimeout) {
		return err
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s %s: %w", screens.ErrNotFound, op, sel, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, sel, err)
}
