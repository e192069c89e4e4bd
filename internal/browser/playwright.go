package browser

import (
	"time"

	"go-jobwatch/internal/config"
	"go-jobwatch/internal/errors"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// PlaywrightManager owns the Playwright driver and one chromium instance for
// the whole run. Every tab gets its own browser context so each fetch starts
// from a clean render.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.BrowserConfig
	cookies []playwright.OptionalCookie
	log     *zap.SugaredLogger
}

func NewPlaywright(cfg config.BrowserConfig, log *zap.SugaredLogger) (*PlaywrightManager, error) {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		loaded, err := LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Warnf("⚠️ Could not load cookies from %s: %v. Continuing.", cfg.CookiesPath, err)
		} else {
			log.Infof("🍪 Loaded %d cookies", len(loaded))
			cookies = loaded
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "could not start playwright")
	}

	headless := true
	if cfg.Headless != nil {
		headless = *cfg.Headless
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errors.Wrap(err, "could not launch chromium browser")
	}

	return &PlaywrightManager{
		pw:      pw,
		browser: b,
		cfg:     cfg,
		cookies: cookies,
		log:     log,
	}, nil
}

// NewTab opens a fresh browser context with the configured identity and
// returns its only page.
func (pm *PlaywrightManager) NewTab() (*Tab, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(pm.cfg.UserAgent),
		Viewport: &playwright.Size{
			Width:  pm.cfg.ViewportWidth,
			Height: pm.cfg.ViewportHeight,
		},
		Locale: playwright.String(pm.cfg.Locale),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create browser context")
	}

	if len(pm.cookies) > 0 {
		if err := bctx.AddCookies(pm.cookies); err != nil {
			pm.log.Warnf("⚠️ Failed to add cookies: %v", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, errors.Wrap(err, "create page")
	}
	return &Tab{bctx: bctx, page: page}, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs error
	if pm.browser != nil {
		errs = errors.CombineErrors(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = errors.CombineErrors(errs, pm.pw.Stop())
	}
	return errs
}

// Tab is one page inside its own browser context.
type Tab struct {
	bctx playwright.BrowserContext
	page playwright.Page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (t *Tab) Goto(url string, timeout time.Duration) error {
	_, err := t.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(timeout),
	})
	return err
}

func (t *Tab) Click(selector string, timeout time.Duration) error {
	return t.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
	})
}

func (t *Tab) WaitVisible(selector string, timeout time.Duration) error {
	return t.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (t *Tab) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	t.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (t *Tab) Content() (string, error) {
	return t.page.Content()
}

func (t *Tab) Screenshot(path string) error {
	_, err := t.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close closes the page and its browser context.
func (t *Tab) Close() error {
	return t.bctx.Close()
}
