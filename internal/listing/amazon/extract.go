package amazon

import (
	"time"

	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing"

	"go.uber.org/zap"
)

// Page is the part of a browser tab the extraction steps drive. Selectors
// use Playwright syntax and always act on the first match.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Click(selector string, timeout time.Duration) error
	WaitVisible(selector string, timeout time.Duration) error
	Pause(d time.Duration)
	ScrollToBottom() error
	Content() (string, error)
}

// ErrNoCards means the results list never rendered.
var ErrNoCards = errors.New("no job cards appeared")

const (
	cookieContinue = "text=Continue without accepting"
	cookieAccept   = "text=Accept all"
)

var modalCloseSelectors = []string{
	"button[aria-label='Close']",
	"[role='dialog'] button",
	"[class*='modal'] button",
}

// Timing holds the waits of one extraction.
type Timing struct {
	Navigation     time.Duration
	Settle         time.Duration
	Cards          time.Duration
	CardsSettle    time.Duration
	CookieBanner   time.Duration
	CookieFallback time.Duration
	Modal          time.Duration
	AfterCookie    time.Duration
	AfterModal     time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Navigation:     60 * time.Second,
		Settle:         3 * time.Second,
		Cards:          20 * time.Second,
		CardsSettle:    time.Second,
		CookieBanner:   8 * time.Second,
		CookieFallback: 3 * time.Second,
		Modal:          4 * time.Second,
		AfterCookie:    1500 * time.Millisecond,
		AfterModal:     time.Second,
	}
}

// Dismissed reports which overlays DismissPopups closed. Empty strings mean
// nothing was found.
type Dismissed struct {
	CookieBanner string
	Modal        string
}

// DismissPopups closes the cookie banner (declining when the site allows it)
// and then the "tell us about yourself" modal. Missing overlays are normal.
func DismissPopups(page Page, timing Timing, log *zap.SugaredLogger) Dismissed {
	var d Dismissed

	if err := page.WaitVisible(cookieContinue, timing.CookieBanner); err == nil {
		if err := page.Click(cookieContinue, timing.CookieFallback); err == nil {
			page.Pause(timing.AfterCookie)
			d.CookieBanner = cookieContinue
			log.Info("  🍪 Cookie banner dismissed")
		}
	} else if err := page.Click(cookieAccept, timing.CookieFallback); err == nil {
		page.Pause(timing.AfterCookie)
		d.CookieBanner = cookieAccept
		log.Info("  🍪 Cookie banner accepted")
	}

	for _, sel := range modalCloseSelectors {
		if err := page.Click(sel, timing.Modal); err != nil {
			continue
		}
		page.Pause(timing.AfterModal)
		d.Modal = sel
		log.Info("  👤 Profile modal dismissed")
		break
	}
	return d
}

// Extract loads url in page, clears overlays, waits for the results and
// parses every card on it.
func Extract(page Page, url, label string, timing Timing, log *zap.SugaredLogger) ([]listing.Job, error) {
	if err := page.Goto(url, timing.Navigation); err != nil {
		return nil, errors.Wrapf(err, "navigate to %s", url)
	}
	page.Pause(timing.Settle)

	DismissPopups(page, timing, log)

	if err := page.WaitVisible(cardSelector, timing.Cards); err != nil {
		log.Warnf("  ❌ No job cards appeared within %v", timing.Cards)
		return nil, errors.Mark(errors.Wrap(err, "wait for job cards"), ErrNoCards)
	}
	page.Pause(timing.CardsSettle)

	if err := page.ScrollToBottom(); err != nil {
		log.Debugf("  scroll failed: %v", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, errors.Wrap(err, "read page content")
	}

	parsed, err := ParseCards(html, label, url)
	if err != nil {
		return nil, err
	}
	log.Infof("  📋 %d card slots found", parsed.Slots)

	for _, s := range parsed.Skipped {
		if errors.Is(s.Reason, ErrEmptyCard) {
			continue
		}
		log.Warnf("  [Warning] skipped card %d: %v", s.Index, s.Reason)
	}
	for _, job := range parsed.Jobs {
		log.Infof("  ✅ %s | %s | %s | %s", job.Title, job.Type, job.Pay, job.Location)
	}
	log.Infof("  → %d valid job(s) extracted", len(parsed.Jobs))

	return parsed.Jobs, nil
}
