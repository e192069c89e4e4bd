// Render an Amazon hourly jobs search page with Playwright
// Dismiss overlays, wait for the card grid, hand the HTML to the parser

package amazon

import (
	"context"

	"go-jobwatch/internal/browser"
	"go-jobwatch/internal/config"
	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing"

	"go.uber.org/zap"
)

// TabOpener hands out a fresh browser tab per fetch.
type TabOpener interface {
	NewTab() (*browser.Tab, error)
}

type Source struct {
	tabs   TabOpener
	timing Timing
	shots  *browser.ScreenshotDebugger
	log    *zap.SugaredLogger
}

var _ listing.Source = (*Source)(nil)

func NewSource(tabs TabOpener, cfg config.BrowserConfig, log *zap.SugaredLogger) *Source {
	timing := DefaultTiming()
	if cfg.NavigationTimeout > 0 {
		timing.Navigation = cfg.NavigationTimeout
	}
	if cfg.CardsTimeout > 0 {
		timing.Cards = cfg.CardsTimeout
	}
	return &Source{
		tabs:   tabs,
		timing: timing,
		shots:  browser.NewScreenshotDebugger(cfg.ScreenshotDir, log),
		log:    log,
	}
}

func (s *Source) Fetch(ctx context.Context, locator, label string) ([]listing.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Infof("[Scraping] %s", label)

	tab, err := s.tabs.NewTab()
	if err != nil {
		return nil, errors.Wrap(err, "open tab")
	}
	defer func() {
		if err := tab.Close(); err != nil {
			s.log.Debugf("close tab: %v", err)
		}
	}()

	jobs, err := Extract(tab, locator, label, s.timing, s.log)
	if errors.Is(err, ErrNoCards) {
		_, _ = s.shots.CaptureAndLog(tab, "amazon-no-cards-"+label, "🚨 Amazon: no job cards for "+label)
	}
	return jobs, err
}
