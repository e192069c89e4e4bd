package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Screenshotter is anything that can save a full-page screenshot to a path.
type Screenshotter interface {
	Screenshot(path string) error
}

// ScreenshotDebugger handles debug screenshots
type ScreenshotDebugger struct {
	outputDir string
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewScreenshotDebugger(dir string, log *zap.SugaredLogger) *ScreenshotDebugger {
	return &ScreenshotDebugger{
		outputDir: dir,
		log:       log,
		now:       time.Now,
	}
}

// CaptureAndLog saves a screenshot named after name and the current time.
// It returns the file path written.
func (s *ScreenshotDebugger) CaptureAndLog(page Screenshotter, name, message string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.log.Warnf("⚠️ Failed to create screenshot directory: %v", err)
		return "", err
	}

	timestamp := s.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", Slug(name), timestamp)
	path := filepath.Join(s.outputDir, filename)
	s.log.Infof("📸 %s", message)

	if err := page.Screenshot(path); err != nil {
		s.log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return "", err
	}

	s.log.Infof("   Screenshot saved: %s", path)
	return path, nil
}

// Slug turns a label like "Sortation Operative" into "sortation-operative".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
