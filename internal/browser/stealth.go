package browser

import (
	"math/rand"
	"time"
)

// RandomDelay waits for a random duration between min and max milliseconds
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := rand.Intn(max-min+1) + min
	time.Sleep(time.Duration(duration) * time.Millisecond)
}

// ScrollToBottom scrolls like a reader would, then jumps to the end of the
// page so lazily rendered cards are in the DOM before it is read.
func (t *Tab) ScrollToBottom() error {
	if err := t.page.Mouse().Wheel(0, 500); err != nil {
		return err
	}
	RandomDelay(300, 700)

	// scroll back up a bit (human-like correction)
	if err := t.page.Mouse().Wheel(0, -200); err != nil {
		return err
	}
	RandomDelay(200, 500)

	_, err := t.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
