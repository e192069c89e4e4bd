package monitor

import (
	"fmt"
	"strings"
	"time"
)

// Report renders the plain-text execution summary printed at the end of a
// run.
func (s Summary) Report() string {
	rule := strings.Repeat("=", 50)
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Run complete. %d new job(s) notified.\n", s.Notified)
	fmt.Fprintf(&b, "  Sources polled:   %d (%d failed)\n", s.Sources, s.SourcesFailed)
	fmt.Fprintf(&b, "  Jobs on pages:    %d\n", s.JobsFound)
	fmt.Fprintf(&b, "  New jobs:         %d\n", s.NewJobs)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "  Failed to send:   %d\n", s.Failed)
	}
	fmt.Fprintf(&b, "  Seen jobs stored: %d\n", s.SeenTotal)
	if s.StateReset {
		fmt.Fprintln(&b, "  Previous state could not be read; started from empty.")
	}
	if s.Interrupted {
		fmt.Fprintln(&b, "  Run was cancelled; unsent jobs are picked up next run.")
	}
	fmt.Fprintf(&b, "  Took:             %s\n", s.Duration.Round(time.Second))
	fmt.Fprint(&b, rule)
	return b.String()
}
