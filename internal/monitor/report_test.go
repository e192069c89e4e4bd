package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummary_Report(t *testing.T) {
	s := Summary{
		Sources:       2,
		SourcesFailed: 1,
		JobsFound:     9,
		NewJobs:       3,
		Notified:      2,
		Failed:        1,
		SeenTotal:     40,
		StateReset:    true,
		Interrupted:   true,
		Duration:      42*time.Second + 400*time.Millisecond,
	}

	out := s.Report()
	assert.Contains(t, out, "Run complete. 2 new job(s) notified.")
	assert.Contains(t, out, "Sources polled:   2 (1 failed)")
	assert.Contains(t, out, "New jobs:         3")
	assert.Contains(t, out, "Failed to send:   1")
	assert.Contains(t, out, "Seen jobs stored: 40")
	assert.Contains(t, out, "started from empty")
	assert.Contains(t, out, "Run was cancelled")
	assert.Contains(t, out, "Took:             42s")
}

func TestSummary_ReportQuietRun(t *testing.T) {
	out := Summary{Sources: 2}.Report()
	assert.Contains(t, out, "Run complete. 0 new job(s) notified.")
	assert.NotContains(t, out, "Failed to send")
	assert.NotContains(t, out, "started from empty")
	assert.NotContains(t, out, "cancelled")
}
