// Package monitor runs one polling pass: load the seen set, poll every
// source in order, notify jobs not seen before, then save and report.
package monitor

import (
	"context"
	"time"

	"go-jobwatch/internal/config"
	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing"
	"go-jobwatch/internal/notify"
	"go-jobwatch/internal/seen"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Notifier delivers one formatted message to the configured chat.
type Notifier interface {
	Deliver(ctx context.Context, text string) error
}

// ErrStateLoad is returned when the seen set could not be loaded and the
// configured policy is to stop.
var ErrStateLoad = errors.New("could not load seen state")

// errNotAttempted marks a delivery that never reached the notifier.
var errNotAttempted = errors.New("delivery not attempted")

// saveTimeout bounds the final save, which runs even after ctx is done.
const saveTimeout = 30 * time.Second

// Summary reports what one run did.
type Summary struct {
	Sources       int
	SourcesFailed int
	JobsFound     int
	NewJobs       int
	Notified      int
	Failed        int
	SeenTotal     int
	StateReset    bool
	Interrupted   bool
	Duration      time.Duration
}

type Runner struct {
	cfg      *config.Config
	source   listing.Source
	store    seen.Store
	notifier Notifier
	pacer    *rate.Limiter
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewRunner(cfg *config.Config, source listing.Source, store seen.Store, notifier Notifier, log *zap.SugaredLogger) *Runner {
	return &Runner{
		cfg:      cfg,
		source:   source,
		store:    store,
		notifier: notifier,
		pacer:    newPacer(cfg.Notify.Interval),
		log:      log,
		now:      time.Now,
	}
}

// newPacer allows one delivery immediately and then one per interval.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Run makes one full pass over the configured sources. Source and delivery
// failures never stop the pass; the returned error is non-nil only when
// state could not be loaded under the "fail" policy or could not be saved.
// Cancelling ctx stops the pass before the next fetch or send. Jobs not sent
// by then are neither counted nor marked seen.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := r.now()
	summary := Summary{Sources: len(r.cfg.Sources)}

	set, err := r.store.Load(ctx)
	if err != nil {
		if r.cfg.State.OnLoadError == config.OnLoadErrorFail {
			r.log.Errorf("❌ Failed to load seen jobs: %v", err)
			summary.Duration = r.now().Sub(start)
			return summary, errors.Mark(errors.Wrap(err, "load seen state"), ErrStateLoad)
		}
		r.log.Warnf("⚠️ Failed to load seen jobs, starting from an empty set: %v", err)
		if hints := errors.FlattenHints(err); hints != "" {
			r.log.Warnf("   %s", hints)
		}
		set = seen.NewSet()
		summary.StateReset = true
	}
	r.log.Infof("📋 Loaded %d previously seen jobs", set.Len())

	// identities attempted this run, delivered or not
	attempted := seen.NewSet()

sources:
	for _, src := range r.cfg.Sources {
		if ctx.Err() != nil {
			r.log.Warnf("⏹ Run cancelled, skipping remaining sources: %v", ctx.Err())
			summary.Interrupted = true
			break
		}

		jobs, err := r.source.Fetch(ctx, src.URL, src.Label)
		if err != nil {
			summary.SourcesFailed++
			r.log.Warnf("❌ Source %q failed: %v", src.Label, err)
			continue
		}
		summary.JobsFound += len(jobs)

		for _, job := range jobs {
			id := listing.Identity(job)
			if set.Has(id) || attempted.Has(id) {
				continue
			}
			if ctx.Err() != nil {
				r.log.Warnf("⏹ Run cancelled, remaining jobs stay unseen: %v", ctx.Err())
				summary.Interrupted = true
				break sources
			}

			err := r.deliver(ctx, notify.FormatJob(job))
			// a send cut short by cancellation may not have gone out
			if err != nil && (ctx.Err() != nil || errors.Is(err, errNotAttempted)) {
				r.log.Warnf("⏹ Run stopped before %q was sent: %v", job.Title, err)
				summary.Interrupted = true
				break sources
			}

			attempted.Add(id)
			summary.NewJobs++
			r.log.Infof("🔔 NEW JOB: %s @ %s", job.Title, job.Location)

			if err != nil {
				summary.Failed++
				r.log.Warnf("⚠️ Failed to send job to Telegram: %v", err)
				if !r.cfg.Notify.MarkSeenOnFailure {
					continue
				}
			} else {
				summary.Notified++
				r.log.Info("  ✅ Telegram message sent")
			}
			set.Add(id)
		}
	}

	if r.cfg.Notify.SendSummary && summary.NewJobs > 0 && ctx.Err() == nil {
		if err := r.deliver(ctx, notify.FormatSummary(summary.NewJobs, summary.Notified, summary.Failed)); err != nil {
			r.log.Warnf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	summary.SeenTotal = set.Len()

	// save even when ctx is done so delivered jobs are not sent again
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := r.store.Save(saveCtx, set); err != nil {
		r.log.Errorf("❌ Failed to save seen jobs: %v", err)
		summary.Duration = r.now().Sub(start)
		return summary, errors.Wrap(err, "save seen state")
	}
	r.log.Infof("💾 Saved %d seen jobs", set.Len())

	summary.Duration = r.now().Sub(start)
	return summary, nil
}

// deliver waits for the pacer and sends one message.
func (r *Runner) deliver(ctx context.Context, text string) error {
	if err := r.pacer.Wait(ctx); err != nil {
		return errors.Mark(errors.Wrap(err, "wait for send slot"), errNotAttempted)
	}
	return r.notifier.Deliver(ctx, text)
}
