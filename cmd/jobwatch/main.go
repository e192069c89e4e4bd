package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-jobwatch/internal/browser"
	"go-jobwatch/internal/config"
	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing/amazon"
	"go-jobwatch/internal/logger"
	"go-jobwatch/internal/monitor"
	"go-jobwatch/internal/notify"
	"go-jobwatch/internal/seen"

	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	//load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.New("info").Errorf("❌ Invalid config: %v", err)
		return 2
	}

	log := logger.New(cfg.LogLevel).With("run", uuid.NewString()[:8])
	defer log.Sync() //nolint:errcheck

	fmt.Println("==================================================")
	fmt.Println("Amazon Jobs Watch: starting run")
	fmt.Println("==================================================")
	log.Infof("🔧 Config loaded. %d source(s), state backend %s", len(cfg.Sources), cfg.State.Backend)

	//one run at a time
	lock, err := monitor.AcquireLock(cfg.State.LockPath)
	if err != nil {
		if errors.Is(err, monitor.ErrLocked) {
			log.Warnf("⏭ %v; skipping this run", err)
			return 0
		}
		log.Errorf("❌ Failed to acquire run lock: %v", err)
		return 1
	}
	defer lock.Release() //nolint:errcheck

	//setup context with run timeout, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	//init telegram
	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Errorf("❌ Failed to init Telegram Bot: %v", err)
		return 1
	}
	if err := notifier.Connect(ctx); err != nil {
		// deliveries retry the connection; the run still polls every source
		log.Warnf("⚠️ Telegram Bot unreachable, will retry on send: %v", err)
	} else {
		log.Info("🤖 Telegram Bot initialized.")
	}

	//open state
	store, err := seen.Open(ctx, cfg.State)
	if err != nil {
		log.Errorf("❌ Failed to open seen state: %v", err)
		return 1
	}
	defer store.Close()

	//init playwright manager
	pm, err := browser.NewPlaywright(cfg.Browser, log)
	if err != nil {
		log.Errorf("❌ Failed to init Playwright: %v", err)
		return 1
	}
	defer pm.Close()
	log.Info("✅ Browser initialized successfully!")

	source := amazon.NewSource(pm, cfg.Browser, log)
	runner := monitor.NewRunner(cfg, source, store, notifier, log)

	summary, err := runner.Run(ctx)
	fmt.Println()
	fmt.Println(summary.Report())
	if err != nil {
		log.Errorf("❌ Run finished with error: %v", err)
		return 1
	}

	log.Info("🏁 Execution finished.")
	return 0
}
