package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"entradalert/internal/bot"
	"entradalert/internal/browser"
	"entradalert/internal/config"
	"entradalert/internal/datastore"
	"entradalert/internal/detect"
	"entradalert/internal/logger"
	"entradalert/internal/monitor"
	"entradalert/internal/notifier"
	"entradalert/internal/rslimiter"
)

func main() {
	fmt.Println("entradalert starting...")
	flags := parseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.configFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config from '%s': %v", flags.configFile, err)
	}
	gCfg.MonitorConfig.TargetURLs = append(gCfg.MonitorConfig.TargetURLs, flags.urls...)

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	if len(gCfg.MonitorConfig.TargetURLs) == 0 {
		zLogger.Fatal().Msg("No target URLs configured. Set monitor_config.target_urls, ENTRADALERT_URLS, or pass -url")
	}

	// Missing Telegram credentials degrade to log-only instead of refusing to
	// start, so detection can be tried out before a bot exists.
	missing := config.MissingCredentials(gCfg)
	for _, name := range missing {
		zLogger.Warn().Str("credential", name).Msg("Credential not configured, notifications disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, gCfg, flags, zLogger, len(missing) == 0); err != nil {
		zLogger.Error().Err(err).Msg("Service failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc, gCfg *config.GlobalConfig, flags cliFlags, zLogger zerolog.Logger, credentialed bool) error {
	manager := browser.NewManager(gCfg.BrowserConfig, zLogger)
	if err := manager.Start(); err != nil {
		return err
	}
	defer manager.Stop()

	store, err := datastore.NewStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	profiles := detect.NewProfileTable(gCfg.VendorProfiles)
	classifier := detect.NewClassifier(gCfg.DetectionConfig, profiles, zLogger)
	sectors := detect.NewSectorExtractor(gCfg.DetectionConfig, zLogger)
	checker := detect.NewPageChecker(manager, classifier, sectors, zLogger)

	stateStore := monitor.NewStateStore(gCfg.MonitorConfig.TargetURLs)

	var helper *notifier.NotificationHelper
	var client *notifier.TelegramClient
	if credentialed {
		client, err = notifier.NewTelegramClient(gCfg.NotificationConfig.TelegramBotToken)
		if err != nil {
			return err
		}
		helper, err = notifier.NewNotificationHelper(client, gCfg.NotificationConfig, gCfg.MonitorConfig, zLogger)
		if err != nil {
			return err
		}
	}

	var serviceNotifier monitor.Notifier
	if helper != nil {
		serviceNotifier = helper
	}
	service := monitor.NewService(gCfg.MonitorConfig, checker, serviceNotifier, stateStore, store, zLogger)

	persisted, err := store.LoadStates(ctx)
	if err != nil {
		zLogger.Warn().Err(err).Msg("Could not load persisted states, starting fresh")
	} else {
		service.Seed(persisted)
	}
	if _, err := store.PruneHistory(ctx); err != nil {
		zLogger.Warn().Err(err).Msg("History pruning failed")
	}

	watchdog := rslimiter.NewWatchdog(gCfg.ResourceConfig, zLogger)
	watchdog.SetShutdownCallback(func(reason string) {
		zLogger.Warn().Str("reason", reason).Msg("Shutting down on resource pressure")
		stop()
	})
	watchdog.Start()
	defer watchdog.Stop()

	if flags.once {
		service.RunCycle(ctx)
		return nil
	}

	if helper != nil && gCfg.NotificationConfig.NotifyOnStartup {
		helper.NotifyStartup(ctx, gCfg.MonitorConfig.TargetURLs)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		service.Run(ctx)
	}()

	if credentialed && gCfg.BotConfig.Enabled {
		handler := bot.NewCommandHandler(stateStore, checker, helper.Formatter(), zLogger)
		poller := bot.NewPoller(client, gCfg.BotConfig, handler, zLogger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	}

	<-ctx.Done()
	zLogger.Info().Msg("Shutdown signal received, waiting for loops to finish")
	wg.Wait()
	return nil
}
