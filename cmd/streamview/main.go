// streamview is a headless demo driver for the catalog and playback
// stack: it fetches the configured showcase, prints the records, then
// plays the first one against the simulated player until the media
// ends or the process is interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/therealutkarshpriyadarshi/streamview/internal/cache"
	"github.com/therealutkarshpriyadarshi/streamview/internal/catalog"
	"github.com/therealutkarshpriyadarshi/streamview/internal/config"
	"github.com/therealutkarshpriyadarshi/streamview/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamview/internal/metrics"
	"github.com/therealutkarshpriyadarshi/streamview/internal/playback"
	"github.com/therealutkarshpriyadarshi/streamview/internal/player"
	"github.com/therealutkarshpriyadarshi/streamview/internal/tracing"
	"github.com/therealutkarshpriyadarshi/streamview/internal/vimeo"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Errorf("Metrics server failed: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(ctx)
		}()
	}

	var pageCache *cache.Cache
	if cfg.Redis.Enabled {
		pageCache, err = cache.New(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Fatalf("Failed to connect to cache: %v", err)
		}
		defer pageCache.Close()
	}

	api := vimeo.New(vimeo.Config{
		BaseURL:     cfg.API.BaseURL,
		AccessToken: cfg.API.AccessToken,
		UserAgent:   cfg.API.UserAgent,
		Timeout:     cfg.API.Timeout,
	})

	cat := catalog.New(api, pageCache, logger)
	defer cat.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := cat.CheckConnection(ctx); err != nil {
		logger.Warn("Continuing with fallback data only")
	}

	loaded := make(chan catalog.Snapshot, 1)
	unsubscribe := cat.Subscribe(func(s catalog.Snapshot) {
		if !s.Loading && len(s.Videos) > 0 {
			select {
			case loaded <- s:
			default:
			}
		}
	})

	cat.FetchShowcase(ctx, cfg.Showcases.Main)

	var snap catalog.Snapshot
	select {
	case snap = <-loaded:
	case <-ctx.Done():
		return
	}
	unsubscribe()

	for i, v := range snap.Videos {
		fmt.Printf("%2d. %-30s %4ds  %s\n", i+1, v.Name, v.Duration, v.ThumbnailURL())
	}
	if snap.ErrorMessage != "" {
		logger.Warnf("Catalog degraded: %s", snap.ErrorMessage)
	}

	video := snap.Videos[0]
	factory := player.Factory(float64(video.Duration), cfg.Playback.TickInterval)
	session, err := playback.Start(video, factory, playback.Config{
		ControlsTimeout:   cfg.Playback.ControlsTimeout,
		LoadTimeout:       cfg.Playback.LoadTimeout,
		FallbackStreamURL: cfg.Playback.FallbackStreamURL,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatalf("Failed to start playback: %v", err)
	}
	defer session.Close()

	finished := make(chan struct{}, 1)
	cancelSub := session.Subscribe(func(s playback.Snapshot) {
		switch {
		case s.State == playback.StateFailed:
			logger.Errorf("Playback failed: %v", s.Err)
			select {
			case finished <- struct{}{}:
			default:
			}
		case s.Duration > 0 && s.CurrentTime >= s.Duration:
			select {
			case finished <- struct{}{}:
			default:
			}
		default:
			fmt.Printf("\r[%s] %6.1f / %6.1f  controls=%v ",
				s.State, s.CurrentTime, s.Duration, s.ControlsVisible)
		}
	})
	defer cancelSub()

	select {
	case <-finished:
		fmt.Println()
		logger.WithVideoID(video.ID()).Info("Playback finished")
	case <-ctx.Done():
	}
}
