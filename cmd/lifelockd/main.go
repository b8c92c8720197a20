package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/lifelockgo/lifelock/internal/lifelockd"
	"github.com/lifelockgo/lifelock/pkg/config"
	"github.com/lifelockgo/lifelock/pkg/ctime"
	"github.com/lifelockgo/lifelock/pkg/gc"
	"github.com/lifelockgo/lifelock/pkg/shutdown"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// clockResolution is how often the cached clock used on the widget
// read/write hot path is refreshed; writers there read an atomic instead
// of paying for a time.Now() syscall per request.
const clockResolution = 10 * time.Millisecond

const (
	configPath      = "config/lifelockd.cfg.yaml"
	configPathLocal = "config/lifelockd.cfg.local.yaml"
)

// setMaxProcs automatically sets the optimal GOMAXPROCS value (CPU
// parallelism) based on the available CPUs and cgroup/docker CPU quotas.
func setMaxProcs() {
	if _, err := maxprocs.Set(); err != nil {
		log.Err(err).Msg("[main] setting up GOMAXPROCS value failed")
		panic(err)
	}
	log.Info().Msgf("[main] optimized GOMAXPROCS=%d was set up", runtime.GOMAXPROCS(0))
}

// loadCfg loads the local override config if present, falling back to the
// checked-in default.
func loadCfg() (*config.Cache, error) {
	cfg, err := config.LoadConfig(configPathLocal)
	if err != nil {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Err(err).Msg("[config] failed to load")
			return nil, err
		}
		log.Info().Msgf("[config] config loaded from '%s'", configPath)
	} else {
		log.Info().Msgf("[config] config loaded from '%s'", configPathLocal)
	}
	return cfg, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("[main] failed to load .env file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopClock := ctime.Start(clockResolution)
	defer stopClock()

	setMaxProcs()

	cfg, err := loadCfg()
	if err != nil {
		log.Err(err).Msg("[main] failed to load config")
		return
	}

	gracefulShutdown := shutdown.NewGraceful(ctx, cancel)
	gracefulShutdown.SetGracefulTimeout(5 * time.Minute)

	app, err := lifelockd.New(ctx, cfg)
	if err != nil {
		log.Err(err).Msg("[main] failed to init widget cache app")
		return
	}

	gracefulShutdown.Add(1)
	go app.Start(gracefulShutdown)

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	go gc.Run(gcCtx, cfg)

	if err := gracefulShutdown.ListenCancelAndAwait(); err != nil {
		log.Err(err).Msg("[main] failed to gracefully shut down service")
	}
}
