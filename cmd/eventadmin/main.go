package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"eventadmin/internal/config"
	appLog "eventadmin/internal/log"
	"eventadmin/internal/schedule"
	"eventadmin/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	level := appLog.ParseLevel(conf.LogLevel)
	if flags.debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	appLog.Info("eventadmin starting", "version", "0.1.0")
	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"log_level", level,
		"status_cron", conf.StatusCron,
		"basic_auth", conf.BasicAuthEnabled(),
		"capture_path", conf.Capture.OutputPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := web.NewServer(conf, flags.debug)

	var wg sync.WaitGroup
	if conf.StatusCron != "" {
		loc, err := time.LoadLocation(conf.Timezone)
		if err != nil {
			appLog.Error("failed to load timezone; using local", err, "name", conf.Timezone)
			loc = time.Local
		}
		sched := schedule.New(loc)
		err = sched.Add("status", conf.StatusCron, func() {
			state, count := srv.Summary()
			appLog.Info("status", "state", state.String(), "events", count)
		})
		if err != nil {
			appLog.Error("status job disabled", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sched.Run(ctx)
			}()
		}
	}

	if err := srv.Run(ctx); err != nil {
		appLog.Error("HTTP server failed", err, "listen", conf.Listen)
		cancel()
		wg.Wait()
		os.Exit(1)
	}

	wg.Wait()
	appLog.Info("eventadmin exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./eventadmin.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
