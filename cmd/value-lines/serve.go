package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-lines/internal/health"
	"github.com/yourusername/value-lines/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health and metrics server with scheduled settlement",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := newApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		hc := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			Logger:      appLog,
		}
		if cfg.Metrics.Enabled {
			hc.MetricsPath = cfg.Metrics.Path
		}
		if err := a.openDatabase(ctx); err != nil {
			return err
		}
		if a.db != nil {
			hc.DB = a.db
		}

		var sched *scheduler.Scheduler
		if cfg.Scheduler.Enabled {
			settler, err := a.settlementService(ctx)
			if err != nil {
				return err
			}
			hc.Provider = a.http

			sched = scheduler.NewScheduler(appLog)
			if err := sched.ScheduleSettlement(cfg.Scheduler.SettlementSchedule, settler, cfg.Scheduler.SettlementBatchSize); err != nil {
				return err
			}
			if a.cache != nil {
				interval := time.Duration(cfg.Scheduler.CacheStatsIntervalSeconds) * time.Second
				if err := sched.ScheduleCacheStats(interval, a.cache); err != nil {
					return err
				}
			}
			if err := sched.Start(); err != nil {
				return err
			}
		}

		server := health.NewServer(hc)
		if err := server.Start(ctx); err != nil {
			return err
		}
		server.SetReady(true)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")

		server.SetReady(false)
		if sched != nil {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler did not stop cleanly")
			}
		}
		if err := server.Shutdown(); err != nil {
			appLog.WithError(err).Warn("Health server did not stop cleanly")
		}
		appLog.WithFields(logrus.Fields{"service": cfg.App.Name}).Info("Shutdown complete")
		return nil
	},
}
