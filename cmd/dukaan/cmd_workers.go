package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/database"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/notification"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
	"github.com/shashiranjanraj/dukaan/pkg/schedule"
)

var queueWorkersFlag int

// bootWorkers prepares everything a standalone worker process needs.
func bootWorkers() error {
	if err := bootDB(); err != nil {
		return err
	}
	cache.Connect()

	jobs.RegisterAll()
	queue.UseDB(database.DB)
	notification.SetSlackWebhook(config.StockAlertSlackWebhook())
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	return nil
}

// dukaan queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorkers(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("🚀 Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\n⚡ Queue worker stopped.")
		return nil
	},
}

// dukaan schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler (stock sweep)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorkers(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		alerts := services.NewAlertService()
		schedule.EveryInterval(config.StockSweepInterval()).
			WithoutOverlapping().
			Name("stock:sweep").
			Run(func() {
				if err := alerts.Sweep(); err != nil {
					logger.Error("schedule: stock sweep failed", "error", err)
				}
			})

		tasks := schedule.List()
		fmt.Println("Registered scheduled tasks:")
		for _, t := range tasks {
			fmt.Println("  •", t)
		}

		fmt.Println("🕐 Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\n⚡ Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
