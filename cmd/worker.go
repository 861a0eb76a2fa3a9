/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reefdive/apiserver/internal/mq"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued notifications",
	Long: `Consumes the notification channel and delivers each message. Usage:

	NOTIFY_BACKEND=redis reefdive worker
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnv()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		backend := strings.ToLower(strings.TrimSpace(cfg.Notify.Backend))
		if backend == "" || backend == "log" {
			return errors.New("worker needs NOTIFY_BACKEND set to rabbitmq, pubsub or redis")
		}

		queue, err := mq.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open notification queue: %w", err)
		}
		defer queue.Close()

		worker := notify.NewWorker(queue, cfg.Notify.Channel, notify.NewLogNotifier(logger), logger)
		if err := worker.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", zap.Error(err))
			return err
		}
		logger.Info("worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
