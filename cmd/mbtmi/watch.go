package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbtmi/mbtmi/internal/config"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/utils"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the events topic and log every event",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := utils.NewLogger(cfg.Environment, nil).Slog()

		subscriber, err := cfg.Events.CreateEventSubscriber(logger)
		if err != nil {
			return err
		}
		defer subscriber.Close()

		out := cmd.OutOrStdout()
		return events.Consume(ctx, subscriber, cfg.Events.NotificationTopic, logger, func(ctx context.Context, event *events.ReceivedEvent) error {
			if event.Type == events.EventSessionScored {
				var scored events.SessionScoredEvent
				if err := event.Decode(&scored); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s session=%s test=%d mbti=%s\n", event.Timestamp, event.Type, scored.SessionID, scored.TestID, scored.MBTI)
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", event.Timestamp, event.Type, string(event.Data))
			return nil
		})
	},
}
