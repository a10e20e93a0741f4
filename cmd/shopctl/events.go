package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ai-shopping-agent-be/pkg/events"
	pktNats "ai-shopping-agent-be/pkg/nats"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		eventType string
		durable   string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail turn events from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.App.NatsURL == "" {
				return fmt.Errorf("NATS_URL is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
			if err != nil {
				return err
			}
			defer sub.Close()

			subject := pktNats.SubjectPrefix + ">"
			if eventType != "" {
				subject = pktNats.Subject(eventType)
			}

			err = sub.Subscribe(ctx, subject, durable, func(_ context.Context, e events.Event) error {
				if outputJSON {
					return printJSON(map[string]interface{}{
						"id":   e.EventID(),
						"type": e.EventType(),
						"at":   e.Timestamp(),
						"data": e.Payload(),
					})
				}
				heading.Printf("%s ", e.Timestamp().Format("15:04:05"))
				fmt.Printf("%s ", e.EventType())
				muted.Printf("%v\n", e.Payload())
				return nil
			})
			if err != nil {
				return err
			}

			muted.Printf("listening on %s\n", subject)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&eventType, "type", events.TypeTurnCompleted, "event type to follow (empty for all)")
	cmd.Flags().StringVar(&durable, "durable", "", "durable consumer name")
	return cmd
}
