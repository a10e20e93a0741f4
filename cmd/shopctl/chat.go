package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"ai-shopping-agent-be/internal/bootstrap"
	"ai-shopping-agent-be/pkg/ai/router"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			container, err := bootstrap.NewContainer(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer container.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			heading.Printf("Session %s. Type 'exit' to quit.\n", sessionID)
			return repl(ctx, container.Router, sessionID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume this session id")
	return cmd
}

func repl(ctx context.Context, r *router.Router, sessionID string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		ok.Print("you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		res, err := r.HandleTurn(ctx, sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fail.Printf("error: %v\n", err)
			continue
		}

		if outputJSON {
			if err := printJSON(res); err != nil {
				return err
			}
			continue
		}
		if res.IsRefusal {
			warn.Printf("bot> %s\n", res.ResponseText)
		} else {
			fmt.Printf("bot> %s\n", res.ResponseText)
		}
		if res.Comparison == nil {
			printProducts(res.Candidates)
		}
		muted.Printf("     [%s via %s, %.2f]\n", res.Intent, res.IntentSource, res.Confidence)
	}
}
