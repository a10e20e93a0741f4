package main

import (
	"fmt"
	"time"

	"ai-shopping-agent-be/internal/repository/postgres"
	"ai-shopping-agent-be/internal/repository/specification"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the products and turn_logs tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := postgres.AutoMigrate(db); err != nil {
				return err
			}
			ok.Println("migration complete")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the Postgres catalog with the embedded one or a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.LoadEmbedded()
			if path != "" {
				store, err = catalog.LoadFile(path)
			}
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			if err := postgres.AutoMigrate(db); err != nil {
				return err
			}
			if err := postgres.NewProductRepository(db).ReplaceAll(cmd.Context(), store.All()); err != nil {
				return err
			}
			ok.Printf("seeded %d phones\n", store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "catalog JSON file (default: embedded catalog)")
	return cmd
}

func newTurnsCmd() *cobra.Command {
	var (
		sessionID string
		since     time.Duration
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "turns",
		Short: "Show recorded turns and the intent mix",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			repo := postgres.NewTurnLogRepository(db)

			filters := []specification.Specification{
				specification.Since{Field: "occurred_at", At: time.Now().Add(-since)},
			}
			if sessionID != "" {
				filters = append(filters, specification.Filter("session_id", sessionID))
			}

			counts, err := repo.CountByIntent(cmd.Context(), filters...)
			if err != nil {
				return err
			}
			logs, err := repo.FindAll(cmd.Context(), append(filters,
				specification.OrderBy{Field: "occurred_at", Desc: true},
				specification.Pagination{Limit: limit},
			)...)
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(map[string]interface{}{"by_intent": counts, "turns": logs})
			}

			heading.Println("turns by intent")
			for label, n := range counts {
				fmt.Printf("  %-12s %d\n", label, n)
			}
			heading.Println("latest turns")
			for _, l := range logs {
				line := fmt.Sprintf("  %s  %-11s %5dms  %s", l.OccurredAt.Format(time.RFC3339), l.Intent, l.LatencyMs, l.SessionId)
				if l.IsRefusal {
					warn.Printf("%s  refused: %s\n", line, l.SafetyReason)
					continue
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "only this session")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "look back this far")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of turns to list")
	return cmd
}
