package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapRoute/internal/journal"
	"swapRoute/internal/model"
	"swapRoute/internal/storage"
	"swapRoute/internal/storage/postgres"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Replay the execution journal into per-execution states",
		RunE:  runJournal,
	}
	cmd.Flags().String("journal", "./data/executions.jsonl", "execution journal JSONL path")
	cmd.Flags().String("pg-dsn", "", "read the journal from Postgres instead of JSONL")
	cmd.Flags().String("execution", "", "only show this execution id")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runJournal(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	executionID, _ := cmd.Flags().GetString("execution")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events []model.ExecutionEvent
	source := cfg.Journal
	if cfg.PGDSN != "" {
		source = "postgres"
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if events, err = store.LoadEvents(ctx, executionID); err != nil {
			return err
		}
	} else if events, err = storage.ReadJournal(cfg.Journal); err != nil {
		return err
	}

	states := journal.Fold(events)
	if executionID != "" {
		filtered := states[:0]
		for _, state := range states {
			if state.ExecutionID == executionID {
				filtered = append(filtered, state)
			}
		}
		states = filtered
	}

	logger.Info("journal replayed",
		zap.String("source", source),
		zap.Int("events", len(events)),
		zap.Int("executions", len(states)),
	)
	return printJSON(states)
}
