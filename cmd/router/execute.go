package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapRoute/internal/config"
	"swapRoute/internal/model"
	"swapRoute/internal/router"
	"swapRoute/internal/storage"
	"swapRoute/internal/storage/postgres"
)

func newExecuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Find or simulate a route and execute it hop by hop",
		RunE:  runExecute,
	}
	addChainFlags(cmd.Flags())
	addTradeFlags(cmd)
	cmd.Flags().String("swap-router", config.DefaultSwapRouter, "SwapRouter02 address")
	cmd.Flags().String("private-key", "", "hex private key of the trading account")
	cmd.Flags().Duration("receipt-timeout", config.DefaultReceiptTimeout, "maximum wait for a hop receipt")
	cmd.Flags().Duration("receipt-poll", config.DefaultReceiptPoll, "initial receipt polling interval")
	cmd.Flags().Duration("deadline", config.DefaultDeadline, "swap deadline relative to the latest block")
	cmd.Flags().String("journal", "./data/executions.jsonl", "execution journal JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the execution journal")
	cmd.Flags().Bool("yes", false, "submit transactions; without it only the route is printed")
	return cmd
}

func runExecute(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	args, err := parseTradeArgs(cmd, cfg)
	if err != nil {
		return err
	}
	confirmed, _ := cmd.Flags().GetBool("yes")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	sinks := storage.MultiSink{storage.NewJournalFile(cfg.Journal)}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	r := svc.newRouter(cfg, sinks, logger)
	route, err := resolveRoute(ctx, r, args)
	if err != nil {
		return err
	}
	svc.warmTokens(ctx, cfg, route.Path...)
	description := r.DescribeRoute(route)

	if !confirmed {
		logger.Info("dry run, pass --yes to execute", zap.String("route", description))
		return printJSON(quoteOutput{Route: route, Description: description})
	}

	logger.Info("executing route",
		zap.String("route", description),
		zap.String("amount_in", args.request.Amount.Dec()),
		zap.String("min_output", route.MinOutput.Dec()),
		zap.String("journal", cfg.Journal),
	)

	receipt, err := r.ExecuteRoute(ctx, route, args.request.Amount)
	if err != nil {
		var failure *router.ExecutionFailure
		if errors.As(err, &failure) {
			_ = printJSON(executionOutput{
				ExecutionID: failure.ExecutionID,
				Status:      "failed",
				FailedHop:   &failure.HopIndex,
				Hops:        hopOutputs(failure.Completed),
				Error:       failure.Err.Error(),
			})
		}
		return err
	}

	return printJSON(executionOutput{
		ExecutionID: receipt.ExecutionID,
		Status:      "complete",
		AmountIn:    receipt.AmountIn.Dec(),
		AmountOut:   receipt.AmountOut.Dec(),
		Hops:        hopOutputs(receipt.Hops),
	})
}

type hopOutput struct {
	Index        int    `json:"index"`
	TokenIn      string `json:"token_in"`
	TokenOut     string `json:"token_out"`
	AmountIn     string `json:"amount_in"`
	MinAmountOut string `json:"min_amount_out"`
	AmountOut    string `json:"amount_out"`
	TxHash       string `json:"tx_hash"`
	GasUsed      uint64 `json:"gas_used"`
}

type executionOutput struct {
	ExecutionID string      `json:"execution_id"`
	Status      string      `json:"status"`
	AmountIn    string      `json:"amount_in,omitempty"`
	AmountOut   string      `json:"amount_out,omitempty"`
	FailedHop   *int        `json:"failed_hop,omitempty"`
	Hops        []hopOutput `json:"hops"`
	Error       string      `json:"error,omitempty"`
}

func hopOutputs(hops []model.HopReceipt) []hopOutput {
	out := make([]hopOutput, 0, len(hops))
	for _, hop := range hops {
		out = append(out, hopOutput{
			Index:        hop.Index,
			TokenIn:      hop.TokenIn.Hex(),
			TokenOut:     hop.TokenOut.Hex(),
			AmountIn:     model.AmountString(hop.AmountIn),
			MinAmountOut: model.AmountString(hop.MinAmountOut),
			AmountOut:    model.AmountString(hop.AmountOut),
			TxHash:       hop.TxHash.Hex(),
			GasUsed:      hop.GasUsed,
		})
	}
	return out
}
