package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapRoute/internal/config"
	"swapRoute/internal/model"
	"swapRoute/internal/router"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Find the best route for a trade without executing it",
		RunE:  runQuote,
	}
	addChainFlags(cmd.Flags())
	addTradeFlags(cmd)
	return cmd
}

// addTradeFlags registers the per-trade flags. They are read directly and not bound to config.
func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "input token address (0xEeee…EEeE for the native asset)")
	cmd.Flags().String("to", "", "output token address (0xEeee…EEeE for the native asset)")
	cmd.Flags().String("amount", "", "input amount in base units")
	cmd.Flags().String("path", "", "explicit token path (comma or '>' separated), skips route search")
	_ = cmd.MarkFlagRequired("amount")
}

// tradeArgs is a parsed trade request. Path is set when the caller fixed the route.
type tradeArgs struct {
	request model.RouteRequest
	path    model.Path
}

func parseTradeArgs(cmd *cobra.Command, cfg config.Config) (tradeArgs, error) {
	rawAmount, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(rawAmount)
	if err != nil {
		return tradeArgs{}, err
	}
	args := tradeArgs{request: model.RouteRequest{
		Amount:      amount,
		SlippageBps: cfg.SlippageBps,
		MaxHops:     cfg.MaxHops,
	}}

	if rawPath, _ := cmd.Flags().GetString("path"); rawPath != "" {
		if args.path, err = config.ParsePath(rawPath); err != nil {
			return tradeArgs{}, fmt.Errorf("path: %w", err)
		}
		args.request.From = args.path[0]
		args.request.To = args.path[len(args.path)-1]
		return args, nil
	}

	rawFrom, _ := cmd.Flags().GetString("from")
	rawTo, _ := cmd.Flags().GetString("to")
	if args.request.From, err = config.ParseAddress(rawFrom); err != nil {
		return tradeArgs{}, fmt.Errorf("from: %w", err)
	}
	if args.request.To, err = config.ParseAddress(rawTo); err != nil {
		return tradeArgs{}, fmt.Errorf("to: %w", err)
	}
	return args, nil
}

// resolveRoute searches for the best route, or simulates the fixed path when one was given.
func resolveRoute(ctx context.Context, r *router.Router, args tradeArgs) (*model.RouteResult, error) {
	if args.path != nil {
		return r.SimulatePath(ctx, args.path, args.request.Amount, args.request.SlippageBps, args.request.MaxHops)
	}
	return r.FindRoute(ctx, args.request)
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	args, err := parseTradeArgs(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	r := svc.newRouter(cfg, nil, logger)
	route, err := resolveRoute(ctx, r, args)
	if err != nil {
		return err
	}
	svc.warmTokens(ctx, cfg, route.Path...)

	logger.Info("route found",
		zap.String("route", r.DescribeRoute(route)),
		zap.String("expected_output", route.ExpectedOutput.Dec()),
		zap.String("min_output", route.MinOutput.Dec()),
	)
	return printJSON(quoteOutput{Route: route, Description: r.DescribeRoute(route)})
}

type quoteOutput struct {
	Route       *model.RouteResult `json:"route"`
	Description string             `json:"description"`
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
