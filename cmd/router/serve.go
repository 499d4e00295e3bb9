package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"swapRoute/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve route quotes over HTTP",
		RunE:  runServe,
	}
	addChainFlags(cmd.Flags())
	cmd.Flags().String("listen", ":8080", "HTTP listen address")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.warmTokens(ctx, cfg)

	gin.SetMode(gin.ReleaseMode)
	server := httpapi.NewServer(svc.newRouter(cfg, nil, logger), httpapi.Defaults{
		SlippageBps: cfg.SlippageBps,
		MaxHops:     cfg.MaxHops,
		Timeout:     2 * cfg.QuoteTimeout,
	}, logger)
	return server.Run(ctx, cfg.Listen)
}
