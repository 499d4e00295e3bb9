package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swapRoute/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:          "router",
		Short:        "Multi-hop Uniswap V3 trade router",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newQuoteCmd(), newExecuteCmd(), newServeCmd(), newJournalCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// addChainFlags registers the flags every on-chain command shares.
func addChainFlags(flags *pflag.FlagSet) {
	flags.String("rpc", "", "EVM RPC URL")
	flags.String("factory", config.DefaultFactory, "Uniswap V3 factory address")
	flags.String("quoter", config.DefaultQuoter, "QuoterV2 address")
	flags.String("wrapped-native", config.DefaultWrappedNative, "wrapped native token address")
	flags.String("native-symbol", "MATIC", "display symbol of the native asset")
	flags.String("intermediaries", config.DefaultIntermediaries, "routing tokens as SYMBOL=0xaddr (comma-separated)")
	flags.String("fee-tiers", "100,500,3000,10000", "fee tiers to search (comma-separated)")
	flags.Int("max-hops", 2, "maximum swaps per route")
	flags.Int("slippage-bps", 100, "slippage tolerance in basis points")
	flags.Uint64("gas-per-hop", 21000, "gas units charged per hop")
	flags.String("gas-unit-price", "1000000000", "output token units per gas unit")
	flags.Bool("quoted-gas", false, "use the quoter's gas estimate per hop when available")
	flags.Duration("quote-timeout", config.DefaultQuoteTimeout, "timeout per pool lookup and path simulation")
	flags.Int("concurrency", 8, "parallel pool lookups and simulations")
	flags.Duration("metadata-ttl", config.DefaultMetadataTTL, "token metadata cache TTL")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
