package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Uniswap V3 deployments and routing tokens on Polygon PoS.
const (
	DefaultFactory        = "0x1F98431c8aD98523631AE4a59f267346ea31F984"
	DefaultQuoter         = "0x61fFE014bA17989E743c5F6cB21bF9697530B21e"
	DefaultSwapRouter     = "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"
	DefaultWrappedNative  = "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"
	DefaultIntermediaries = "USDC=0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174," +
		"WETH=0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619," +
		"WMATIC=0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"
)

const (
	DefaultQuoteTimeout   = 3 * time.Second
	DefaultReceiptTimeout = 2 * time.Minute
	DefaultReceiptPoll    = 2 * time.Second
	DefaultDeadline       = 5 * time.Minute
	DefaultMetadataTTL    = time.Hour
)

// Intermediary is a routing token from the static catalog.
type Intermediary struct {
	Symbol  string
	Address common.Address
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	Factory        common.Address
	Quoter         common.Address
	SwapRouter     common.Address
	WrappedNative  common.Address
	NativeSymbol   string
	Intermediaries []Intermediary
	FeeTiers       []uint32

	SlippageBps  int
	MaxHops      int
	GasPerHop    uint64
	GasUnitPrice *uint256.Int
	QuotedGas    bool
	QuoteTimeout time.Duration
	Concurrency  int

	PrivateKey     string
	ReceiptTimeout time.Duration
	ReceiptPoll    time.Duration
	Deadline       time.Duration

	Journal string
	PGDSN   string

	Listen      string
	LogLevel    string
	MetadataTTL time.Duration
}

// IntermediaryAddresses returns the catalog addresses in configured order.
func (c Config) IntermediaryAddresses() []common.Address {
	out := make([]common.Address, 0, len(c.Intermediaries))
	for _, item := range c.Intermediaries {
		out = append(out, item.Address)
	}
	return out
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ROUTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("factory", DefaultFactory)
	v.SetDefault("quoter", DefaultQuoter)
	v.SetDefault("swap-router", DefaultSwapRouter)
	v.SetDefault("wrapped-native", DefaultWrappedNative)
	v.SetDefault("native-symbol", "MATIC")
	v.SetDefault("intermediaries", DefaultIntermediaries)
	v.SetDefault("fee-tiers", "100,500,3000,10000")
	v.SetDefault("slippage-bps", 100)
	v.SetDefault("max-hops", 2)
	v.SetDefault("gas-per-hop", uint64(21000))
	v.SetDefault("gas-unit-price", "1000000000")
	v.SetDefault("quoted-gas", false)
	v.SetDefault("quote-timeout", DefaultQuoteTimeout)
	v.SetDefault("concurrency", 8)
	v.SetDefault("receipt-timeout", DefaultReceiptTimeout)
	v.SetDefault("receipt-poll", DefaultReceiptPoll)
	v.SetDefault("deadline", DefaultDeadline)
	v.SetDefault("journal", "./data/executions.jsonl")
	v.SetDefault("listen", ":8080")
	v.SetDefault("log-level", "info")
	v.SetDefault("metadata-ttl", DefaultMetadataTTL)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		NativeSymbol:   v.GetString("native-symbol"),
		SlippageBps:    v.GetInt("slippage-bps"),
		MaxHops:        v.GetInt("max-hops"),
		GasPerHop:      v.GetUint64("gas-per-hop"),
		QuotedGas:      v.GetBool("quoted-gas"),
		QuoteTimeout:   v.GetDuration("quote-timeout"),
		Concurrency:    v.GetInt("concurrency"),
		PrivateKey:     v.GetString("private-key"),
		ReceiptTimeout: v.GetDuration("receipt-timeout"),
		ReceiptPoll:    v.GetDuration("receipt-poll"),
		Deadline:       v.GetDuration("deadline"),
		Journal:        v.GetString("journal"),
		PGDSN:          v.GetString("pg-dsn"),
		Listen:         v.GetString("listen"),
		LogLevel:       v.GetString("log-level"),
		MetadataTTL:    v.GetDuration("metadata-ttl"),
	}

	var err error
	contracts := []struct {
		key string
		dst *common.Address
	}{
		{"factory", &cfg.Factory},
		{"quoter", &cfg.Quoter},
		{"swap-router", &cfg.SwapRouter},
		{"wrapped-native", &cfg.WrappedNative},
	}
	for _, c := range contracts {
		if *c.dst, err = ParseAddress(v.GetString(c.key)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", c.key, err)
		}
	}
	if cfg.Intermediaries, err = ParseIntermediaries(getStringSlice(v, "intermediaries")); err != nil {
		return Config{}, fmt.Errorf("intermediaries: %w", err)
	}
	if cfg.FeeTiers, err = ParseFeeTiers(getStringSlice(v, "fee-tiers")); err != nil {
		return Config{}, fmt.Errorf("fee-tiers: %w", err)
	}
	if cfg.GasUnitPrice, err = ParseAmount(v.GetString("gas-unit-price")); err != nil {
		return Config{}, fmt.Errorf("gas-unit-price: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.SlippageBps < 0 || c.SlippageBps > 10000:
		return fmt.Errorf("slippage-bps must be within [0, 10000]")
	case c.MaxHops < 1:
		return fmt.Errorf("max-hops must be at least 1")
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be at least 1")
	case c.QuoteTimeout <= 0:
		return fmt.Errorf("quote-timeout must be positive")
	}
	return nil
}

// RequireRPC reports a missing RPC endpoint.
func (c Config) RequireRPC() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc is required")
	}
	return nil
}

// RequireSigner reports a missing signing key.
func (c Config) RequireSigner() error {
	if err := c.RequireRPC(); err != nil {
		return err
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private-key is required")
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
