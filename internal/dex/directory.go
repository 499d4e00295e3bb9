package dex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRoute/internal/model"
)

// ErrPoolNotFound is returned when no fee tier has a funded pool for a pair.
var ErrPoolNotFound = errors.New("pool not found")

// DefaultFeeTiers are the Uniswap V3 fee tiers in hundredths of a bip.
var DefaultFeeTiers = []uint32{100, 500, 3000, 10000}

// DirectoryConfig configures pool discovery against a V3 factory.
type DirectoryConfig struct {
	Factory       common.Address
	WrappedNative common.Address
	FeeTiers      []uint32
}

// Directory answers pool existence queries from a V3 factory.
type Directory struct {
	caller   ContractCaller
	factory  common.Address
	wrapped  common.Address
	feeTiers []uint32
	logger   *zap.Logger
}

func NewDirectory(cfg DirectoryConfig, caller ContractCaller, logger *zap.Logger) (*Directory, error) {
	if caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	if cfg.Factory == (common.Address{}) {
		return nil, fmt.Errorf("factory address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tiers := cfg.FeeTiers
	if len(tiers) == 0 {
		tiers = DefaultFeeTiers
	}
	return &Directory{
		caller:   caller,
		factory:  cfg.Factory,
		wrapped:  cfg.WrappedNative,
		feeTiers: append([]uint32(nil), tiers...),
		logger:   logger,
	}, nil
}

// Resolve maps the native sentinel to the wrapped native token.
func (d *Directory) Resolve(token common.Address) common.Address {
	if model.IsNative(token) && d.wrapped != (common.Address{}) {
		return d.wrapped
	}
	return token
}

// Exists reports whether a funded pool serves the pair.
func (d *Directory) Exists(ctx context.Context, a, b common.Address) (bool, error) {
	_, err := d.StaticParams(ctx, a, b)
	if errors.Is(err, ErrPoolNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StaticParams returns the deepest funded pool for the pair across the configured fee tiers.
// Equal liquidity keeps the lower fee tier.
func (d *Directory) StaticParams(ctx context.Context, a, b common.Address) (model.PoolParams, error) {
	tokenA, tokenB := d.Resolve(a), d.Resolve(b)
	if tokenA == tokenB {
		return model.PoolParams{}, ErrPoolNotFound
	}

	factoryABI, err := V3FactoryABI()
	if err != nil {
		return model.PoolParams{}, fmt.Errorf("parse factory abi: %w", err)
	}

	var (
		best      model.PoolParams
		bestDepth *big.Int
	)
	for _, fee := range d.feeTiers {
		values, err := callMethod(ctx, d.caller, d.factory, factoryABI, "getPool", tokenA, tokenB, new(big.Int).SetUint64(uint64(fee)))
		if err != nil {
			return model.PoolParams{}, fmt.Errorf("get pool fee %d: %w", fee, err)
		}
		pool, err := asAddress(values[0])
		if err != nil {
			return model.PoolParams{}, fmt.Errorf("get pool fee %d: %w", fee, err)
		}
		if pool == (common.Address{}) {
			continue
		}

		depth, err := d.liquidity(ctx, pool)
		if err != nil {
			return model.PoolParams{}, err
		}
		if depth.Sign() == 0 {
			d.logger.Debug("skip empty pool", zap.String("pool", pool.Hex()), zap.Uint32("fee", fee))
			continue
		}
		if bestDepth == nil || depth.Cmp(bestDepth) > 0 {
			best = model.PoolParams{Pool: pool, FeeTier: fee}
			bestDepth = depth
		}
	}

	if bestDepth == nil {
		return model.PoolParams{}, ErrPoolNotFound
	}

	best.Token0, best.Token1 = sortTokens(tokenA, tokenB)
	return best, nil
}

func (d *Directory) liquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := callMethod(ctx, d.caller, pool, poolABI, "liquidity")
	if err != nil {
		return nil, err
	}
	liq, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	return liq, nil
}

func sortTokens(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a.Bytes(), b.Bytes()) < 0 {
		return a, b
	}
	return b, a
}
