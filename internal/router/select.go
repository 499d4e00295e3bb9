package router

import (
	"context"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapRoute/internal/metrics"
	"swapRoute/internal/model"
)

const bpsDenominator = 10000

// Selector simulates candidate paths concurrently and keeps the best gas-adjusted one.
type Selector struct {
	sim          *Simulator
	gasUnitPrice *uint256.Int
	timeout      time.Duration
	concurrency  int
	logger       *zap.Logger
}

// NewSelector builds a selector. gasUnitPrice converts gas units into output token units.
func NewSelector(sim *Simulator, gasUnitPrice *uint256.Int, timeout time.Duration, concurrency int, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	price := new(uint256.Int)
	if gasUnitPrice != nil {
		price.Set(gasUnitPrice)
	}
	return &Selector{
		sim:          sim,
		gasUnitPrice: price,
		timeout:      timeout,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Select returns the path with the highest ExpectedOutput - EstimatedGas*gasUnitPrice.
// Ties go to fewer hops, then to the earlier path. Each simulation gets its own
// deadline; a path that fails or times out is dropped.
func (s *Selector) Select(ctx context.Context, paths []model.Path, amountIn *uint256.Int, slippageBps int) (*model.RouteResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoRoute
	}

	results := make([]*model.RouteResult, len(paths))
	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			pathCtx, cancel := withTimeout(ctx, s.timeout)
			defer cancel()

			res, err := s.sim.Simulate(pathCtx, path, amountIn)
			if err != nil {
				metrics.SimulationFailures.Inc()
				s.logger.Debug("path simulation failed", zap.String("path", path.String()), zap.Error(err))
				return nil
			}
			results[i] = res
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = eg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	var (
		best      *model.RouteResult
		bestScore *big.Int
	)
	for _, res := range results {
		if res == nil {
			continue
		}
		score := s.NetOutput(res)
		if best == nil || score.Cmp(bestScore) > 0 ||
			(score.Cmp(bestScore) == 0 && res.Path.Hops() < best.Path.Hops()) {
			best = res
			bestScore = score
		}
	}
	if best == nil {
		return nil, ErrNoRoute
	}

	best.NetOutput = bestScore
	best.SlippageBps = slippageBps
	best.MinOutput = MinOutput(best.ExpectedOutput, slippageBps)
	return best, nil
}

// NetOutput is the gas-adjusted output of a simulated route; it may be negative.
func (s *Selector) NetOutput(res *model.RouteResult) *big.Int {
	cost := new(big.Int).SetUint64(res.EstimatedGas)
	cost.Mul(cost, s.gasUnitPrice.ToBig())
	return new(big.Int).Sub(res.ExpectedOutput.ToBig(), cost)
}

// MinOutput applies a slippage tolerance: expected * (10000 - bps) / 10000, rounded down.
func MinOutput(expected *uint256.Int, slippageBps int) *uint256.Int {
	if expected == nil {
		return new(uint256.Int)
	}
	if slippageBps <= 0 {
		return expected.Clone()
	}
	if slippageBps >= bpsDenominator {
		return new(uint256.Int)
	}
	out, _ := new(uint256.Int).MulDivOverflow(expected, uint256.NewInt(uint64(bpsDenominator-slippageBps)), uint256.NewInt(bpsDenominator))
	return out
}
