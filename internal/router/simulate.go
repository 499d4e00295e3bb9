package router

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"

	"swapRoute/internal/metrics"
	"swapRoute/internal/model"
)

// DefaultGasPerHop is the fixed gas unit charged per hop.
const DefaultGasPerHop = 21000

var (
	errZeroOutput  = errors.New("quote returned zero output")
	errFeeOverflow = errors.New("fee overflow")
)

// Simulator quotes a path hop by hop, feeding each output into the next hop.
type Simulator struct {
	quotes    QuoteProvider
	gasPerHop uint64
	quotedGas bool
}

// NewSimulator builds a simulator. With quotedGas set, a hop uses the provider's
// gas estimate when it reports one and falls back to gasPerHop otherwise.
func NewSimulator(quotes QuoteProvider, gasPerHop uint64, quotedGas bool) *Simulator {
	return &Simulator{quotes: quotes, gasPerHop: gasPerHop, quotedGas: quotedGas}
}

// Simulate returns the aggregate result of the path or a QuoteFailure for the first hop that failed.
// MinOutput and NetOutput are left for the selector.
func (s *Simulator) Simulate(ctx context.Context, path model.Path, amountIn *uint256.Int) (*model.RouteResult, error) {
	if err := path.Validate(0); err != nil {
		return nil, &QuoteFailure{Path: path, HopIndex: 0, Err: err}
	}
	if amountIn == nil || amountIn.IsZero() {
		return nil, &QuoteFailure{Path: path, HopIndex: 0, Err: errZeroOutput}
	}

	hops := path.Hops()
	result := &model.RouteResult{
		Path:                path.Clone(),
		AmountIn:            amountIn.Clone(),
		Fee:                 new(uint256.Int),
		IntermediateOutputs: make([]*uint256.Int, 0, hops),
		Hops:                make([]model.HopQuote, 0, hops),
	}

	running := amountIn.Clone()
	for i := 0; i < hops; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &QuoteFailure{Path: path, HopIndex: i, Err: err}
		}

		start := time.Now()
		quote, err := s.quotes.Quote(ctx, path[i], path[i+1], running.Clone())
		metrics.QuoteDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, &QuoteFailure{Path: path, HopIndex: i, Err: err}
		}
		if quote.AmountOut == nil || quote.AmountOut.IsZero() {
			return nil, &QuoteFailure{Path: path, HopIndex: i, Err: errZeroOutput}
		}

		fee := new(uint256.Int)
		if quote.FeePaid != nil {
			fee.Set(quote.FeePaid)
		}
		if _, overflow := result.Fee.AddOverflow(result.Fee, fee); overflow {
			return nil, &QuoteFailure{Path: path, HopIndex: i, Err: errFeeOverflow}
		}

		gas := s.gasPerHop
		if s.quotedGas && quote.GasEstimate > 0 {
			gas = quote.GasEstimate
		}
		result.EstimatedGas += gas

		result.Hops = append(result.Hops, model.HopQuote{
			TokenIn:   path[i],
			TokenOut:  path[i+1],
			AmountIn:  running.Clone(),
			AmountOut: quote.AmountOut.Clone(),
			Fee:       fee,
			Gas:       gas,
		})
		result.IntermediateOutputs = append(result.IntermediateOutputs, quote.AmountOut.Clone())
		running = quote.AmountOut.Clone()
	}

	result.ExpectedOutput = running
	return result, nil
}
