package router

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapRoute/internal/model"
)

// PoolDirectory reports which token pairs are served by a pool.
type PoolDirectory interface {
	Exists(ctx context.Context, a, b common.Address) (bool, error)
	StaticParams(ctx context.Context, a, b common.Address) (model.PoolParams, error)
}

// QuoteProvider returns dry-run swap outputs. Implementations must not mutate chain state.
type QuoteProvider interface {
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *uint256.Int) (model.Quote, error)
}

// ExecutionSubmitter performs one real hop and blocks until it is confirmed.
type ExecutionSubmitter interface {
	Submit(ctx context.Context, tokenIn, tokenOut common.Address, amountIn, minAmountOut *uint256.Int) (model.SubmitResult, error)
}

// JournalSink receives execution state transitions.
type JournalSink interface {
	Append(ctx context.Context, events ...model.ExecutionEvent) error
}

// TokenLabeler resolves display metadata from local state only.
type TokenLabeler interface {
	Lookup(token common.Address) (model.TokenMeta, bool)
}
