package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapRoute/internal/model"
)

const feeTierDenominator = 1_000_000

// PoolResolver finds the pool serving a pair.
type PoolResolver interface {
	StaticParams(ctx context.Context, a, b common.Address) (model.PoolParams, error)
	Resolve(token common.Address) common.Address
}

// Quoter simulates single-pool swaps through QuoterV2 with eth_call.
type Quoter struct {
	caller ContractCaller
	quoter common.Address
	pools  PoolResolver
}

type quoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

func NewQuoter(caller ContractCaller, quoter common.Address, pools PoolResolver) (*Quoter, error) {
	if caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	if quoter == (common.Address{}) {
		return nil, fmt.Errorf("quoter address is required")
	}
	if pools == nil {
		return nil, fmt.Errorf("pool resolver is nil")
	}
	return &Quoter{caller: caller, quoter: quoter, pools: pools}, nil
}

// Quote returns the expected output of swapping amountIn through the pair's pool.
// FeePaid is charged in the input token at the pool's fee tier.
func (q *Quoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *uint256.Int) (model.Quote, error) {
	if amountIn == nil || amountIn.IsZero() {
		return model.Quote{}, fmt.Errorf("amount in is zero")
	}

	params, err := q.pools.StaticParams(ctx, tokenIn, tokenOut)
	if err != nil {
		return model.Quote{}, fmt.Errorf("pool params: %w", err)
	}

	quoterABI, err := QuoterV2ABI()
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse quoter abi: %w", err)
	}

	values, err := callMethod(ctx, q.caller, q.quoter, quoterABI, "quoteExactInputSingle", quoteExactInputSingleParams{
		TokenIn:           q.pools.Resolve(tokenIn),
		TokenOut:          q.pools.Resolve(tokenOut),
		AmountIn:          amountIn.ToBig(),
		Fee:               new(big.Int).SetUint64(uint64(params.FeeTier)),
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		return model.Quote{}, err
	}
	if len(values) < 4 {
		return model.Quote{}, fmt.Errorf("unexpected quote values: %d", len(values))
	}

	outBig, err := asBigInt(values[0])
	if err != nil {
		return model.Quote{}, fmt.Errorf("amount out: %w", err)
	}
	amountOut, overflow := uint256.FromBig(outBig)
	if overflow || outBig.Sign() < 0 {
		return model.Quote{}, fmt.Errorf("amount out out of range: %s", outBig.String())
	}

	gasBig, err := asBigInt(values[3])
	if err != nil {
		return model.Quote{}, fmt.Errorf("gas estimate: %w", err)
	}

	fee, _ := new(uint256.Int).MulDivOverflow(amountIn, uint256.NewInt(uint64(params.FeeTier)), uint256.NewInt(feeTierDenominator))

	quote := model.Quote{AmountOut: amountOut, FeePaid: fee}
	if gasBig.IsUint64() {
		quote.GasEstimate = gasBig.Uint64()
	}
	return quote, nil
}
