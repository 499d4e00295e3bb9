package router

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapRoute/internal/model"
)

var errQuoteReverted = errors.New("execution reverted")

var (
	tokenETH    = model.NativeToken
	tokenX      = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenUSDC   = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	tokenWETH   = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	tokenWMATIC = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
)

type fakeDirectory struct {
	mu    sync.Mutex
	pools map[edgeKey]bool
	errs  map[edgeKey]error
	calls int
}

func newFakeDirectory(pairs ...[2]common.Address) *fakeDirectory {
	d := &fakeDirectory{pools: make(map[edgeKey]bool), errs: make(map[edgeKey]error)}
	for _, pair := range pairs {
		d.pools[newEdgeKey(pair[0], pair[1])] = true
	}
	return d
}

func (d *fakeDirectory) failOn(a, b common.Address, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[newEdgeKey(a, b)] = err
}

func (d *fakeDirectory) Exists(_ context.Context, a, b common.Address) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	key := newEdgeKey(a, b)
	if err := d.errs[key]; err != nil {
		return false, err
	}
	return d.pools[key], nil
}

func (d *fakeDirectory) StaticParams(_ context.Context, a, b common.Address) (model.PoolParams, error) {
	return model.PoolParams{FeeTier: 3000}, nil
}

func (d *fakeDirectory) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type quoteFunc func(ctx context.Context, amountIn *uint256.Int) (model.Quote, error)

type fakeQuotes struct {
	mu     sync.Mutex
	quotes map[[2]common.Address]quoteFunc
	calls  int
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{quotes: make(map[[2]common.Address]quoteFunc)}
}

func (q *fakeQuotes) set(in, out common.Address, fn quoteFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.quotes[[2]common.Address{in, out}] = fn
}

// fixed answers with a constant output, fee and gas estimate regardless of input.
func (q *fakeQuotes) fixed(in, out common.Address, amountOut, fee, gas uint64) {
	q.set(in, out, func(context.Context, *uint256.Int) (model.Quote, error) {
		return model.Quote{AmountOut: uint256.NewInt(amountOut), FeePaid: uint256.NewInt(fee), GasEstimate: gas}, nil
	})
}

// rate answers with amountIn * num / den.
func (q *fakeQuotes) rate(in, out common.Address, num, den uint64) {
	q.set(in, out, func(_ context.Context, amountIn *uint256.Int) (model.Quote, error) {
		outAmount := new(uint256.Int).Mul(amountIn, uint256.NewInt(num))
		outAmount.Div(outAmount, uint256.NewInt(den))
		return model.Quote{AmountOut: outAmount, FeePaid: uint256.NewInt(1)}, nil
	})
}

func (q *fakeQuotes) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *uint256.Int) (model.Quote, error) {
	q.mu.Lock()
	q.calls++
	fn, ok := q.quotes[[2]common.Address{tokenIn, tokenOut}]
	q.mu.Unlock()
	if !ok {
		return model.Quote{}, errQuoteReverted
	}
	return fn(ctx, amountIn)
}

type submitCall struct {
	tokenIn  common.Address
	tokenOut common.Address
	amountIn *uint256.Int
	minOut   *uint256.Int
}

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []submitCall
	results []model.SubmitResult
	errs    []error
}

func (s *fakeSubmitter) Submit(_ context.Context, tokenIn, tokenOut common.Address, amountIn, minAmountOut *uint256.Int) (model.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, submitCall{tokenIn: tokenIn, tokenOut: tokenOut, amountIn: amountIn, minOut: minAmountOut})
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return model.SubmitResult{}, err
	}
	return s.results[i], nil
}

type memoryJournal struct {
	mu     sync.Mutex
	events []model.ExecutionEvent
}

func (j *memoryJournal) Append(_ context.Context, events ...model.ExecutionEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, events...)
	return nil
}

type staticLabels map[common.Address]model.TokenMeta

func (l staticLabels) Lookup(token common.Address) (model.TokenMeta, bool) {
	meta, ok := l[token]
	return meta, ok
}

func pair(a, b common.Address) [2]common.Address {
	return [2]common.Address{a, b}
}
