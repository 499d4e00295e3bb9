package router

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"swapRoute/internal/model"
)

var oneEther = uint256.NewInt(1_000_000_000_000_000_000)

func newTestRouter(dir PoolDirectory, quotes QuoteProvider, sub ExecutionSubmitter, journal JournalSink) *Router {
	return New(Config{
		Intermediaries: []common.Address{tokenUSDC, tokenWETH},
		QuoteTimeout:   time.Second,
		Concurrency:    4,
	}, dir, quotes, sub, journal, nil, zap.NewNop())
}

func TestFindRouteDirect(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX))
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenX, 1000, 5, 0)
	r := newTestRouter(dir, quotes, nil, nil)

	res, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: oneEther, SlippageBps: 100, MaxHops: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, model.Path{tokenETH, tokenX}, res.Path)
	assert.Equal(t, uint64(1000), res.ExpectedOutput.Uint64())
	assert.Equal(t, uint64(990), res.MinOutput.Uint64())
	assert.Equal(t, uint64(5), res.Fee.Uint64())
	assert.Equal(t, uint64(DefaultGasPerHop), res.EstimatedGas)
	assert.Equal(t, 100, res.SlippageBps)
	require.Len(t, res.IntermediateOutputs, 1)
	assert.True(t, res.AmountIn.Eq(oneEther))
}

func TestFindRouteThroughIntermediary(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenUSDC), pair(tokenUSDC, tokenX))
	quotes := newFakeQuotes()
	quotes.rate(tokenETH, tokenUSDC, 2500, 1)
	quotes.rate(tokenUSDC, tokenX, 1, 5)
	r := newTestRouter(dir, quotes, nil, nil)

	res, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: uint256.NewInt(100), SlippageBps: 0, MaxHops: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Path{tokenETH, tokenUSDC, tokenX}, res.Path)
	assert.Equal(t, uint64(250000), res.IntermediateOutputs[0].Uint64())
	assert.Equal(t, uint64(50000), res.ExpectedOutput.Uint64())
	assert.True(t, res.MinOutput.Eq(res.ExpectedOutput))
}

func TestFindRouteNoPools(t *testing.T) {
	r := newTestRouter(newFakeDirectory(), newFakeQuotes(), nil, nil)

	_, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: oneEther, SlippageBps: 100, MaxHops: 2,
	})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestFindRouteAllQuotesFail(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX), pair(tokenETH, tokenUSDC), pair(tokenUSDC, tokenX))
	r := newTestRouter(dir, newFakeQuotes(), nil, nil)

	_, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: oneEther, SlippageBps: 100, MaxHops: 2,
	})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestFindRouteRejectsInvalidRequests(t *testing.T) {
	valid := model.RouteRequest{From: tokenETH, To: tokenX, Amount: oneEther, SlippageBps: 100, MaxHops: 2}

	cases := []struct {
		name   string
		mutate func(*model.RouteRequest)
		field  string
	}{
		{"zero amount", func(r *model.RouteRequest) { r.Amount = new(uint256.Int) }, "amount"},
		{"nil amount", func(r *model.RouteRequest) { r.Amount = nil }, "amount"},
		{"negative slippage", func(r *model.RouteRequest) { r.SlippageBps = -1 }, "slippage_bps"},
		{"slippage above 100%", func(r *model.RouteRequest) { r.SlippageBps = 10001 }, "slippage_bps"},
		{"zero max hops", func(r *model.RouteRequest) { r.MaxHops = 0 }, "max_hops"},
		{"missing from", func(r *model.RouteRequest) { r.From = common.Address{} }, "from"},
		{"missing to", func(r *model.RouteRequest) { r.To = common.Address{} }, "to"},
		{"same token", func(r *model.RouteRequest) { r.To = r.From }, "to"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := newFakeDirectory(pair(tokenETH, tokenX))
			quotes := newFakeQuotes()
			r := newTestRouter(dir, quotes, nil, nil)

			req := valid
			tc.mutate(&req)
			_, err := r.FindRoute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidRequest)
			var invalid *InvalidRequestError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
			assert.Zero(t, dir.callCount())
			assert.Zero(t, quotes.calls)
		})
	}
}

func TestFindRouteIsRepeatable(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX), pair(tokenETH, tokenUSDC), pair(tokenUSDC, tokenX))
	quotes := newFakeQuotes()
	quotes.rate(tokenETH, tokenX, 3, 1)
	quotes.rate(tokenETH, tokenUSDC, 2, 1)
	quotes.rate(tokenUSDC, tokenX, 2, 1)
	r := newTestRouter(dir, quotes, nil, nil)

	req := model.RouteRequest{From: tokenETH, To: tokenX, Amount: uint256.NewInt(1000), SlippageBps: 30, MaxHops: 3}
	first, err := r.FindRoute(context.Background(), req)
	require.NoError(t, err)
	second, err := r.FindRoute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, model.Path{tokenETH, tokenUSDC, tokenX}, first.Path)
	assert.Equal(t, uint64(4000), first.ExpectedOutput.Uint64())
}

func TestFindRouteReturnsIndependentCopy(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX))
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenX, 1000, 5, 0)
	r := newTestRouter(dir, quotes, nil, nil)

	amount := uint256.NewInt(10)
	res, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: amount, SlippageBps: 100, MaxHops: 1,
	})
	require.NoError(t, err)
	amount.SetUint64(99)
	assert.Equal(t, uint64(10), res.AmountIn.Uint64())
}

func TestSimulatePath(t *testing.T) {
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenWETH, 1000, 1, 0)
	quotes.fixed(tokenWETH, tokenX, 700, 1, 0)
	r := newTestRouter(newFakeDirectory(), quotes, nil, nil)

	res, err := r.SimulatePath(context.Background(), model.Path{tokenETH, tokenWETH, tokenX}, uint256.NewInt(5), 100, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), res.ExpectedOutput.Uint64())
	assert.Equal(t, uint64(693), res.MinOutput.Uint64())

	_, err = r.SimulatePath(context.Background(), model.Path{tokenETH}, uint256.NewInt(5), 100, 3)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSimulatePathRespectsMaxHops(t *testing.T) {
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenWETH, 1000, 1, 0)
	quotes.fixed(tokenWETH, tokenX, 700, 1, 0)
	r := newTestRouter(newFakeDirectory(), quotes, nil, nil)

	_, err := r.SimulatePath(context.Background(), model.Path{tokenETH, tokenWETH, tokenX}, uint256.NewInt(5), 100, 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, quotes.calls)

	res, err := r.SimulatePath(context.Background(), model.Path{tokenETH, tokenWETH, tokenX}, uint256.NewInt(5), 100, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), res.ExpectedOutput.Uint64())
}

func TestExecuteRouteRequiresSubmitter(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX))
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenX, 1000, 5, 0)
	r := newTestRouter(dir, quotes, nil, nil)

	res, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: uint256.NewInt(10), SlippageBps: 100, MaxHops: 1,
	})
	require.NoError(t, err)

	_, err = r.ExecuteRoute(context.Background(), res, uint256.NewInt(10))
	assert.Error(t, err)
}

func TestFindThenExecute(t *testing.T) {
	dir := newFakeDirectory(pair(tokenETH, tokenX))
	quotes := newFakeQuotes()
	quotes.fixed(tokenETH, tokenX, 1000, 5, 0)
	sub := &fakeSubmitter{results: []model.SubmitResult{{
		AmountOut: uint256.NewInt(998),
		Status:    model.HopSuccess,
		TxHash:    common.Hash{7},
	}}}
	journal := &memoryJournal{}
	r := newTestRouter(dir, quotes, sub, journal)

	res, err := r.FindRoute(context.Background(), model.RouteRequest{
		From: tokenETH, To: tokenX, Amount: uint256.NewInt(10), SlippageBps: 100, MaxHops: 1,
	})
	require.NoError(t, err)

	receipt, err := r.ExecuteRoute(context.Background(), res, uint256.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(998), receipt.AmountOut.Uint64())
	require.Len(t, sub.calls, 1)
	assert.Equal(t, uint64(990), sub.calls[0].minOut.Uint64())
	assert.Len(t, journal.events, 3)
}
