package dex

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var testQuoter = common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e")

func TestQuoterQuoteExactInputSingle(t *testing.T) {
	pool := common.HexToAddress("0x00000000000000000000000000000000000000d1")
	dir, caller := newDirectoryFixture(t, testWrapped, testUSDC, poolFixture{
		pools:     map[uint64]common.Address{500: pool},
		liquidity: map[common.Address]int64{pool: 1_000_000},
	})

	var got quoteExactInputSingleParams
	caller.handle(testQuoter, mustABI(quoterV2ABI), "quoteExactInputSingle", func(args []interface{}) ([]interface{}, error) {
		params := *abi.ConvertType(args[0], new(quoteExactInputSingleParams)).(*quoteExactInputSingleParams)
		got = params
		out := new(big.Int).Mul(params.AmountIn, big.NewInt(2500))
		return []interface{}{out, big.NewInt(1), uint32(3), big.NewInt(90000)}, nil
	})

	quoter, err := NewQuoter(caller, testQuoter, dir)
	if err != nil {
		t.Fatalf("new quoter: %v", err)
	}

	amountIn := uint256.NewInt(2_000_000)
	quote, err := quoter.Quote(context.Background(), testWrapped, testUSDC, amountIn)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	if got.TokenIn != testWrapped || got.TokenOut != testUSDC {
		t.Fatalf("tokens mismatch: %+v", got)
	}
	if got.Fee.Uint64() != 500 || got.AmountIn.Uint64() != 2_000_000 {
		t.Fatalf("params mismatch: %+v", got)
	}
	if quote.AmountOut.Uint64() != 5_000_000_000 {
		t.Fatalf("amount out mismatch: %s", quote.AmountOut.Dec())
	}
	// 2_000_000 * 500 / 1_000_000
	if quote.FeePaid.Uint64() != 1000 {
		t.Fatalf("fee mismatch: %s", quote.FeePaid.Dec())
	}
	if quote.GasEstimate != 90000 {
		t.Fatalf("gas mismatch: %d", quote.GasEstimate)
	}
}

func TestQuoterFailsWithoutPool(t *testing.T) {
	dir, caller := newDirectoryFixture(t, testWrapped, testUSDC, poolFixture{})
	quoter, err := NewQuoter(caller, testQuoter, dir)
	if err != nil {
		t.Fatalf("new quoter: %v", err)
	}

	if _, err := quoter.Quote(context.Background(), testWETH, testUSDC, uint256.NewInt(1)); err == nil {
		t.Fatalf("expected error without pool")
	}
	if caller.count(testQuoter, "quoteExactInputSingle") != 0 {
		t.Fatalf("quoter must not be called without a pool")
	}
}
