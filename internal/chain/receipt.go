package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const maxPollDelay = 15 * time.Second

type receiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func waitReceipt(ctx context.Context, src receiptSource, txHash common.Hash, poll time.Duration, timeout time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// A sent transaction may already be mined, so RPC failures only mean
	// "not yet". The deadline is the sole way out without a receipt.
	var (
		receipt *types.Receipt
		lastErr error
	)
	err := pollUntil(ctx, poll, maxPollDelay, func(ctx context.Context) (bool, error) {
		r, err := src.TransactionReceipt(ctx, txHash)
		if err != nil {
			if !errors.Is(err, ethereum.NotFound) {
				lastErr = err
			}
			return false, nil
		}
		receipt = r
		return true, nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, fmt.Errorf("wait receipt %s: %w (last rpc error: %w)", txHash.Hex(), err, lastErr)
		}
		return nil, fmt.Errorf("wait receipt %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// pollUntil calls fn until it reports done, doubling the delay between attempts up to maxDelay.
func pollUntil(ctx context.Context, baseDelay time.Duration, maxDelay time.Duration, fn func(context.Context) (bool, error)) error {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}

	delay := baseDelay
	for {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
