package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"swapRoute/internal/metrics"
	"swapRoute/internal/model"
)

var errMissingOutput = errors.New("confirmed hop reported no output")

// Orchestrator executes a selected route hop by hop. Hops never overlap, a hop's
// confirmed output is the next hop's input, and the first failure stops the run
// without touching completed hops.
type Orchestrator struct {
	submitter ExecutionSubmitter
	journal   JournalSink
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrchestrator(submitter ExecutionSubmitter, journal JournalSink, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		submitter: submitter,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// execution tracks one run and numbers its journal events.
type execution struct {
	id   string
	hops int
	seq  uint64
}

// Execute performs every hop of route starting from amountIn.
func (o *Orchestrator) Execute(ctx context.Context, route *model.RouteResult, amountIn *uint256.Int) (*model.Receipt, error) {
	if route == nil || route.Path.Hops() == 0 {
		return nil, &InvalidRequestError{Field: "route", Reason: "has no hops"}
	}
	if err := route.Path.Validate(0); err != nil {
		return nil, &InvalidRequestError{Field: "route", Reason: err.Error()}
	}
	if len(route.Hops) != route.Path.Hops() {
		return nil, &InvalidRequestError{Field: "route", Reason: "hop quotes do not match path"}
	}
	if amountIn == nil || amountIn.IsZero() {
		return nil, &InvalidRequestError{Field: "amount", Reason: "must be positive"}
	}

	run := &execution{id: o.executionID(route, amountIn), hops: route.Path.Hops()}
	receipt := &model.Receipt{
		ExecutionID: run.id,
		Path:        route.Path.Clone(),
		AmountIn:    amountIn.Clone(),
		Hops:        make([]model.HopReceipt, 0, run.hops),
	}

	o.logger.Info("execution start",
		zap.String("execution_id", run.id),
		zap.String("path", route.Path.String()),
		zap.String("amount_in", amountIn.Dec()),
	)

	amount := amountIn.Clone()
	for i := 0; i < run.hops; i++ {
		tokenIn, tokenOut := route.Path[i], route.Path[i+1]
		minOut, err := hopMinOutput(route.Hops[i], amount, route.SlippageBps)
		if err != nil {
			return nil, o.fail(ctx, run, receipt, i, err)
		}

		o.record(ctx, run, model.ExecutionEvent{
			Kind:         model.EventPending,
			HopIndex:     i,
			TokenIn:      tokenIn.Hex(),
			TokenOut:     tokenOut.Hex(),
			AmountIn:     amount.Dec(),
			MinAmountOut: minOut.Dec(),
		})

		res, err := o.submitter.Submit(ctx, tokenIn, tokenOut, amount.Clone(), minOut.Clone())
		if err == nil && res.Status != model.HopSuccess {
			err = fmt.Errorf("%w: tx %s", ErrHopFailed, res.TxHash.Hex())
		}
		if err == nil && (res.AmountOut == nil || res.AmountOut.IsZero()) {
			err = errMissingOutput
		}
		if err != nil {
			metrics.ExecutedHops.WithLabelValues("failure").Inc()
			return nil, o.fail(ctx, run, receipt, i, err)
		}
		metrics.ExecutedHops.WithLabelValues("success").Inc()

		hop := model.HopReceipt{
			Index:        i,
			TokenIn:      tokenIn,
			TokenOut:     tokenOut,
			AmountIn:     amount.Clone(),
			MinAmountOut: minOut,
			AmountOut:    res.AmountOut.Clone(),
			TxHash:       res.TxHash,
			GasUsed:      res.GasUsed,
			Status:       res.Status,
		}
		receipt.Hops = append(receipt.Hops, hop)

		o.record(ctx, run, model.ExecutionEvent{
			Kind:      model.EventConfirmed,
			HopIndex:  i,
			TokenIn:   tokenIn.Hex(),
			TokenOut:  tokenOut.Hex(),
			AmountIn:  amount.Dec(),
			AmountOut: res.AmountOut.Dec(),
			TxHash:    res.TxHash.Hex(),
			GasUsed:   res.GasUsed,
		})

		amount = res.AmountOut.Clone()
	}

	receipt.AmountOut = amount
	o.record(ctx, run, model.ExecutionEvent{
		Kind:      model.EventComplete,
		HopIndex:  run.hops - 1,
		AmountIn:  amountIn.Dec(),
		AmountOut: amount.Dec(),
	})
	metrics.Executions.WithLabelValues("complete").Inc()

	o.logger.Info("execution complete",
		zap.String("execution_id", run.id),
		zap.String("amount_out", amount.Dec()),
	)
	return receipt, nil
}

func (o *Orchestrator) fail(ctx context.Context, run *execution, receipt *model.Receipt, hopIndex int, err error) error {
	failure := &ExecutionFailure{
		ExecutionID:   run.id,
		HopIndex:      hopIndex,
		CompletedHops: len(receipt.Hops),
		Completed:     receipt.Hops,
		Err:           err,
	}
	o.record(ctx, run, model.ExecutionEvent{
		Kind:     model.EventFailed,
		HopIndex: hopIndex,
		Error:    err.Error(),
	})
	metrics.Executions.WithLabelValues("failed").Inc()
	o.logger.Error("execution failed",
		zap.String("execution_id", run.id),
		zap.Int("hop", hopIndex),
		zap.Int("completed_hops", failure.CompletedHops),
		zap.Error(err),
	)
	return failure
}

// record appends a journal event. Journal failures are logged and never interrupt a trade in flight.
func (o *Orchestrator) record(ctx context.Context, run *execution, event model.ExecutionEvent) {
	run.seq++
	event.ExecutionID = run.id
	event.Seq = run.seq
	event.Hops = run.hops
	event.At = o.now().UTC().Format(time.RFC3339Nano)

	if o.journal == nil {
		return
	}
	if err := o.journal.Append(context.WithoutCancel(ctx), event); err != nil {
		metrics.JournalErrors.Inc()
		o.logger.Error("journal append failed",
			zap.String("execution_id", run.id),
			zap.Uint64("seq", event.Seq),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) executionID(route *model.RouteResult, amountIn *uint256.Int) string {
	seed := []byte(route.Path.String() + "|" + amountIn.Dec() + "|" + o.now().UTC().Format(time.RFC3339Nano))
	return hexutil.Encode(crypto.Keccak256(seed)[:12])
}

// hopMinOutput scales the simulated hop output to the actual input and applies slippage.
func hopMinOutput(sim model.HopQuote, actualIn *uint256.Int, slippageBps int) (*uint256.Int, error) {
	if sim.AmountOut == nil {
		return nil, fmt.Errorf("hop has no simulated output")
	}
	expected := sim.AmountOut
	if sim.AmountIn != nil && !sim.AmountIn.IsZero() && !sim.AmountIn.Eq(actualIn) {
		scaled, overflow := new(uint256.Int).MulDivOverflow(sim.AmountOut, actualIn, sim.AmountIn)
		if overflow {
			return nil, fmt.Errorf("scale hop output overflow")
		}
		expected = scaled
	}
	return MinOutput(expected, slippageBps), nil
}
