package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"swapRoute/internal/metrics"
	"swapRoute/internal/model"
)

// Config holds the read-only routing parameters.
type Config struct {
	Intermediaries []common.Address
	GasPerHop      uint64
	// GasUnitPrice converts one gas unit into output token units.
	GasUnitPrice *uint256.Int
	QuotedGas    bool
	QuoteTimeout time.Duration
	Concurrency  int
}

// Router is the entry point for route discovery, execution and display.
type Router struct {
	enumerator   *Enumerator
	selector     *Selector
	orchestrator *Orchestrator
	labels       TokenLabeler
	logger       *zap.Logger
}

// New wires the routing components. submitter and journal may be nil for a quote-only router.
func New(cfg Config, directory PoolDirectory, quotes QuoteProvider, submitter ExecutionSubmitter, journal JournalSink, labels TokenLabeler, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GasPerHop == 0 {
		cfg.GasPerHop = DefaultGasPerHop
	}

	graph := NewTokenGraph(directory, cfg.Intermediaries, cfg.QuoteTimeout, cfg.Concurrency, logger)
	r := &Router{
		enumerator: NewEnumerator(graph, cfg.Concurrency, logger),
		selector:   NewSelector(NewSimulator(quotes, cfg.GasPerHop, cfg.QuotedGas), cfg.GasUnitPrice, cfg.QuoteTimeout, cfg.Concurrency, logger),
		labels:     labels,
		logger:     logger,
	}
	if submitter != nil {
		r.orchestrator = NewOrchestrator(submitter, journal, logger)
	}
	return r
}

// FindRoute selects the best path for the request. It has no side effects.
func (r *Router) FindRoute(ctx context.Context, req model.RouteRequest) (*model.RouteResult, error) {
	if err := ValidateRequest(req); err != nil {
		metrics.RouteRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.RouteDuration.Observe(time.Since(start).Seconds())
	}()

	paths := r.enumerator.Enumerate(ctx, req.From, req.To, req.MaxHops)
	if len(paths) == 0 {
		metrics.RouteRequests.WithLabelValues("no_route").Inc()
		return nil, ErrNoRoute
	}

	best, err := r.selector.Select(ctx, paths, req.Amount, req.SlippageBps)
	if err != nil {
		status := "error"
		if errors.Is(err, ErrNoRoute) {
			status = "no_route"
		}
		metrics.RouteRequests.WithLabelValues(status).Inc()
		return nil, err
	}
	metrics.RouteRequests.WithLabelValues("ok").Inc()

	r.logger.Debug("route selected",
		zap.String("path", best.Path.String()),
		zap.Int("candidates", len(paths)),
		zap.String("expected_output", best.ExpectedOutput.Dec()),
		zap.String("min_output", best.MinOutput.Dec()),
		zap.Uint64("estimated_gas", best.EstimatedGas),
	)
	return best.Clone(), nil
}

// SimulatePath quotes a caller-chosen path and applies the same scoring as FindRoute.
// The path obeys the same hop limit as a search.
func (r *Router) SimulatePath(ctx context.Context, path model.Path, amountIn *uint256.Int, slippageBps int, maxHops int) (*model.RouteResult, error) {
	if err := path.Validate(maxHops); err != nil {
		return nil, &InvalidRequestError{Field: "path", Reason: err.Error()}
	}
	best, err := r.selector.Select(ctx, []model.Path{path}, amountIn, slippageBps)
	if err != nil {
		return nil, err
	}
	return best.Clone(), nil
}

// ExecuteRoute performs the route on chain. Call it once per intended trade.
func (r *Router) ExecuteRoute(ctx context.Context, route *model.RouteResult, amountIn *uint256.Int) (*model.Receipt, error) {
	if r.orchestrator == nil {
		return nil, fmt.Errorf("execution is not configured")
	}
	return r.orchestrator.Execute(ctx, route.Clone(), amountIn)
}

// DescribeRoute formats the route with the router's token labels.
func (r *Router) DescribeRoute(route *model.RouteResult) string {
	return DescribeRoute(route, r.labels)
}

// ValidateRequest rejects malformed requests before any collaborator is called.
func ValidateRequest(req model.RouteRequest) error {
	switch {
	case req.Amount == nil || req.Amount.IsZero():
		return &InvalidRequestError{Field: "amount", Reason: "must be positive"}
	case req.SlippageBps < 0 || req.SlippageBps > bpsDenominator:
		return &InvalidRequestError{Field: "slippage_bps", Reason: "must be within [0, 10000]"}
	case req.MaxHops < 1:
		return &InvalidRequestError{Field: "max_hops", Reason: "must be at least 1"}
	case req.From == (common.Address{}):
		return &InvalidRequestError{Field: "from", Reason: "is required"}
	case req.To == (common.Address{}):
		return &InvalidRequestError{Field: "to", Reason: "is required"}
	case req.From == req.To:
		return &InvalidRequestError{Field: "to", Reason: "must differ from from"}
	}
	return nil
}
