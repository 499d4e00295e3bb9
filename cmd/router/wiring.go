package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRoute/internal/chain"
	"swapRoute/internal/config"
	"swapRoute/internal/dex"
	"swapRoute/internal/model"
	"swapRoute/internal/router"
)

// services bundles the on-chain collaborators built from config.
type services struct {
	client    *chain.Client
	directory *dex.Directory
	quoter    *dex.Quoter
	tokens    *dex.TokenBook
	submitter *dex.Submitter
}

func (s *services) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func newServices(ctx context.Context, cfg config.Config, withSigner bool, logger *zap.Logger) (*services, error) {
	if withSigner {
		if err := cfg.RequireSigner(); err != nil {
			return nil, err
		}
	} else if err := cfg.RequireRPC(); err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	svc := &services{client: client}

	svc.directory, err = dex.NewDirectory(dex.DirectoryConfig{
		Factory:       cfg.Factory,
		WrappedNative: cfg.WrappedNative,
		FeeTiers:      cfg.FeeTiers,
	}, client, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}

	svc.quoter, err = dex.NewQuoter(client, cfg.Quoter, svc.directory)
	if err != nil {
		svc.Close()
		return nil, err
	}

	svc.tokens = dex.NewTokenBook(client, cfg.MetadataTTL, logger)
	svc.tokens.Preset(model.NativeToken, model.TokenMeta{
		Decimals: 18,
		Symbol:   cfg.NativeSymbol,
		Name:     cfg.NativeSymbol,
	})

	if withSigner {
		svc.submitter, err = dex.NewSubmitter(dex.SubmitterConfig{
			Router:         cfg.SwapRouter,
			PrivateKey:     cfg.PrivateKey,
			ReceiptPoll:    cfg.ReceiptPoll,
			ReceiptTimeout: cfg.ReceiptTimeout,
			Deadline:       cfg.Deadline,
		}, client, svc.directory, logger)
		if err != nil {
			svc.Close()
			return nil, err
		}
		logger.Info("signer ready", zap.String("sender", svc.submitter.Sender().Hex()))
	}

	return svc, nil
}

// newRouter wires the router. journal is only used when the services carry a submitter.
func (s *services) newRouter(cfg config.Config, journal router.JournalSink, logger *zap.Logger) *router.Router {
	var submitter router.ExecutionSubmitter
	if s.submitter != nil {
		submitter = s.submitter
	}
	return router.New(router.Config{
		Intermediaries: cfg.IntermediaryAddresses(),
		GasPerHop:      cfg.GasPerHop,
		GasUnitPrice:   cfg.GasUnitPrice,
		QuotedGas:      cfg.QuotedGas,
		QuoteTimeout:   cfg.QuoteTimeout,
		Concurrency:    cfg.Concurrency,
	}, s.directory, s.quoter, submitter, journal, s.tokens, logger)
}

// warmTokens loads display metadata for the catalog and the request tokens.
// Catalog tokens whose metadata cannot be fetched keep their configured symbol.
func (s *services) warmTokens(ctx context.Context, cfg config.Config, extra ...common.Address) {
	tokens := append(cfg.IntermediaryAddresses(), extra...)
	s.tokens.Warm(ctx, tokens...)
	for _, item := range cfg.Intermediaries {
		if _, ok := s.tokens.Lookup(item.Address); !ok && item.Symbol != "" {
			s.tokens.Preset(item.Address, model.TokenMeta{Symbol: item.Symbol})
		}
	}
}
