package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"swapRoute/internal/model"
)

func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("ROUTER_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ROUTER_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	events := []model.ExecutionEvent{
		{ExecutionID: id, Seq: 1, Kind: model.EventPending, Hops: 1, AmountIn: "1000000000000000000", MinAmountOut: "990", At: "2024-03-01T12:00:00Z"},
		{ExecutionID: id, Seq: 2, Kind: model.EventConfirmed, Hops: 1, AmountOut: "995", TxHash: "0x01", GasUsed: 120000, At: "2024-03-01T12:00:05Z"},
	}
	if err := store.Append(ctx, events...); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, events[1]); err != nil {
		t.Fatalf("re-append: %v", err)
	}

	loaded, err := store.LoadEvents(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 events, got %d", len(loaded))
	}
	if loaded[0].AmountIn != "1000000000000000000" || loaded[0].AmountOut != "" {
		t.Fatalf("unexpected amounts: %+v", loaded[0])
	}
	if loaded[1].GasUsed != 120000 || loaded[1].Kind != model.EventConfirmed {
		t.Fatalf("unexpected event: %+v", loaded[1])
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNullableNumeric(t *testing.T) {
	if nullableNumeric("") != nil {
		t.Fatalf("empty amount should be NULL")
	}
	if nullableNumeric("12") != "12" {
		t.Fatalf("amount should pass through")
	}
}
