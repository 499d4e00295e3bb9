package storage

import (
	"context"
	"errors"

	"swapRoute/internal/model"
)

// Sink receives execution journal events in order.
type Sink interface {
	Append(ctx context.Context, events ...model.ExecutionEvent) error
}

// MultiSink fans events out to every sink. Each sink is attempted even when an
// earlier one fails; the errors are joined.
type MultiSink []Sink

func (m MultiSink) Append(ctx context.Context, events ...model.ExecutionEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Append(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
