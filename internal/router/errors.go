package router

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"swapRoute/internal/model"
)

var (
	// ErrNoRoute means enumeration found no candidates or every candidate failed simulation.
	ErrNoRoute = errors.New("no viable trade route")
	// ErrInvalidRequest is wrapped by every request validation failure.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrHopFailed marks a hop that was mined with a failure status.
	ErrHopFailed = errors.New("hop confirmed with failure status")
)

// InvalidRequestError describes a malformed request field.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// DirectoryError is a failed pool existence query. It is logged and treated as a missing edge.
type DirectoryError struct {
	A   common.Address
	B   common.Address
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("pool lookup %s/%s: %v", e.A.Hex(), e.B.Hex(), e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// QuoteFailure fails the simulation of a single path.
type QuoteFailure struct {
	Path     model.Path
	HopIndex int
	Err      error
}

func (e *QuoteFailure) Error() string {
	return fmt.Sprintf("quote hop %d of %s: %v", e.HopIndex, e.Path.String(), e.Err)
}

func (e *QuoteFailure) Unwrap() error {
	return e.Err
}

// ExecutionFailure reports the hop that failed during execution. Hops before
// HopIndex were confirmed and are final.
type ExecutionFailure struct {
	ExecutionID   string
	HopIndex      int
	CompletedHops int
	Completed     []model.HopReceipt
	Err           error
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("execution %s failed at hop %d after %d completed: %v", e.ExecutionID, e.HopIndex, e.CompletedHops, e.Err)
}

func (e *ExecutionFailure) Unwrap() error {
	return e.Err
}
