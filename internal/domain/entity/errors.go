package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedChain       = errors.New("unsupported chain")
	ErrRemoteCall             = errors.New("remote call failed")
	ErrTimeout                = errors.New("remote call timed out")
	ErrMalformedPriceResponse = errors.New("malformed price response")
	ErrValidation             = errors.New("validation failed")
)

// UnsupportedChainError is returned for a chain identifier outside the known set.
type UnsupportedChainError struct {
	Chain string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain %q", e.Chain)
}

func (e *UnsupportedChainError) Is(target error) bool {
	return target == ErrUnsupportedChain
}

// RemoteCallError wraps a failed contract read, RPC or HTTP call.
type RemoteCallError struct {
	Chain  string
	Target string
	Method string
	Err    error
}

// NewRemoteCallError builds a RemoteCallError for a call of method against target on chain.
func NewRemoteCallError(chain, target, method string, err error) *RemoteCallError {
	return &RemoteCallError{Chain: chain, Target: target, Method: method, Err: err}
}

func (e *RemoteCallError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("%s on %s (%s) timed out: %v", e.Method, e.Target, e.Chain, e.Err)
	}
	return fmt.Sprintf("%s on %s (%s) failed: %v", e.Method, e.Target, e.Chain, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall || (target == ErrTimeout && e.Timeout())
}

// Timeout reports whether the call failed because its deadline expired.
func (e *RemoteCallError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// MalformedPriceResponseError means the price oracle answered without the expected keys.
type MalformedPriceResponseError struct {
	AssetID  string
	Currency string
	Reason   string
}

func (e *MalformedPriceResponseError) Error() string {
	return fmt.Sprintf("malformed price response for %s/%s: %s", e.AssetID, e.Currency, e.Reason)
}

func (e *MalformedPriceResponseError) Is(target error) bool {
	return target == ErrMalformedPriceResponse
}

// ValidationError lists every problem found in an input document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
