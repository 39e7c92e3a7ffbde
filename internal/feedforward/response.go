// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feedforward

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
)

// Error kinds reported in a failed Response.
const (
	KindValidation     = "validation"
	KindNotFound       = "not_found"
	KindAuthentication = "authentication"
	KindStore          = "store"
	KindInternal       = "internal"
)

// Response is the uniform result of an operation at the transport
// boundary.
type Response[T any] struct {
	Success bool   `json:"success" yaml:"success"`
	Data    T      `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return KindValidation
	case errors.Is(err, apperrors.ErrNotFound):
		return KindNotFound
	case errors.Is(err, apperrors.ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, apperrors.ErrStore), errors.Is(err, apperrors.ErrStoreUnavailable):
		return KindStore
	default:
		return KindInternal
	}
}

// Failure returns the failed Response for err.
func Failure[T any](err error) Response[T] {
	return Response[T]{Error: err.Error(), Kind: Kind(err)}
}

// Call runs fn and converts its result, error, or panic into a Response.
// Nothing escapes: a panic becomes an internal error.
func Call[T any](ctx context.Context, logger *zap.Logger, op string, fn func(context.Context) (T, error)) (resp Response[T]) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Operation panicked", zap.String("op", op), zap.Any("panic", r))
			resp = Response[T]{Error: fmt.Sprintf("%s: internal error", op), Kind: KindInternal}
		}
	}()

	data, err := fn(ctx)
	if err != nil {
		kind := Kind(err)
		if kind == KindStore || kind == KindInternal {
			logger.Error("Operation failed", zap.String("op", op), zap.Error(err))
		}
		return Failure[T](err)
	}
	return Response[T]{Success: true, Data: data}
}
