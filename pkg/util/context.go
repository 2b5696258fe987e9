package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")
	tickKey      = key("tick")
	symbolKey    = key("symbol")
)

// WithRequestID returns a context with a request id.
// It will generate a new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, requestIDKey, uuid.NewString())
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from context.
// It returns an empty string if not present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTick returns a context carrying the simulation tick being processed.
func WithTick(ctx context.Context, tick int64) context.Context {
	return context.WithValue(ctx, tickKey, tick)
}

// GetTick returns the simulation tick from context.
// It returns -1 if not present.
func GetTick(ctx context.Context) int64 {
	tick, ok := ctx.Value(tickKey).(int64)
	if !ok {
		return -1
	}
	return tick
}

// WithSymbol returns a context carrying the instrument symbol being processed.
func WithSymbol(ctx context.Context, symbol string) context.Context {
	return context.WithValue(ctx, symbolKey, symbol)
}

// GetSymbol returns the instrument symbol from context.
// It returns an empty string if not present.
func GetSymbol(ctx context.Context) string {
	symbol, _ := ctx.Value(symbolKey).(string)
	return symbol
}
