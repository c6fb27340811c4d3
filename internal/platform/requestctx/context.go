// Package requestctx carries per-request state for card requests: the scoped
// logger, Cloud Trace correlation and the card the request resolved to.
package requestctx

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type key int

const (
	loggerKey key = iota
	traceKey
	cardKey
)

var noopLogger = zap.NewNop()

// TraceInfo correlates a request with its Cloud Trace span.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// Card names the card a request resolved to.
type Card struct {
	Kind           string
	CollectionSlug string
	RecipientSlug  string
	Fragment       string
}

// cardSlot is filled in by the handler and read by the request logger after
// the handler returns, so it is shared by pointer.
type cardSlot struct {
	mu   sync.Mutex
	card Card
	set  bool
}

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger retrieves the zap logger from context or returns a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared noop logger instance.
func NoopLogger() *zap.Logger { return noopLogger }

func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceKey, info)
}

func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceKey).(TraceInfo)
	return info, ok
}

// TraceID is the trace identifier echoed in error envelopes, or "".
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}

// WithCardSlot prepares ctx to receive the card resolved while handling the request.
func WithCardSlot(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cardKey, &cardSlot{})
}

// SetCard records the resolved card. It is a no-op when ctx has no slot.
func SetCard(ctx context.Context, card Card) {
	if ctx == nil {
		return
	}
	slot, ok := ctx.Value(cardKey).(*cardSlot)
	if !ok {
		return
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.card = card
	slot.set = true
}

// ResolvedCard returns the card recorded by SetCard.
func ResolvedCard(ctx context.Context) (Card, bool) {
	if ctx == nil {
		return Card{}, false
	}
	slot, ok := ctx.Value(cardKey).(*cardSlot)
	if !ok {
		return Card{}, false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.card, slot.set
}
