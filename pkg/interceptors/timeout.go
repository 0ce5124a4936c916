// Package interceptors — серверные gRPC-интерсепторы news-reader:
// восстановление после паник, логирование и дедлайн по умолчанию.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout навешивает дедлайн d на unary-вызов, если клиент его не передал.
// d <= 0 отключает интерсептор; чужой дедлайн не переопределяется.
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, cancel := withDefaultDeadline(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}

func withDefaultDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}
