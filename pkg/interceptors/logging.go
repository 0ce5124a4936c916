package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/news-reader/pkg/log"
)

// UnaryLoggingInterceptor кладёт в контекст логгер с request_id, method и peer
// и пишет одну запись "grpc" с кодом ответа и длительностью.
// request_id берётся из metadata x-request-id, иначе генерируется UUID.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		l := callLogger(ctx, base, info.FullMethod)

		resp, err := handler(log.Into(ctx, l), req)
		logDone(l, err, start)

		return resp, err
	}
}

// StreamLoggingInterceptor — то же для стримов (health Watch, reflection).
func StreamLoggingInterceptor(base *slog.Logger) grpc.StreamServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		l := callLogger(ss.Context(), base, info.FullMethod)

		err := handler(srv, &ctxStream{ServerStream: ss, ctx: log.Into(ss.Context(), l)})
		logDone(l, err, start)

		return err
	}
}

func callLogger(ctx context.Context, base *slog.Logger, method string) *slog.Logger {
	rid := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get("x-request-id"); len(v) > 0 {
			rid = v[0]
		}
	}
	if rid == "" {
		rid = uuid.NewString()
	}

	from := "-"
	if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
		from = p.Addr.String()
	}

	return base.With(
		slog.String("request_id", rid),
		slog.String("method", method),
		slog.String("peer", from),
	)
}

func logDone(l *slog.Logger, err error, start time.Time) {
	l.Info("grpc",
		slog.String("code", status.Code(err).String()),
		slog.Duration("dur", time.Since(start)),
	)
}

// ctxStream подменяет контекст стрима.
type ctxStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *ctxStream) Context() context.Context { return s.ctx }
