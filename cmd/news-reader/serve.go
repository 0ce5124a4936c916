package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/pribylovaa/news-reader/internal/config"
	"github.com/pribylovaa/news-reader/internal/metrics"
	httptransport "github.com/pribylovaa/news-reader/internal/transport/http"
	"github.com/pribylovaa/news-reader/pkg/interceptors"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run JSON API, gRPC health and ops endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, ctx, err := loadConfig(cmd.Context(), flags, os.Stdout, false)
			if err != nil {
				return err
			}
			log.Info("starting news-reader", slog.String("env", cfg.Env))

			m := metrics.New(prometheus.DefaultRegisterer)

			a, err := newApp(ctx, cfg, log, m)
			if err != nil {
				log.Error("app_init_failed", slog.String("err", err.Error()))
				return err
			}
			defer a.Close()

			return serve(ctx, a, m)
		},
	}
}

// serve поднимает три сервера и блокируется до отмены ctx или падения одного из них.
func serve(ctx context.Context, a *app, m *metrics.Metrics) error {
	log := a.log

	var ready atomic.Bool

	// Служебный HTTP: liveness, readiness и метрики.
	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	opsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	opsMux.Handle("/metrics", promhttp.Handler())

	opsSrv := &http.Server{
		Addr:              a.cfg.Metrics.Addr(),
		Handler:           opsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	apiSrv := &http.Server{
		Addr: a.cfg.HTTP.Addr(),
		Handler: httptransport.NewRouter(a.svc, httptransport.Options{
			Logger:  log,
			Timeout: a.cfg.Timeouts.Service,
			Metrics: m,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcSrv, hs := newGRPCServer(a.cfg, log)

	grpc_prometheus.EnableHandlingTimeHistogram()
	grpc_prometheus.Register(grpcSrv)

	lis, err := net.Listen("tcp", a.cfg.GRPC.Addr())
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", a.cfg.GRPC.Addr()),
			slog.String("err", err.Error()),
		)
		return err
	}

	errCh := make(chan error, 3)

	go func() {
		log.Info("ops_listen_start", slog.String("addr", opsSrv.Addr))
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		log.Info("http_listen_start", slog.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		log.Info("grpc_listen_start", slog.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		a.svc.StartRefresh(refreshCtx)
	}()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	ready.Store(true)

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-errCh:
		log.Error("serve_failed", slog.String("err", serveErr.Error()))
	}

	ready.Store(false)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	stopRefresh()
	<-refreshDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	done := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcSrv.Stop()
	}

	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops_shutdown_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")

	return serveErr
}

// newGRPCServer собирает gRPC-сервер со стандартным health-сервисом;
// reflection подключается только в local/dev.
func newGRPCServer(cfg *config.Config, log *slog.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			interceptors.RecoverStream(log),
			interceptors.StreamLoggingInterceptor(log),
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(srv)
	}

	return srv, hs
}
