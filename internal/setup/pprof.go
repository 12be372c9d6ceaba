package setup

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	// #nosec G108 -- profiling endpoints are only ever bound to localhost
	_ "net/http/pprof"
	"time"

	"go.uber.org/zap"
)

// pprofServer serves Go profiling endpoints on localhost while debug
// profiling is enabled in config.
type pprofServer struct {
	srv      *http.Server
	listener net.Listener
}

// startPprofServer binds the profiling server to localhost and serves
// in the background until shutdown.
func startPprofServer(port int, logger *zap.Logger) (*pprofServer, error) {
	addr := fmt.Sprintf("localhost:%d", port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           http.DefaultServeMux,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pprof listener: %w", err)
	}

	go func() {
		logger.Info("Starting pprof server", zap.String("address", addr))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Pprof server failed", zap.Error(err))
		}
	}()

	return &pprofServer{
		srv:      srv,
		listener: listener,
	}, nil
}
