package commands

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certifire/internal/certificates"
	"certifire/internal/delivery"
	"certifire/internal/destinations"
	"certifire/internal/monitoring"
	"certifire/internal/routes"
)

const shutdownTimeout = 10 * time.Second

// Service backs the CLI. Every method reports to stdOut/errOut instead of
// returning errors, and reports whether it succeeded.
type Service struct {
	Destinations *destinations.Service
	Delivery     *delivery.Service
	Monitoring   *monitoring.Service
	// Issuer is nil when no ACME account email is configured.
	Issuer *certificates.Issuer
}

// ServerStart serves the HTTP API on addr until SIGINT/SIGTERM, then drains
// in-flight requests.
func (s *Service) ServerStart(addr string, apiKey string, stdOut io.Writer, errOut io.Writer) bool {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, addr, apiKey, stdOut, errOut)
}

func (s *Service) serve(ctx context.Context, addr string, apiKey string, stdOut io.Writer, errOut io.Writer) bool {
	server := &http.Server{
		Addr: addr,
		Handler: routes.Router(&routes.Services{
			Destinations: s.Destinations,
			Delivery:     s.Delivery,
			Monitoring:   s.Monitoring,
		}, apiKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverError := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
		close(serverError)
	}()

	if apiKey == "" {
		printWarn(errOut, "CERTIFIRE_API_KEY is not set, the API is unauthenticated")
	}

	printInfo(stdOut, "certifire API listening on %s", addr)

	select {
	case err := <-serverError:
		if err != nil {
			printError(errOut, "Server error: %v", err)
			return false
		}
		return true
	case <-ctx.Done():
	}

	printInfo(stdOut, "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		printError(errOut, "Shutdown failed: %v", err)
		return false
	}

	return true
}
