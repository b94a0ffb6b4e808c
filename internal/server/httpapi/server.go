package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/techclub/recruitd/internal/logging"
	"github.com/techclub/recruitd/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	handler *Handler
}

func NewServer(a string, l logging.Logger, s *services.AccountService) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		handler: NewHandler(s, l),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	mux := http.NewServeMux()
	s.handler.Routes(mux)

	srv := &http.Server{
		Addr:         s.address,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
