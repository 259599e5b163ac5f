package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/spf13/cobra"
)

// serveCmd wraps the record store in a small JSON HTTP server — the
// same operations the CLI offers, for a future multi-client setup.
//
// Route table:
//
//	POST   /api/students        → create a new record
//	GET    /api/students        → list all records
//	GET    /api/students/{id}   → get one record by ID
//	PATCH  /api/students/{id}   → edit a single field
//	DELETE /api/students        → reset the whole store
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the record store over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	// HandleFunc maps a METHOD+PATTERN to a handler function. The
	// handler factories receive the store and return the actual
	// handler — the dependency injection / closure pattern.
	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PATCH /api/students/{id}", student.EditField(store))
	router.HandleFunc("DELETE /api/students", student.Reset(store))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// Timeouts prevent slow clients from holding connections open.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ListenAndServe blocks, so it runs in its own goroutine and the
	// main goroutine waits for a shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown(), not a
		// failure.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Buffered so the signal isn't missed if it arrives while this
	// goroutine is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// Give in-flight requests five seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
