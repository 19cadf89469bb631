package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-dashboard/internal/gateway"
	"github.com/naka-gawa/pr-dashboard/internal/server"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the dashboard API and page",
	Long: `Serves the data file at /api/dashboard/, the dashboard page at / and
Prometheus metrics at /metrics. The page loads its data from api.url.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd)
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetInt("port")
			cfg.SetPort(port)
		}
		if cmd.Flags().Changed("data") {
			cfg.Data.File, _ = cmd.Flags().GetString("data")
		}
		// The server always logs; --verbose only adds the loader's debug lines.
		logger := log.New(os.Stderr, "", log.LstdFlags)

		loader := gateway.NewHTTPLoader(cfg.API.URL, &http.Client{Timeout: cfg.API.Timeout}, newLogger(cmd))
		srv, err := server.New(usecase.NewDashboard(loader, logger), cfg.Data.File, cfg.Server.CacheSize, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
			os.Exit(1)
		}

		httpServer := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      srv,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			ErrorLog:     logger,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Printf("Serving dashboard on http://%s/ (data file %s)\n", httpServer.Addr, cfg.Data.File)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			logger.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to shut down: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides server.port, and api.url when left at its default)")
	serveCmd.Flags().String("data", "", "Data file to serve, .json or .csv (overrides data.file)")
}
