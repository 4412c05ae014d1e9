package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve overlay frames as a JSON API",
	Long: `Starts an HTTP server answering:
  GET /health
  GET /api/teams
  GET /api/options?team=
  GET /api/matches/:id/frame?team=&t=&w=&h=&smokes=all
  GET /api/aggregate/frame?team=&side=radiant|dire&t=&w=&h=&smokes=all`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, else :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := firstString(serveAddr, cfg.Server.Addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(openStore(), cfg.TeamID, surface()).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stdout, "Serving %s on %s\n", cfg.DataDir, addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
