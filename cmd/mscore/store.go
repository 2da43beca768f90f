package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/api"
	"github.com/msplatform/mscore/internal/idstore"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect or serve the identification data store",
}

var (
	storeServeSnapshot string
	storeServeHost     string
	storeServePort     int
	storeServeIndex    bool
)

var storeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only inspection API over a store snapshot",
	RunE:  runStoreServe,
}

func init() {
	storeServeCmd.Flags().StringVar(&storeServeSnapshot, "snapshot", "", "Path to a store snapshot SQLite file (required)")
	storeServeCmd.Flags().StringVar(&storeServeHost, "host", "localhost", "Host to bind to")
	storeServeCmd.Flags().IntVar(&storeServePort, "port", 8080, "Port to listen on")
	storeServeCmd.Flags().BoolVar(&storeServeIndex, "search-index", true, "Build the optional bleve search index over the snapshot")
	storeServeCmd.MarkFlagRequired("snapshot")
}

func runStoreServe(cmd *cobra.Command, args []string) error {
	store, err := idstore.OpenSnapshot(storeServeSnapshot)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}

	var index *idstore.SearchIndex
	if storeServeIndex {
		index, err = idstore.NewSearchIndex(store)
		if err != nil {
			return fmt.Errorf("building search index: %w", err)
		}
	}

	server := api.NewServer(api.Config{
		Host:       storeServeHost,
		Port:       storeServePort,
		EnableCORS: true,
	}, store, index)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-sigCh:
		log.Println("shutting down")
		return server.Shutdown(context.Background())
	}
}
