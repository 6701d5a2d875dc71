// Command docdex serves a PDF full-text index over HTTP, or over MCP
// stdio when started with --mcp.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/docdex/internal/chunker"
	"github.com/dshills/docdex/internal/config"
	"github.com/dshills/docdex/internal/extractor"
	"github.com/dshills/docdex/internal/httpapi"
	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/mcp"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	if *showVersion {
		fmt.Printf("docdex\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	if err := run(*mcpMode); err != nil {
		fmt.Fprintf(os.Stderr, "docdex: %v\n", err)
		os.Exit(1)
	}
}

func run(mcpMode bool) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := newLogger(mcpMode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.New(settings.DBPath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	ix := indexer.New(store, extractor.NewPDF(),
		indexer.WithLimits(chunker.Limits{
			MaxChars:         settings.MaxChunkChars,
			MinChars:         settings.MinChunkChars,
			MaxPagesPerChunk: settings.MaxPagesPerChunk,
		}),
		indexer.WithWorkers(settings.Workers),
		indexer.WithLogger(logger))
	se := searcher.New(store)

	logger.Info("starting",
		zap.String("version", version),
		zap.String("db_path", settings.DBPath),
		zap.String("driver", storage.DriverName),
		zap.Bool("mcp", mcpMode))

	if mcpMode {
		return mcp.NewServer(ix, se, store, settings).Serve()
	}
	return serveHTTP(ix, se, store, settings, logger)
}

// newLogger builds the service logger. In MCP mode stdout carries the
// protocol, so logs must go to stderr only.
func newLogger(mcpMode bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if mcpMode {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

func serveHTTP(ix *indexer.Indexer, se *searcher.Searcher, store *storage.Storage, settings *config.Settings, logger *zap.Logger) error {
	api := httpapi.NewServer(ix, se, store, settings, logger)
	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", settings.Addr()))
		errChan <- srv.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("stopped")
	return nil
}
