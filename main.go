package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rasterly/qrimage/api"
	"github.com/rasterly/qrimage/config"
	"github.com/rasterly/qrimage/qrgen"
	"github.com/rasterly/qrimage/store"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "qrimage",
		Short: "QR code image generation service",
	}

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QR image HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- gen command ---------------------------------------------------------
	var genOut string
	var genSize int
	var genLevel string
	genCmd := &cobra.Command{
		Use:   "gen [content]",
		Short: "Generate a QR code PNG locally, without a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(args[0], genOut, genSize, genLevel)
		},
	}
	genCmd.Flags().StringVarP(&genOut, "out", "o", "qr.png", "Output file path")
	genCmd.Flags().IntVarP(&genSize, "size", "s", 0, "Pixel size of the square output (default 250)")
	genCmd.Flags().StringVarP(&genLevel, "level", "l", "", "Error-correction level: low, medium, high, highest")
	root.AddCommand(genCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running service's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:8090", "Service HTTP address")
	root.AddCommand(statusCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrimage %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe is the main service entrypoint that wires all components together.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	log.Info("starting qrimage", "version", version, "port", cfg.Port)

	// 3. Create the generator service
	generator, err := qrgen.New(cfg.ErrorCorrection, cfg.DefaultSize, qrgen.Limits{
		MaxSize:    cfg.MaxSize,
		MaxContent: cfg.MaxContent,
	})
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	// 4. Open the history store, if enabled
	var history *store.HistoryStore
	if cfg.HistoryEnabled {
		if err := cfg.EnsureDataDir(); err != nil {
			return fmt.Errorf("ensure data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "history.db")
		history, err = store.NewHistoryStore(dbPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer history.Close()
		log.Info("history enabled", "db", dbPath)
	}

	// 5. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Generator:    generator,
			History:      history,
			Log:          log,
			Version:      version,
			DefaultLevel: strings.ToLower(cfg.ErrorCorrection),
			StartTime:    time.Now(),
		}),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("service is running", "view_url", fmt.Sprintf("http://localhost:%d/view", cfg.Port))

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

// runGen generates a single QR code PNG and writes it to a file.
func runGen(content, out string, size int, level string) error {
	generator, err := qrgen.New(level, 0, qrgen.Limits{})
	if err != nil {
		return err
	}

	img, err := generator.Generate(qrgen.Request{Content: content, Size: size})
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, img.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("wrote %s (%dx%d px, %d bytes)\n", out, img.Size, img.Size, len(img.PNG))
	return nil
}

// runStatus queries the service HTTP status endpoint.
func runStatus(addr string) error {
	resp, err := http.Get(addr + "/status")
	if err != nil {
		return fmt.Errorf("failed to reach service at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	var buf [4096]byte
	n, _ := resp.Body.Read(buf[:])
	fmt.Println(string(buf[:n]))
	return nil
}
