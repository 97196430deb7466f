package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/studentwell/internal/api"
	"github.com/kalambet/studentwell/internal/config"
	"github.com/kalambet/studentwell/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP and MCP servers (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		noMCP, _ := cmd.Flags().GetBool("no-mcp")
		return runServer(!noMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and check-in status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	startCmd.Flags().Bool("no-mcp", false, "serve HTTP only, without the MCP stdio transport")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "studentwell.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "studentwell version %s\n", version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Refuse to start twice. The health check catches servers whose PID file
	// went missing.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	if newAPIClient(cfg.Server.Port).healthy(context.Background()) {
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("studentwell is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("studentwell is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	app, err := openLocal(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	slog.Info("mood history loaded", "entries", app.dash.DaysTracked(), "key", app.hist.Key())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(app.dash),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		printStep("studentwell listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		stdioSrv := server.NewStdioServer(api.NewMCPServer(app.dash, version))
		g.Go(func() error {
			// A closed stdin ends the MCP session but not the HTTP server.
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("studentwell is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop studentwell (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to studentwell (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	if newAPIClient(cfg.Server.Port).healthy(ctx) {
		printStatus("Server", "running on port %d", cfg.Server.Port)
	} else {
		printStatus("Server", "stopped")
	}

	svc, err := openService(ctx, cfg)
	if err != nil {
		printError("could not read mood history: %v", err)
		return nil
	}
	defer svc.Close()

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		printError("could not read mood history: %v", err)
		return nil
	}

	if snap.CheckedInToday {
		printStatus("Today", "checked in")
	} else {
		printStatus("Today", "not checked in yet")
	}
	printStatus("Current mood", "%s", snap.CurrentMood)
	printStatus("Days tracked", "%d", snap.DaysTracked)
	if snap.Latest != nil {
		printStatus("Latest", "%s %s at %s", snap.Latest.Emoji, snap.Latest.Label, snap.Latest.Timestamp)
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	printStorageStatus(cfg)
	return nil
}

// printStorageStatus reports when the history slot was last written and
// warns about any kept copies of unreadable histories.
func printStorageStatus(cfg config.Config) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		printError("could not open storage: %v", err)
		return
	}
	defer store.Close()

	slot, err := store.GetSlot(cfg.Storage.HistoryKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		printStatus("Last saved", "never")
	case err != nil:
		printError("could not read history slot: %v", err)
	default:
		printStatus("Last saved", "%s", slot.UpdatedAt.Local().Format(time.DateTime))
	}

	keys, err := store.Keys()
	if err != nil {
		printError("could not list slots: %v", err)
		return
	}
	for _, k := range keys {
		if strings.HasSuffix(k, ".corrupt") {
			printWarning("unreadable history kept in %q, see \"studentwell backup show\"", k)
		}
	}
}
