package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/folio/internal/api"
	"github.com/kalambet/folio/internal/config"
	"github.com/kalambet/folio/internal/engine"
	"github.com/kalambet/folio/internal/knowledge"
	"github.com/kalambet/folio/internal/proxy"
	"github.com/kalambet/folio/internal/session"
	"github.com/kalambet/folio/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant server (HTTP API + MCP over stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// completerAdapter bridges proxy.Client to engine.Completer.
type completerAdapter struct {
	client *proxy.Client
}

func (a completerAdapter) Complete(ctx context.Context, model string, messages []engine.Message, temperature float64, maxTokens int) (string, error) {
	msgs := make([]proxy.ChatMessage, len(messages))
	for i, m := range messages {
		msgs[i] = proxy.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return a.client.Complete(ctx, model, msgs, temperature, maxTokens)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "folio version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the knowledge base. Fatal when absent or malformed: there is
	// nothing to talk about without it.
	kb, err := knowledge.Load(cfg.Knowledge.Path)
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	slog.Info("knowledge base loaded", "path", cfg.Knowledge.Path, "projects", len(kb.Projects()))

	// Open the turn log.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Wire the conversation engine.
	proxyClient := proxy.NewClient(cfg.Proxy.OpenRouterAPIKey)
	eng := engine.New(kb, completerAdapter{client: proxyClient}, cfg.Proxy.Model, store)
	eng.SetGeneration(cfg.Generation.Temperature, cfg.Generation.MaxTokens)

	sessions := session.NewManager()

	deps := api.Deps{
		Knowledge: kb,
		Sessions:  sessions,
		Engine:    eng,
		Models:    proxyClient,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "folio listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// MCP server on stdio.
	stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
	g.Go(func() error {
		if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
		return nil
	})
	slog.Info("MCP server started (stdio transport)")

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
