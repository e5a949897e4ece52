package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/robot-colony/api"
	"github.com/wricardo/robot-colony/game/eventlog"
	"github.com/wricardo/robot-colony/game/service"
	"github.com/wricardo/robot-colony/transport/mcp"
	"github.com/wricardo/robot-colony/transport/websocket"
)

// newRouter combines the REST API and the /mcp endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient)
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogging(os.Stderr, cmd.Bool("debug"))
	log.Printf("Starting %s v%s", AppName, Version)

	var events *eventlog.Writer
	if path := cmd.String("event-log"); path != "" {
		w, err := eventlog.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("Failed to close event log: %v", err)
			}
			log.Printf("Event log %s: %d records", path, w.Lines())
		}()
		events = w
	}

	gameService, sessionManager, err := initializeServices(cmd.String("config-dir"), sessionOptions(logger, events)...)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	go sessionCleanupRoutine(ctx, sessionManager, time.Hour, cmd.Duration("session-ttl"))

	wg.Add(1)
	go func() {
		defer wg.Done()
		newAutoplayer(gameService, hub).run(ctx, autoplayResolution)
	}()

	// Start regular HTTP server
	serverErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	// Wait for shutdown signal
	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case runErr = <-serverErr:
		log.Printf("%v. Shutting down...", runErr)
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx ends
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	// Configure ngrok endpoint
	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runMCP runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:<port>; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol; logs go to stderr
	logger := setupLogging(os.Stderr, cmd.Bool("debug"))

	externalURL := fmt.Sprintf("http://localhost:%d", int(cmd.Int("port")))
	baseURL, shutdown, err := resolveAPI(externalURL, func() (service.GameService, error) {
		gameService, _, err := initializeServices(cmd.String("config-dir"), sessionOptions(logger, nil)...)
		return gameService, err
	})
	if err != nil {
		return err
	}
	defer shutdown()

	mcpClient := mcp.NewClient(baseURL)
	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// resolveAPI returns externalURL when an API answers there, otherwise it
// starts an internal API on a random loopback port
func resolveAPI(externalURL string, services func() (service.GameService, error)) (string, func(), error) {
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api")
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode < 500 {
			log.Printf("External API server found at %s, using it for MCP", externalURL)
			return externalURL, func() {}, nil
		}
	}

	log.Printf("No external API server found, starting internal HTTP server")

	gameService, err := services()
	if err != nil {
		return "", nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}
	internalAddr := listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

	// The internal API has no WebSocket clients
	httpServer := &http.Server{Handler: api.NewServer(gameService, nil)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}
	return fmt.Sprintf("http://%s", internalAddr), shutdown, nil
}
