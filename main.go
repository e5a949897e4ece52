// Command robot-colony runs the robot colony simulation.
//
// It supports four commands:
//  1. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run" – advances one preset headlessly for N ticks and prints a summary
//  4. "tui" – shows one preset in the terminal
//
// Flags control host/port, config directory, debug logging, event logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-colony/game/config"
	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/eventlog"
	"github.com/wricardo/robot-colony/game/service"
	"github.com/wricardo/robot-colony/game/session"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Robot Colony Server"
)

// main loads .env and dispatches to the selected command
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, engine.ErrNoBase) {
			log.Fatalf("Simulation cannot start: %v", err)
		}
		log.Fatalf("Error: %v", err)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "robot-colony",
		Usage:   "multi-agent robot resource gathering simulation",
		Version: Version,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags:  append(commonFlags(), serveFlags()...),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "Run MCP stdio server, reusing a local API server or starting an internal one",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:    "port",
						Value:   8080,
						Usage:   "Port of an external API server to reuse",
						Sources: cli.EnvVars("PORT"),
					},
				),
				Action: runMCP,
			},
			{
				Name:   "run",
				Usage:  "Advance a preset headlessly and print a summary",
				Flags:  append(commonFlags(), runFlags()...),
				Action: runHeadless,
			},
			{
				Name:  "tui",
				Usage: "Show a preset in the terminal (space step, p pause, +/- speed, q quit)",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "config", Usage: "Preset to run (default preset when empty)"},
					&cli.DurationFlag{Name: "interval", Usage: "Autoplay interval (preset interval when zero)"},
					&cli.BoolFlag{Name: "paused", Usage: "Start without autoplay"},
				),
				Action: runTUI,
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Value:   "configs",
			Usage:   "Directory containing scenario presets",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		&cli.StringFlag{Name: "event-log", Usage: "Write every session's tick events to this zstd JSONL file"},
		&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Remove sessions idle for longer than this"},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "Preset to run (default preset when empty)"},
		&cli.IntFlag{Name: "ticks", Value: 500, Usage: "Number of ticks to simulate"},
		&cli.StringFlag{Name: "event-log", Usage: "Write tick events to this zstd JSONL file"},
		&cli.BoolFlag{Name: "map", Usage: "Print the final map"},
	}
}

// setupLogging configures the standard logger for lifecycle lines and returns
// the structured logger used for simulation narration
func setupLogging(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		level = slog.LevelDebug
	} else {
		log.SetFlags(log.LstdFlags)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// observerFactory narrates every session through logger and, when events is
// set, records its tick events
func observerFactory(logger *slog.Logger, events *eventlog.Writer) session.ObserverFactory {
	return func(sessionID string) engine.Observer {
		observers := engine.MultiObserver{engine.NewLogObserver(logger.With("session", sessionID))}
		if events != nil {
			observers = append(observers, events.Observer(sessionID))
		}
		return observers
	}
}

func sessionOptions(logger *slog.Logger, events *eventlog.Writer) []session.Option {
	return []session.Option{session.WithObserverFactory(observerFactory(logger, events))}
}

// initializeServices wires session/config managers and the game service
func initializeServices(configDir string, opts ...session.Option) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(opts...)
	gameService := service.NewGameService(sessionManager, configManager)
	return gameService, sessionManager, nil
}

// loadPreset returns the named preset, or the default one when name is empty
func loadPreset(configDir, name string) (*engine.SimConfig, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if name == "" {
		return configManager.GetDefault(), nil
	}
	return configManager.LoadConfig(name)
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(maxAge)
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}
