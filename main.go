// tradermatch-client is the client for the TraderMatch matching backend.
//
// By default it runs the terminal UI. With --serve it runs headless and
// exposes the client state and operations on a local HTTP bridge instead,
// for front ends that render elsewhere.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradermatch_client/config"
	"tradermatch_client/controllers"
	"tradermatch_client/routes"
	"tradermatch_client/services"
	"tradermatch_client/tui"
	"tradermatch_client/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var serve bool
	var username string
	var port string

	flagSet := pflag.NewFlagSet("tradermatch-client", pflag.ContinueOnError)
	flagSet.BoolVar(&serve, "serve", false, "run headless and expose the HTTP bridge")
	flagSet.StringVar(&username, "user", "", "sign in as this demo user on startup")
	flagSet.StringVar(&port, "port", "", "bridge port (default: BRIDGE_PORT or 4747)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg := config.Load()
	if port != "" {
		cfg.App.BridgePort = port
	}

	var logger *utils.ZapLogger
	if serve {
		logger = utils.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	} else {
		logger = utils.NewIsolatedLogger(cfg.App.LogFilePath)
	}
	defer logger.Sync()

	backend := services.NewBackend(cfg.Backend.BaseURL, cfg.Backend.HTTPTimeout, logger)
	app := controllers.NewApp(backend, controllers.SocketDialer(cfg.Backend.WebSocketURL, logger), controllers.AppOptions{
		ActiveOnly: cfg.Discovery.ShowActiveOnly,
		Policy:     controllers.SwipePolicy{AdvanceOnError: cfg.Discovery.AdvanceOnError},
	}, logger)
	defer app.Close()

	logger.Info("Main", "Client configured", map[string]interface{}{
		"backend": cfg.Backend.BaseURL, "websocket": cfg.Backend.WebSocketURL, "serve": serve,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if username != "" {
		if err := app.Login(ctx, username); err != nil {
			return fmt.Errorf("sign in as %s: %w", username, err)
		}
	}

	if serve {
		return serveBridge(ctx, cfg, app, logger)
	}

	program := tea.NewProgram(tui.NewModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func serveBridge(ctx context.Context, cfg *config.Config, app *controllers.App, logger utils.ILogger) error {
	server := &http.Server{
		Addr:              ":" + cfg.App.BridgePort,
		Handler:           routes.NewBridgeHandler(app, cfg.App.CorsAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Main", "Starting bridge", map[string]interface{}{"port": cfg.App.BridgePort})
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("Main", "Shutting down bridge", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `TraderMatch client.

Runs the terminal UI against the backend at BACKEND_URL. With --serve it
runs headless and exposes the client on a local HTTP bridge.

Usage:
  tradermatch-client [flags]

Flags:
%s`, flagSet.FlagUsages())
}
