// PlateChef turns a photo of a dish into a recipe.
//
// Usage:
//
//	platechef [-api-url URL] [-timeout 30s] [-verbose] [-quiet] [photo]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/platechef/internal/api"
	"github.com/hammamikhairi/platechef/internal/conversation"
	"github.com/hammamikhairi/platechef/internal/display"
	"github.com/hammamikhairi/platechef/internal/form"
	"github.com/hammamikhairi/platechef/internal/gateway"
	"github.com/hammamikhairi/platechef/internal/logger"
	"github.com/hammamikhairi/platechef/internal/upload"
	"github.com/hammamikhairi/platechef/internal/workflow"
)

const healthTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Direct logs to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.logFile != "" && cfg.logFile != "stderr" {
		dir := filepath.Dir(cfg.logFile)
		if dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	log := logger.New(cfg.logLevel, logOut)
	stdlog.SetOutput(log.Writer())
	stdlog.SetFlags(stdlog.Ltime)

	// Cancelled when the UI quits or on SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Wire dependencies.
	var clientOpts []api.ClientOption
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(cfg.timeout))
	}
	client := api.NewClient(cfg.apiURL, log, clientOpts...)

	images := gateway.NewImages(client, log, gateway.WithIdentifyPath(cfg.identifyPath))
	recipes := gateway.NewRecipes(client, log, gateway.WithGeneratePath(cfg.generatePath))
	health := gateway.NewHealth(client, log, gateway.WithHealthPath(cfg.healthPath))

	ui := display.NewUI()
	orchestrator := workflow.New(images, recipes, log, workflow.WithObserver(ui.SetState))

	app := &cliApp{
		workflow: orchestrator,
		uploads:  upload.NewController(orchestrator, log, upload.WithMaxSize(cfg.maxUploadBytes())),
		form:     form.NewController(orchestrator, log),
		health:   health,
		parser:   conversation.NewKeywordParser(log),
		notifier: conversation.NewCLINotifier(log, ui.Printf),
		out:      ui,
		baseURL:  client.BaseURL(),
		log:      log,
	}

	log.Info("platechef starting: backend=%s identify=%s generate=%s timeout=%s",
		client.BaseURL(), cfg.identifyPath, cfg.generatePath, cfg.timeout)

	fmt.Print(display.RenderBanner(conversation.LineTagline()))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		if !cfg.noHealth {
			app.checkHealth(ctx, healthTimeout)
		}
		app.chat(ctx, conversation.LineWelcome())
		for _, photo := range cfg.args {
			app.upload(ctx, photo)
		}
		app.run(ctx, ui.InputChan())
		cancel() // aborts any request still in flight
		app.wait()
		ui.Quit()
	}()

	go func() {
		<-ctx.Done()
		ui.Quit()
	}()

	// Bubble Tea owns the terminal; blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	log.Info("platechef stopped")
}
