package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/platechef/internal/conversation"
	"github.com/hammamikhairi/platechef/internal/display"
	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/form"
	"github.com/hammamikhairi/platechef/internal/logger"
	"github.com/hammamikhairi/platechef/internal/upload"
	"github.com/hammamikhairi/platechef/internal/workflow"
)

// output is the part of display.UI the REPL writes to.
type output interface {
	PrintBlock(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	SetSelection(name string)
	Quit()
}

var _ output = (*display.UI)(nil)

type cliApp struct {
	workflow *workflow.Orchestrator
	uploads  *upload.Controller
	form     *form.Controller
	health   domain.HealthChecker
	parser   domain.CommandParser
	notifier domain.Notifier
	out      output
	baseURL  string
	log      *logger.Logger

	jobs sync.WaitGroup // backend calls running in the background
}

func (a *cliApp) run(ctx context.Context, input <-chan string) {
	for {
		var line string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case line, ok = <-input:
			if !ok {
				return
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, line)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("command: %s (key=%q payload=%q)", cmd.Type, cmd.Key, cmd.Payload)
		if !a.handle(ctx, cmd) {
			return
		}
	}
}

// handle dispatches one command. It returns false when the app should exit.
func (a *cliApp) handle(ctx context.Context, cmd *domain.Command) bool {
	switch cmd.Type {
	case domain.CommandUpload:
		a.upload(ctx, cmd.Payload)
	case domain.CommandSelect:
		a.selectPhoto(cmd.Payload)
	case domain.CommandAnalyze:
		a.analyze(ctx)
	case domain.CommandClear:
		a.clearPhoto()
	case domain.CommandSet:
		a.set(cmd.Key, cmd.Payload)
	case domain.CommandGenerate:
		a.generate(ctx, cmd.Payload)
	case domain.CommandDismiss:
		a.dismiss()
	case domain.CommandStatus:
		a.status()
	case domain.CommandHealth:
		a.checkHealth(ctx, healthTimeout)
	case domain.CommandHelp:
		a.out.PrintBlock(conversation.LineHelp())
	case domain.CommandQuit:
		a.chat(ctx, conversation.LineBye())
		return false
	default:
		a.out.PrintHint(conversation.LineUnknown(cmd.Payload))
	}
	return true
}

// wait blocks until every background call has finished.
func (a *cliApp) wait() { a.jobs.Wait() }

func (a *cliApp) background(fn func()) {
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		fn()
	}()
}

func (a *cliApp) chat(ctx context.Context, text string) {
	if err := a.notifier.Notify(ctx, text); err != nil {
		a.log.Debug("notify: %v", err)
	}
}

func (a *cliApp) alert(ctx context.Context, text string) {
	if err := a.notifier.NotifyUrgent(ctx, text); err != nil {
		a.log.Debug("notify: %v", err)
	}
}

// ── Photo ────────────────────────────────────────────────────────

func (a *cliApp) upload(ctx context.Context, path string) {
	if a.selectPhoto(path) {
		a.analyze(ctx)
	}
}

func (a *cliApp) selectPhoto(path string) bool {
	img, err := a.uploads.Select(path)
	if err != nil {
		a.out.PrintUrgent(describe(err))
		return false
	}
	a.out.SetSelection(img.Filename)
	a.out.PrintBlock(display.RenderPreview(img))
	return true
}

func (a *cliApp) clearPhoto() {
	a.uploads.Clear()
	a.out.SetSelection("")
	a.out.PrintHint(conversation.LineSelectionCleared())
}

func (a *cliApp) analyze(ctx context.Context) {
	img := a.uploads.Selected()
	if img == nil {
		a.out.PrintHint(conversation.LineNoPhoto())
		return
	}
	if a.workflow.Snapshot().InFlight() {
		a.out.PrintHint(conversation.LineBusy())
		return
	}

	a.out.PrintHint(conversation.LineAnalyzing(img.Filename))
	a.background(func() {
		dish, err := a.uploads.Submit(ctx)
		switch {
		case errors.Is(err, domain.ErrBusy):
			a.out.PrintHint(conversation.LineBusy())
		case errors.Is(err, domain.ErrNoImage):
			a.out.PrintHint(conversation.LineNoPhoto())
		case err != nil:
			a.out.PrintBlock(display.RenderError(domain.UserMessage(domain.OpAnalyze, err)))
		default:
			a.out.PrintBlock(display.RenderDish(dish))
			a.chat(ctx, conversation.LineIdentified(dish.DishName, len(dish.Ingredients)))
		}
	})
}

// ── Recipe ───────────────────────────────────────────────────────

func (a *cliApp) set(key, value string) {
	if err := a.form.Set(key, value); err != nil {
		a.out.PrintUrgent(describe(err))
		return
	}
	a.out.PrintHint(conversation.LineSettings(a.form.Values().String()))
}

func (a *cliApp) generate(ctx context.Context, inline string) {
	if err := a.form.ParseAssignments(inline); err != nil {
		a.out.PrintUrgent(describe(err))
		return
	}

	snap := a.workflow.Snapshot()
	if snap.InFlight() {
		a.out.PrintHint(conversation.LineBusy())
		return
	}
	if len(snap.Ingredients) == 0 {
		a.out.PrintHint(conversation.LineNoIngredients())
		return
	}

	if _, err := a.form.Build(snap.Ingredients); err != nil {
		a.out.PrintUrgent(describe(err))
		return
	}

	a.out.PrintHint(conversation.LineGenerating(len(snap.Ingredients)))
	a.out.PrintHint(conversation.LineSettings(a.form.Values().String()))
	a.background(func() {
		recipe, err := a.form.Submit(ctx, snap.Ingredients)
		switch {
		case errors.Is(err, domain.ErrBusy):
			a.out.PrintHint(conversation.LineBusy())
		case errors.Is(err, domain.ErrNoIngredients):
			a.out.PrintHint(conversation.LineNoIngredients())
		case err != nil:
			a.out.PrintBlock(display.RenderError(domain.UserMessage(domain.OpGenerate, err)))
		default:
			a.out.PrintBlock(display.RenderRecipe(recipe))
		}
	})
}

// ── Workflow ─────────────────────────────────────────────────────

func (a *cliApp) dismiss() {
	if a.workflow.DismissError() {
		a.out.PrintHint(conversation.LineDismissed())
		return
	}
	a.out.PrintHint(conversation.LineNothingToDismiss())
}

func (a *cliApp) status() {
	s := a.workflow.Snapshot()

	a.out.PrintBlock(display.RenderPreview(a.uploads.Selected()))
	a.out.PrintHint("state: " + s.Phase.String())
	a.out.PrintBlock(display.RenderIngredients(s.Ingredients))
	if s.Dish != nil && s.Dish.DishName != "" {
		a.out.PrintHint("dish: " + s.Dish.DishName)
	}
	if s.Recipe != nil {
		a.out.PrintHint("recipe: " + s.Recipe.Name)
	}
	a.out.PrintHint(conversation.LineSettings(a.form.Values().String()))
	if s.HasError() {
		a.out.PrintBlock(display.RenderError(s.Err))
	}
}

// ── Backend ──────────────────────────────────────────────────────

func (a *cliApp) checkHealth(ctx context.Context, timeout time.Duration) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	h, err := a.health.Check(probeCtx)
	if err != nil {
		a.log.Warn("health check failed: %v", err)
		a.alert(ctx, conversation.LineBackendDown(a.baseURL, domain.UserMessage(domain.OpHealth, err)))
		return
	}
	if !h.OK() {
		a.out.PrintBlock(display.RenderHealth(h))
		return
	}
	a.chat(ctx, conversation.LineBackendUp(a.baseURL))
	if !h.GeminiConfigured {
		a.out.PrintBlock(display.RenderHealth(h))
	}
}

// describe turns a local error into a line for the user.
func describe(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return fmt.Sprintf("Error: %v", err)
}
