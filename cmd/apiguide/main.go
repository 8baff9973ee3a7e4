package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/vanderheijden86/apiguide/pkg/config"
	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/copier"
	"github.com/vanderheijden86/apiguide/pkg/debug"
	"github.com/vanderheijden86/apiguide/pkg/ui"
	"github.com/vanderheijden86/apiguide/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the pieces commands share. Tests swap the output and the
// clipboard.
type app struct {
	out       io.Writer
	clipboard copier.Writer
	getenv    func(string) string
	debugFile *os.File
}

func newApp(out io.Writer) *cli.Command {
	a := &app{out: out, clipboard: copier.SystemWriter, getenv: os.Getenv}
	return a.command()
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    "apiguide",
		Usage:   "Browse FastAPI tutorials in the terminal",
		Version: version.String(),
		Writer:  a.out,
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "content", Usage: "Load guides from `DIR` instead of the built-in set"},
			&cli.StringFlag{Name: "debug-log", Usage: "Write debug logging to `FILE`"},
		}, tuiFlags()...),
		Before: a.before,
		After:  a.after,
		Action: a.runTUI,
		Commands: []*cli.Command{
			a.tuiCmd(),
			a.listCmd(),
			a.showCmd(),
			a.exportCmd(),
			a.copyCmd(),
			a.playgroundCmd(),
			a.validateCmd(),
		},
	}
}

func tuiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "guide", Aliases: []string{"g"}, Usage: "Open guide `ID` first (quick, detailed, practical)"},
		&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "Reload guides when files in the content directory change"},
		&cli.BoolFlag{Name: "toc", Usage: "Show the table of contents on start"},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("debug-log")
	if path == "" {
		return ctx, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ctx, fmt.Errorf("opening debug log: %w", err)
	}
	a.debugFile = f
	debug.SetOutput(f)
	debug.Log("apiguide %s starting", version.String())
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	if a.debugFile != nil {
		debug.SetEnabled(false)
		return a.debugFile.Close()
	}
	return nil
}

// resolveConfig layers the config file, the environment and flags, in
// increasing precedence.
func (a *app) resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Discover()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(a.getenv)
	if cmd.IsSet("guide") {
		cfg.DefaultGuide = cmd.String("guide")
	}
	if cmd.IsSet("content") {
		cfg.ContentDir = cmd.String("content")
	}
	if cmd.IsSet("watch") {
		cfg.Watch = cmd.Bool("watch")
	}
	if cmd.IsSet("toc") {
		cfg.ShowTOC = cmd.Bool("toc")
	}
	if cfg.Source != "" {
		debug.Log("config: loaded %s", cfg.Source)
	}
	return cfg, nil
}

func loadLibrary(ctx context.Context, dir string) (*content.Library, error) {
	if dir == "" {
		return content.LoadEmbedded()
	}
	lib, err := content.LoadDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("loading guides from %s: %w", dir, err)
	}
	return lib, nil
}

func (a *app) tuiCmd() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive guide browser (default)",
		Flags:  tuiFlags(),
		Action: a.runTUI,
	}
}

func (a *app) runTUI(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command %q", cmd.Args().First())
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the guide browser needs a terminal; try 'apiguide list' or 'apiguide show'")
	}

	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := loadLibrary(ctx, cfg.ContentDir)
	if err != nil {
		return err
	}

	// The copier and the worker outlive program construction, so they reach
	// the program through this pointer.
	var program atomic.Pointer[tea.Program]
	send := func(msg tea.Msg) {
		if p := program.Load(); p != nil {
			p.Send(msg)
		}
	}

	cp := copier.New(a.clipboard,
		copier.WithWindow(cfg.CopyAck()),
		copier.WithOnExpire(func(id string) { send(ui.CopyExpiredMsg{ID: id}) }),
	)
	defer cp.Close()

	model := ui.NewModel(lib, cp, ui.Options{Guide: cfg.DefaultGuide, ShowTOC: cfg.ShowTOC})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	program.Store(p)

	if cfg.Watch {
		if cfg.ContentDir == "" {
			debug.Log("watch: built-in guides cannot change, ignoring --watch")
		} else {
			worker, err := ui.NewBackgroundWorker(ui.WorkerConfig{ContentDir: cfg.ContentDir, Send: send})
			if err != nil {
				return err
			}
			if err := worker.Start(); err != nil {
				return err
			}
			defer worker.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
