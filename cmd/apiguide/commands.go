package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	cli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/vanderheijden86/apiguide/pkg/content"
	"github.com/vanderheijden86/apiguide/pkg/copier"
	"github.com/vanderheijden86/apiguide/pkg/export"
	"github.com/vanderheijden86/apiguide/pkg/playground"
	"github.com/vanderheijden86/apiguide/pkg/ui"
)

const exportTitle = "FastAPI Guides"

// guideSummary is the list --json shape.
type guideSummary struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Noun  string        `json:"unit_noun"`
	Units []unitSummary `json:"units"`
}

type unitSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty,omitempty"`
	CodeSamples int    `json:"code_samples"`
}

func (a *app) library(ctx context.Context, cmd *cli.Command) (*content.Library, error) {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return loadLibrary(ctx, cfg.ContentDir)
}

func (a *app) listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List guides and their units",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lib, err := a.library(ctx, cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				out := make([]guideSummary, 0, lib.Len())
				for _, g := range lib.Guides() {
					s := guideSummary{ID: g.ID, Title: g.Title, Noun: g.Noun()}
					for _, u := range g.Units {
						s.Units = append(s.Units, unitSummary{
							ID:          u.ID,
							Title:       u.Title,
							Difficulty:  u.Difficulty,
							CodeSamples: len(u.CodeItems()),
						})
					}
					out = append(out, s)
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for i, g := range lib.Guides() {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s\t%s\t%d %ss\n", g.ID, g.Title, g.Len(), g.Noun())
				for j, u := range g.Units {
					fmt.Fprintf(w, "  %d. %s\t%s\t%s\n", j+1, u.ID, u.Title, u.Difficulty)
				}
			}
			return w.Flush()
		},
	}
}

// findUnit resolves a unit by id or 1-based position.
func findUnit(g content.Guide, ref string) (int, error) {
	if ref == "" {
		return 0, nil
	}
	if i := g.IndexOf(ref); i >= 0 {
		return i, nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= g.Len() {
		return n - 1, nil
	}
	return 0, fmt.Errorf("guide %q has no %s %q", g.ID, g.Noun(), ref)
}

func findGuide(lib *content.Library, id string) (content.Guide, error) {
	if id == "" {
		return content.Guide{}, errors.New("guide argument is required")
	}
	g, ok := lib.Guide(id)
	if !ok {
		return content.Guide{}, fmt.Errorf("unknown guide %q (have %s)", id, strings.Join(lib.IDs(), ", "))
	}
	return g, nil
}

func (a *app) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one unit of a guide",
		ArgsUsage: "<guide> [unit]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lib, err := a.library(ctx, cmd)
			if err != nil {
				return err
			}
			g, err := findGuide(lib, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			i, err := findUnit(g, cmd.Args().Get(1))
			if err != nil {
				return err
			}

			u := g.Units[i]
			md := fmt.Sprintf("# %s\n\n%s %d of %d · %s\n\n%s", u.Title, g.Noun(), i+1, g.Len(), g.Title, ui.UnitMarkdown(g, i))

			if width, ok := terminalWidth(a.out); ok {
				r := ui.NewMarkdownRenderer(min(width, 100))
				if rendered, err := r.Render(md); err == nil {
					md = rendered
				}
			}
			_, err = io.WriteString(a.out, md)
			return err
		},
	}
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}

func (a *app) exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write guides to a single Markdown file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output `FILE`", Required: true},
			&cli.StringFlag{Name: "guide", Usage: "Export only guide `ID`"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lib, err := a.library(ctx, cmd)
			if err != nil {
				return err
			}
			guides := lib.Guides()
			title := exportTitle
			if id := cmd.String("guide"); id != "" {
				g, err := findGuide(lib, id)
				if err != nil {
					return err
				}
				guides = []content.Guide{g}
				title = g.Title
			}

			out := cmd.String("out")
			if err := export.SaveMarkdownToFile(guides, title, out); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d guides to %s\n", len(guides), out)
			return nil
		},
	}
}

func (a *app) copyCmd() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy a code sample to the clipboard",
		ArgsUsage: "<guide> <unit> [n]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lib, err := a.library(ctx, cmd)
			if err != nil {
				return err
			}
			g, err := findGuide(lib, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			if cmd.Args().Get(1) == "" {
				return errors.New("unit argument is required")
			}
			i, err := findUnit(g, cmd.Args().Get(1))
			if err != nil {
				return err
			}
			u := g.Units[i]

			items := u.CodeItems()
			if len(items) == 0 {
				return fmt.Errorf("%s %q has no code samples", g.Noun(), u.ID)
			}
			n := 1
			if ref := cmd.Args().Get(2); ref != "" {
				n, err = strconv.Atoi(ref)
				if err != nil || n < 1 || n > len(items) {
					return fmt.Errorf("sample must be between 1 and %d", len(items))
				}
			}
			item := items[n-1]
			id := content.CodeBlockID(g.ID, u.ID, item)

			cp := copier.New(a.clipboard)
			defer cp.Close()
			if err := cp.Copy(u.Body[item].Code.Text, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "📋 Copied %s to clipboard\n", id)
			return nil
		},
	}
}

func (a *app) playgroundCmd() *cli.Command {
	return &cli.Command{
		Name:  "playground",
		Usage: "Print a simulated API response",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Aliases: []string{"X"}, Value: "GET", Usage: "HTTP `METHOD` (GET, POST, PUT, DELETE)"},
			&cli.StringFlag{Name: "endpoint", Aliases: []string{"e"}, Usage: "Request `PATH`, e.g. /items/1"},
			&cli.StringFlag{Name: "body", Aliases: []string{"d"}, Usage: "JSON request `BODY`"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := playground.Request{
				Method:   cmd.String("method"),
				Endpoint: cmd.String("endpoint"),
				Body:     cmd.String("body"),
			}
			if strings.TrimSpace(req.Endpoint) == "" {
				if err := askRequest(ctx, &req); err != nil {
					return err
				}
			}

			resp, err := playground.Simulate(req, time.Now())
			if err != nil {
				return err
			}
			out, err := resp.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
}

// askRequest fills in a request interactively. Without a terminal on stdin
// huh falls back to its line-based accessible mode.
func askRequest(ctx context.Context, req *playground.Request) error {
	if req.Endpoint == "" {
		req.Endpoint = "/items/1"
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Method").
				Options(huh.NewOptions(playground.Methods...)...).
				Value(&req.Method),
			huh.NewInput().
				Title("Endpoint").
				Value(&req.Endpoint),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Request body (JSON)").
				Value(&req.Body).
				Validate(playground.ValidateBody),
		).WithHideFunc(func() bool { return !playground.HasBody(req.Method) }),
	).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("playground form: %w", err)
	}
	return nil
}

func (a *app) validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a content directory for errors",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				cfg, err := a.resolveConfig(cmd)
				if err != nil {
					return err
				}
				dir = cfg.ContentDir
			}

			var (
				lib *content.Library
				err error
			)
			if dir == "" {
				lib, err = content.LoadEmbedded()
				dir = "built-in guides"
			} else {
				lib, err = content.LoadDir(ctx, dir)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}

			for _, g := range lib.Guides() {
				samples := 0
				for _, u := range g.Units {
					samples += len(u.CodeItems())
				}
				fmt.Fprintf(a.out, "✓ %s: %d %ss, %d code samples\n", g.ID, g.Len(), g.Noun(), samples)
			}
			fmt.Fprintf(a.out, "%s: %d guides OK\n", dir, lib.Len())
			return nil
		},
	}
}
