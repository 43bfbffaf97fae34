package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aretw0/ladle"
	"github.com/aretw0/ladle/internal/presentation/tui"
	"github.com/aretw0/ladle/pkg/domain"
)

// ChatOptions configures the interactive walkthrough REPL.
type ChatOptions struct {
	RecipeID string
	URL      string

	// Plain disables the banner and markdown rendering even on a TTY.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// RunChat opens a session for the chosen recipe and loops on user input
// until EOF or an exit command.
func RunChat(ctx context.Context, engine *ladle.Engine, opts ChatOptions) error {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	interactive := !opts.Plain && term.IsTerminal(int(os.Stdout.Fd()))

	recipeID := opts.RecipeID
	if recipeID == "" && opts.URL != "" {
		recipe, err := engine.LoadRecipe(ctx, opts.URL)
		if err != nil {
			return fmt.Errorf("could not load recipe from %s: %w", opts.URL, err)
		}
		recipeID = recipe.ID
	}
	if recipeID == "" {
		// No selection: offer whatever the book holds.
		ids, err := engine.Recipes(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no recipes available: pass --recipe or --url")
		}
		if len(ids) > 1 {
			fmt.Fprintln(out, "Available recipes:")
			for _, id := range ids {
				fmt.Fprintln(out, "  - "+id)
			}
			return fmt.Errorf("multiple recipes available: pick one with --recipe")
		}
		recipeID = ids[0]
	}

	recipe, err := engine.Recipe(ctx, recipeID)
	if err != nil {
		return err
	}

	sessionID, err := engine.CreateSession(ctx, recipeID)
	if err != nil {
		return err
	}
	defer engine.EndSession(context.WithoutCancel(ctx), sessionID)

	if interactive {
		tui.PrintBanner()
	}
	fmt.Fprintf(out, "Walking through: %s (%d steps)\n", recipe.Title, recipe.NumSteps())
	fmt.Fprintln(out, `Say "start" to begin, "next"/"back"/"repeat" to move, or ask a question. "quit" to leave.`)

	render := func(s string) string { return s }
	if interactive {
		r := tui.NewRenderer()
		render = func(s string) string {
			if rendered, err := r(s); err == nil {
				return strings.TrimSpace(rendered)
			}
			return s
		}
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(out, "\nBye!")
				return nil
			}
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		switch text {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		resp, err := engine.Say(ctx, sessionID, text)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, render(formatResponse(resp, interactive)))
	}
}

// formatResponse decorates the response text with markdown emphasis for the
// renderer; plain output stays readable as-is.
func formatResponse(resp *domain.Response, markdown bool) string {
	if !markdown {
		return resp.Text
	}
	switch resp.Kind {
	case domain.KindStep:
		return "**" + resp.Text + "**"
	case domain.KindComplete:
		return "🎉 " + resp.Text
	default:
		return resp.Text
	}
}
