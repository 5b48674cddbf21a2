package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/loader"
	"github.com/poiesic/threadoor/search"
	"github.com/urfave/cli/v2"
)

const (
	queryPrompt = "Enter a query: "
	exitCommand = "exit"
)

type asker interface {
	Ask(ctx context.Context, query string) (*search.Answer, error)
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	model, err := ai.NewCachedModel(db.Provider().Model(), c.Int64("cache-size"))
	if err != nil {
		return fmt.Errorf("failed to create completion cache: %w", err)
	}
	defer model.Close()

	qa, err := db.NewQA(model, c.Int("k"),
		search.WithTemperature(cfg.Temperature),
		search.WithMaxTokens(cfg.MaxTokens))
	if err != nil {
		return fmt.Errorf("failed to create QA chain: %w", err)
	}

	hideSource := c.Bool("hide-source")
	if c.Bool("plain") || !isatty.IsTerminal(0) {
		return askLoop(ctx, qa, c.App.Reader, c.App.Writer, hideSource)
	}
	return runAskUI(ctx, qa, hideSource)
}

// askLoop answers one query per input line until "exit" or end of input.
func askLoop(ctx context.Context, qa asker, in io.Reader, out io.Writer, hideSource bool) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n"+queryPrompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == exitCommand {
			return nil
		}

		answer, err := qa.Ask(ctx, query)
		if errors.Is(err, search.ErrEmptyQuery) {
			fmt.Fprintln(out, "error: query empty!")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatAnswer(answer, hideSource))
	}
}

func formatAnswer(answer *search.Answer, hideSource bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n> Question:\n%s\n", answer.Question)
	fmt.Fprintf(&b, "\n> Answer:\n%s\n", answer.Text)
	if hideSource {
		return b.String()
	}
	for _, doc := range answer.Sources {
		fmt.Fprintf(&b, "\n> %v:\n%s\n", doc.Metadata[loader.MetadataSource], doc.PageContent)
	}
	return b.String()
}
