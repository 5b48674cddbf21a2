package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/threadoor/search"
	"github.com/urfave/cli/v2"
)

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("search query is required")
	}

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	results, err := searcher.FindSimilar(ctx, query, c.Int("k"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(c.App.Writer, "%d: %s#%d [%0.3f]\n%s\n\n", i, hit.Chunk.Source, hit.Chunk.Index, hit.Score, hit.Chunk.Contents)
	}
	return nil
}
