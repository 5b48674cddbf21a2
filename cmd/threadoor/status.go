package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

func statusCommand(c *cli.Context) error {
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

	sources, err := db.DocumentRepository().ListSources(ctx)
	if err != nil {
		return err
	}
	chunks, err := db.ChunkRepository().CountChunks(ctx)
	if err != nil {
		return err
	}
	checkpoints, err := db.CheckpointRepository().ListCheckpoints(ctx)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Vector store: %s\n", c.String("persist-dir"))
	fmt.Fprintf(w, "Documents: %d\n", len(sources))
	fmt.Fprintf(w, "Chunks: %d\n", chunks)
	for _, cp := range checkpoints {
		after := fmt.Sprintf("document %d", cp.LastId)
		if doc, err := db.DocumentRepository().GetDocument(ctx, cp.LastId); err == nil {
			after = doc.Source
		}
		fmt.Fprintf(w, "Unfinished %s run: resumes after %s (saved %s)\n", cp.ProcessorType, after, cp.UpdatedAt.Format(time.RFC3339))
	}
	if c.Bool("sources") {
		for _, source := range sources {
			fmt.Fprintln(w, source)
		}
	}
	return nil
}
