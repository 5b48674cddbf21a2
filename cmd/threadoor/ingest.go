package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/poiesic/threadoor/ingestion"
	"github.com/poiesic/threadoor/splitter"
	"github.com/urfave/cli/v2"
)

func ingestConfig(c *cli.Context) ingestion.Config {
	return ingestion.Config{
		SourceDir:    c.String("source-dir"),
		Extensions:   c.StringSlice("ext"),
		ChunkSize:    c.Int("chunk-size"),
		ChunkOverlap: c.Int("chunk-overlap"),
		BatchSize:    c.Int("batch-size"),
		PoolSize:     c.Int("workers"),
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg := ingestConfig(c)
	if err := cfg.Validate(); err != nil {
		return err
	}

	length := splitter.LengthCharacters
	if c.Bool("tokens") {
		length = splitter.LengthTokens
	}
	split, err := splitter.New(splitter.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Length:       length,
	})
	if err != nil {
		return err
	}

	aiCfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, aiCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}
	opts := []ingestion.Option{
		ingestion.WithLogger(slog.Default()),
		ingestion.WithSplitter(split),
		ingestion.WithBatchSize(cfg.BatchSize),
		ingestion.WithPoolSize(poolSize),
	}
	if len(cfg.Extensions) > 0 {
		opts = append(opts, ingestion.WithExtensions(cfg.Extensions...))
	}
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.Run(ctx, cfg.SourceDir)
	if errors.Is(err, ingestion.ErrNoNewDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Ingestion complete! %d documents, %d chunks.\n", result.Documents, result.Chunks)
	return nil
}
