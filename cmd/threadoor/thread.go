package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/threadoor"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/ai/openai"
	"github.com/poiesic/threadoor/chain"
	"github.com/poiesic/threadoor/content"
	"github.com/urfave/cli/v2"
)

// loadRoles returns the roles in the --roles file, or defaults when unset.
func loadRoles(c *cli.Context, defaults []chain.Role) ([]chain.Role, error) {
	path := c.Path("roles")
	if path == "" {
		return defaults, nil
	}
	roles, err := chain.LoadRoles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	return roles, nil
}

func newSequence(c *cli.Context, cfg *ai.Config, provider ai.AIProvider, defaults []chain.Role) (*chain.Sequence, error) {
	roles, err := loadRoles(c, defaults)
	if err != nil {
		return nil, err
	}
	if c.Bool("headlines") {
		roles = chain.ReplaceRole(roles, chain.HeadlineRole())
	}
	return threadoor.NewSequence(provider, roles, slog.Default(),
		chain.WithTemperature(cfg.Temperature),
		chain.WithMaxTokens(cfg.MaxTokens))
}

func threadCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	seq, err := newSequence(c, cfg, provider, chain.ThreadRoles())
	if err != nil {
		return err
	}
	gen, err := content.NewGenerator(seq,
		content.WithOutputDir(c.String("out-dir")),
		content.WithImageDir(c.String("image-dir")),
		content.WithNoteStructure(c.String("note-structure")),
		content.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	out, err := gen.Generate(ctx, c.String("content-dir"))
	if err != nil {
		return err
	}
	if err := content.WriteArtifacts(c.App.Writer, out.Artifacts); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nSaved to %s\n", out.File)
	if out.Image != "" {
		fmt.Fprintf(c.App.Writer, "Image saved to %s\n", out.Image)
	}
	return nil
}

func starterCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	seq, err := newSequence(c, cfg, provider, chain.StarterRoles())
	if err != nil {
		return err
	}
	starter, err := content.NewStarter(seq)
	if err != nil {
		return err
	}

	artifacts, err := starter.Generate(ctx, c.String("subject"), c.String("customer"))
	if err != nil {
		return err
	}
	return content.WriteArtifacts(c.App.Writer, artifacts)
}
