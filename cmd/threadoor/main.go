// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/threadoor"
	"github.com/poiesic/threadoor/ai"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv reads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is fine.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "threadoor",
		Usage: "Turn markdown notes into social threads and ask questions of your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load, split and embed source documents into the vector store",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:    "source-dir",
						Usage:   "Directory holding the documents to ingest",
						Value:   "source_documents",
						EnvVars: []string{"SOURCE_DIRECTORY"},
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Usage:   "Maximum chunk length in characters",
						Value:   500,
						EnvVars: []string{"CHUNK_SIZE"},
					},
					&cli.IntFlag{
						Name:    "chunk-overlap",
						Usage:   "Characters shared by neighbouring chunks",
						Value:   50,
						EnvVars: []string{"CHUNK_OVERLAP"},
					},
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "Measure chunks in cl100k_base tokens instead of characters",
					},
					&cli.StringSliceFlag{
						Name:  "ext",
						Usage: "Only ingest files with these extensions (repeatable)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks per embedding request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding requests (0 uses the CPU count)",
					},
				),
			},
			{
				Name:   "ask",
				Usage:  "Ask questions answered from the ingested documents",
				Action: askCommand,
				Flags: append(append(storeFlags(), modelFlags(threadTemperature, threadMaxTokens)...),
					&cli.IntFlag{
						Name:    "k",
						Usage:   "Number of chunks retrieved per question",
						Value:   4,
						EnvVars: []string{"TARGET_SOURCE_CHUNKS"},
					},
					&cli.BoolFlag{
						Name:    "hide-source",
						Aliases: []string{"S"},
						Usage:   "Do not print the source documents used for answers",
					},
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "Use a line-oriented prompt instead of the terminal UI",
					},
					&cli.Int64Flag{
						Name:  "cache-size",
						Usage: "Maximum number of cached answers",
						Value: 1000,
					},
				),
			},
			{
				Name:   "thread",
				Usage:  "Write a thread, hook and image from the markdown note in a folder",
				Action: threadCommand,
				Flags: append(modelFlags(threadTemperature, threadMaxTokens),
					&cli.StringFlag{
						Name:    "content-dir",
						Usage:   "Folder holding exactly one markdown note",
						Value:   ".",
						EnvVars: []string{"CONTENT_FOLDER"},
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory for generated artifact files",
						Value:   "threads",
						EnvVars: []string{"THREADS_DIRECTORY"},
					},
					&cli.StringFlag{
						Name:    "image-dir",
						Usage:   "Directory for downloaded images",
						Value:   "images",
						EnvVars: []string{"IMAGES_DIRECTORY"},
					},
					&cli.StringFlag{
						Name:  "note-structure",
						Usage: "What the thread should copy from the note",
						Value: "tone, voice, vocabulary and sentence structure",
					},
					&cli.BoolFlag{
						Name:  "headlines",
						Usage: "Write three headlines instead of a single hook",
					},
					&cli.PathFlag{
						Name:  "roles",
						Usage: "YAML file overriding the built-in roles",
					},
				),
			},
			{
				Name:   "starter",
				Usage:  "Write a thread starter and a Midjourney prompt for a subject",
				Action: starterCommand,
				Flags: append(modelFlags(starterTemperature, starterMaxTokens),
					&cli.StringFlag{
						Name:     "subject",
						Usage:    "What the thread is about",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "customer",
						Usage:    "Who the thread is written for",
						Required: true,
					},
					&cli.PathFlag{
						Name:  "roles",
						Usage: "YAML file overriding the built-in roles",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Print the chunks closest to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:    "k",
						Usage:   "Number of chunks to print",
						Value:   4,
						EnvVars: []string{"TARGET_SOURCE_CHUNKS"},
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Summarize what the vector store holds",
				Action: statusCommand,
				Flags: append(storeFlags(),
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "List every ingested source path",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute the embedding of every stored chunk",
				Action: reembedCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks per embedding request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding requests (0 uses the CPU count)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per embedding request",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: defaultRetryDelay,
					},
				),
			},
		},
	}
}

// storeFlags configure the vector store and its embedder.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "persist-dir",
			Aliases: []string{"d"},
			Usage:   "Path to the vector store directory",
			Value:   "db",
			EnvVars: []string{"PERSIST_DIRECTORY"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EMBEDDINGS_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"EMBEDDINGS_MODEL_NAME"},
		},
	}
}

// Sampling defaults of the thread and starter flows. ask shares the thread values.
const (
	threadTemperature  = 0.65
	threadMaxTokens    = 500
	starterTemperature = 0.7
	starterMaxTokens   = 250
)

// modelFlags configure the completion and image models.
func modelFlags(temperature float64, maxTokens int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "model-type",
			Usage:   "Completion backend (openai, ollama, anthropic, replicate)",
			Value:   string(ai.ModelTypeOpenAI),
			EnvVars: []string{"MODEL_TYPE"},
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Completion model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"MODEL_PATH"},
		},
		&cli.StringFlag{
			Name:    "model-host",
			Usage:   "Completion service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"MODEL_HOST"},
		},
		&cli.StringFlag{
			Name:    "image-model",
			Usage:   "Replicate model version used for images",
			Value:   ai.DefaultImageModel,
			EnvVars: []string{"IMAGE_MODEL"},
		},
		&cli.StringFlag{
			Name:    "openai-token",
			Usage:   "API token for OpenAI or Anthropic",
			EnvVars: []string{"openAi", "OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "replicate-token",
			Usage:   "API token for Replicate",
			EnvVars: []string{"replicate", "REPLICATE_API_TOKEN"},
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Sampling temperature",
			Value: temperature,
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Maximum tokens per completion",
			Value: maxTokens,
		},
	}
}

// aiConfig builds the provider configuration from whichever flags the
// command defines. Flags a command lacks keep their defaults.
func aiConfig(c *cli.Context) (*ai.Config, error) {
	var opts []ai.ConfigOption
	if v := c.String("embedding-host"); v != "" {
		opts = append(opts, ai.WithEmbeddingHost(v))
	}
	if v := c.String("embedding-model"); v != "" {
		opts = append(opts, ai.WithEmbeddingModel(v))
	}
	if v := c.String("model-type"); v != "" {
		opts = append(opts,
			ai.WithModelType(ai.ModelType(v)),
			ai.WithModel(c.String("model")),
			ai.WithModelHost(c.String("model-host")),
			ai.WithImageModel(c.String("image-model")),
			ai.WithAPIToken(c.String("openai-token")),
			ai.WithReplicateToken(c.String("replicate-token")),
			ai.WithTemperature(c.Float64("temperature")),
			ai.WithMaxTokens(c.Int("max-tokens")),
		)
	}
	cfg := ai.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(c *cli.Context, cfg *ai.Config) (*threadoor.Database, error) {
	path := c.String("persist-dir")
	if path == "" {
		return nil, errors.New("persist-dir is required")
	}
	db, err := threadoor.NewDatabase(path,
		threadoor.WithAIConfig(cfg),
		threadoor.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
