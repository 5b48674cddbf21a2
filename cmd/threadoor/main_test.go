package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/reembed"
	"github.com/poiesic/threadoor/search"
	"github.com/poiesic/threadoor/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag(t *testing.T, cmd *cli.Command, name string) cli.Flag {
	t.Helper()
	for _, flag := range cmd.Flags {
		if flag.Names()[0] == name {
			return flag
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	return nil
}

func TestFlagsBindEnvironment(t *testing.T) {
	app := newApp()

	tests := []struct {
		command string
		flag    string
		env     string
	}{
		{"ingest", "persist-dir", "PERSIST_DIRECTORY"},
		{"ingest", "source-dir", "SOURCE_DIRECTORY"},
		{"ingest", "chunk-size", "CHUNK_SIZE"},
		{"ingest", "chunk-overlap", "CHUNK_OVERLAP"},
		{"ingest", "embedding-model", "EMBEDDINGS_MODEL_NAME"},
		{"ingest", "embedding-host", "EMBEDDINGS_HOST"},
		{"ask", "model-type", "MODEL_TYPE"},
		{"ask", "model", "MODEL_PATH"},
		{"ask", "model-host", "MODEL_HOST"},
		{"ask", "k", "TARGET_SOURCE_CHUNKS"},
		{"thread", "content-dir", "CONTENT_FOLDER"},
		{"thread", "openai-token", "openAi"},
		{"thread", "replicate-token", "replicate"},
		{"thread", "out-dir", "THREADS_DIRECTORY"},
		{"thread", "image-dir", "IMAGES_DIRECTORY"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			flag := findFlag(t, findCommand(t, app, tt.command), tt.flag)
			envFlag, ok := flag.(interface{ GetEnvVars() []string })
			require.True(t, ok)
			assert.Contains(t, envFlag.GetEnvVars(), tt.env)
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	app := newApp()
	ingest := findCommand(t, app, "ingest")

	assert.Equal(t, "db", findFlag(t, ingest, "persist-dir").(*cli.StringFlag).Value)
	assert.Equal(t, "source_documents", findFlag(t, ingest, "source-dir").(*cli.StringFlag).Value)
	assert.Equal(t, 500, findFlag(t, ingest, "chunk-size").(*cli.IntFlag).Value)
	assert.Equal(t, 50, findFlag(t, ingest, "chunk-overlap").(*cli.IntFlag).Value)

	thread := findCommand(t, app, "thread")
	assert.Equal(t, ".", findFlag(t, thread, "content-dir").(*cli.StringFlag).Value)
	assert.Equal(t, "threads", findFlag(t, thread, "out-dir").(*cli.StringFlag).Value)
	assert.Equal(t, "images", findFlag(t, thread, "image-dir").(*cli.StringFlag).Value)
	assert.Equal(t, 0.65, findFlag(t, thread, "temperature").(*cli.Float64Flag).Value)
	assert.Equal(t, 500, findFlag(t, thread, "max-tokens").(*cli.IntFlag).Value)

	starter := findCommand(t, app, "starter")
	assert.Equal(t, 0.7, findFlag(t, starter, "temperature").(*cli.Float64Flag).Value)
	assert.Equal(t, 250, findFlag(t, starter, "max-tokens").(*cli.IntFlag).Value)
}

func TestSetupLogger(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run([]string{"threadoor", "--log-level", "verbose", "search", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRequiredInputs(t *testing.T) {
	t.Run("starter needs subject and customer", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.ErrWriter = &bytes.Buffer{}

		err := app.Run([]string{"threadoor", "starter", "--customer", "founders"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "subject")
	})

	t.Run("search needs a query", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"threadoor", "search", "--persist-dir", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search query is required")
	})

	t.Run("ingest rejects overlap larger than chunk size", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"threadoor", "ingest", "--chunk-size", "100", "--chunk-overlap", "200"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ingestion config")
	})

	t.Run("reembed rejects zero batch size", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"threadoor", "reembed", "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size must be greater than 0")
	})

	t.Run("reembed rejects negative workers", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"threadoor", "reembed", "--workers", "-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers must not be negative")
	})
}

func TestAIConfig(t *testing.T) {
	run := func(t *testing.T, args ...string) (*ai.Config, error) {
		t.Helper()
		var cfg *ai.Config
		var cfgErr error
		app := &cli.App{
			Name: "threadoor",
			Commands: []*cli.Command{{
				Name:  "probe",
				Flags: append(storeFlags(), modelFlags(threadTemperature, threadMaxTokens)...),
				Action: func(c *cli.Context) error {
					cfg, cfgErr = aiConfig(c)
					return nil
				},
			}},
		}
		require.NoError(t, app.Run(append([]string{"threadoor", "probe"}, args...)))
		return cfg, cfgErr
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := run(t)
		require.NoError(t, err)
		assert.Equal(t, ai.ModelTypeOpenAI, cfg.ModelType)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ModelHost)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
		assert.Equal(t, 0.65, cfg.Temperature)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("MODEL_TYPE", "ollama")
		t.Setenv("MODEL_HOST", "http://gpu:11434/v1")
		t.Setenv("EMBEDDINGS_HOST", "http://gpu:11434")

		cfg, err := run(t)
		require.NoError(t, err)
		assert.Equal(t, ai.ModelTypeOllama, cfg.ModelType)
		assert.Equal(t, "http://gpu:11434", cfg.ModelHost)
		assert.Equal(t, "http://gpu:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("unknown model type", func(t *testing.T) {
		_, err := run(t, "--model-type", "gpt4all")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown ModelType")
	})

	t.Run("anthropic needs a token", func(t *testing.T) {
		_, err := run(t, "--model-type", "anthropic")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APIToken")
	})
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("THREADOOR_TEST_CHUNK=321\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("THREADOOR_TEST_CHUNK") })

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "321", os.Getenv("THREADOOR_TEST_CHUNK"))
}

type fakeAsker struct {
	queries []string
}

func (f *fakeAsker) Ask(_ context.Context, query string) (*search.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, search.ErrEmptyQuery
	}
	f.queries = append(f.queries, query)
	return &search.Answer{
		Question: query,
		Text:     "Lead with the hook.",
		Sources: []schema.Document{{
			PageContent: "Every thread opens with a hook.",
			Metadata:    map[string]any{"source": "notes/hooks.md"},
		}},
	}, nil
}

func TestAskLoop(t *testing.T) {
	t.Run("answers until exit", func(t *testing.T) {
		qa := &fakeAsker{}
		in := strings.NewReader("\nhow do threads start\nexit\nnever asked\n")
		var out bytes.Buffer

		require.NoError(t, askLoop(context.Background(), qa, in, &out, false))

		assert.Equal(t, []string{"how do threads start"}, qa.queries)
		text := out.String()
		assert.Contains(t, text, "Enter a query: ")
		assert.Contains(t, text, "error: query empty!")
		assert.Contains(t, text, "> Question:\nhow do threads start\n")
		assert.Contains(t, text, "> Answer:\nLead with the hook.\n")
		assert.Contains(t, text, "> notes/hooks.md:\nEvery thread opens with a hook.\n")
	})

	t.Run("hide source", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, askLoop(context.Background(), &fakeAsker{}, strings.NewReader("hooks\n"), &out, true))
		assert.Contains(t, out.String(), "> Answer:")
		assert.NotContains(t, out.String(), "notes/hooks.md")
	})
}

func TestAskModel(t *testing.T) {
	ctx := context.Background()

	t.Run("exit quits", func(t *testing.T) {
		m := newAskModel(ctx, &fakeAsker{}, false)
		m.input.SetValue("exit")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("query runs and answer is printed", func(t *testing.T) {
		qa := &fakeAsker{}
		m := newAskModel(ctx, qa, false)
		m.input.SetValue("how do threads start")

		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		busy := next.(askModel)
		assert.True(t, busy.busy)
		assert.Empty(t, busy.input.Value())
		assert.Contains(t, busy.View(), "how do threads start")

		msg := busy.ask("how do threads start")()
		done, _ := busy.Update(msg)
		assert.False(t, done.(askModel).busy)
		assert.Equal(t, []string{"how do threads start"}, qa.queries)
	})

	t.Run("errors end the session", func(t *testing.T) {
		m := newAskModel(ctx, &fakeAsker{}, false)
		m.busy = true

		next, cmd := m.Update(answerMsg{err: assert.AnError})
		require.NotNil(t, cmd)
		assert.ErrorIs(t, next.(askModel).err, assert.AnError)
	})
}

func TestRenderAnswer(t *testing.T) {
	answer := &search.Answer{
		Question: "q",
		Text:     "a",
		Sources: []schema.Document{{
			PageContent: "chunk text",
			Metadata:    map[string]any{"source": "doc.txt"},
		}},
	}
	assert.Contains(t, renderAnswer(answer, false), "doc.txt")
	assert.NotContains(t, renderAnswer(answer, true), "doc.txt")
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"threadoor", "status", "--persist-dir", dir, "--sources"}))
	assert.Contains(t, out.String(), "Documents: 0\n")
	assert.Contains(t, out.String(), "Chunks: 0\n")
}

func TestStatusCommand_UnfinishedReembed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := badger.OpenBackend(dir, false)
	require.NoError(t, err)
	docs, err := badger.NewDocumentRepository(backend).AddDocuments(ctx, &core.Document{Source: "notes/a.md", ChunkCount: 3})
	require.NoError(t, err)
	require.NoError(t, badger.NewCheckpointRepository(backend).SaveCheckpoint(ctx,
		&core.Checkpoint{ProcessorType: reembed.CheckpointType, LastId: docs[0].Id}))
	require.NoError(t, backend.Close())

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"threadoor", "status", "--persist-dir", dir}))
	assert.Contains(t, out.String(), "Documents: 1\n")
	assert.Contains(t, out.String(), "Unfinished reembed run: resumes after notes/a.md")
}
