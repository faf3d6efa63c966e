// Command crescentbot is the Crescent University question-answering
// assistant. It wires the configured backends to the answer pipeline
// and hands control to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crescentlabs/crescentbot/internal/adapters/driven/ai"
	"github.com/crescentlabs/crescentbot/internal/adapters/driven/config/file"
	"github.com/crescentlabs/crescentbot/internal/adapters/driven/storage/sqlite"
	"github.com/crescentlabs/crescentbot/internal/adapters/driven/vector/flat"
	"github.com/crescentlabs/crescentbot/internal/adapters/driving/cli"
	"github.com/crescentlabs/crescentbot/internal/core/services"
	"github.com/crescentlabs/crescentbot/internal/knowledge"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "crescentbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.Load(configPath())
	if err != nil {
		return err
	}

	embedder, err := ai.CreateEmbeddingService(backendSettings(cfg.Embedding))
	if err != nil {
		return err
	}
	defer embedder.Close()

	llm, err := ai.CreateLLMService(backendSettings(cfg.LLM))
	if err != nil {
		return err
	}
	defer llm.Close()

	index := flat.New(embedder)
	defer index.Close()

	memory, err := sqlite.NewStore(cfg.MemoryDir)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	defer memory.Close()

	prompts, err := file.NewPromptStore(cfg.PromptDir)
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	loader, err := knowledge.NewLoader(knowledge.Config{
		QAMaxTokens:  cfg.Chunking.QAMaxTokens,
		DocMaxTokens: cfg.Chunking.MaxTokens,
		Overlap:      cfg.Chunking.Overlap,
	})
	if err != nil {
		return fmt.Errorf("configuring loader: %w", err)
	}

	retriever := services.NewRetrieverService(index, services.RetrieverConfig{
		TopK:            cfg.Retrieval.TopK,
		MaxPassages:     cfg.Retrieval.MaxPassages,
		SimilarityFloor: cfg.Retrieval.SimilarityFloor,
	})

	generator := services.NewGeneratorService(llm)
	generator.SetPromptStore(prompts)

	pipeline := services.NewAnswerPipeline(retriever, generator, memory, services.PipelineConfig{
		AcceptThreshold: cfg.Retrieval.AcceptThreshold,
		MemoryWindow:    cfg.Retrieval.MemoryWindow,
		EnrichFacets:    cfg.Enrichment.Facets,
		EnrichMemory:    cfg.Enrichment.Memory,
	})

	manager := services.NewIndexManagerService(loader, index, cfg.DataDir, cfg.IndexDir)

	if cfg.Watch.Enabled {
		stop, err := watchKnowledge(cfg.DataDir, manager)
		if err != nil {
			logger.Warn("Knowledge watcher unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	cli.SetServices(pipeline, manager)
	cli.SetBackends(embedder, llm)
	return cli.Execute()
}

// configPath resolves the config file location. The CRESCENTBOT_CONFIG
// environment variable overrides the default under the home directory.
func configPath() string {
	if path := os.Getenv("CRESCENTBOT_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".crescentbot", "config.toml")
}

// backendSettings maps a config backend section onto factory settings.
func backendSettings(cfg file.BackendConfig) ai.Settings {
	return ai.Settings{
		Backend: cfg.Backend,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// watchKnowledge flags the index stale whenever a knowledge source
// changes, so the next EnsureIndex rebuilds it.
func watchKnowledge(dataDir string, manager *services.IndexManagerService) (func(), error) {
	watcher, err := knowledge.NewWatcher(dataDir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := watcher.Watch(ctx)
	go func() {
		for path := range changes {
			logger.Info("Knowledge source changed: %s", path)
			manager.MarkStale()
		}
	}()

	return func() {
		cancel()
		watcher.Close()
	}, nil
}
