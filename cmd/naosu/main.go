// Package main is the naosu CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/cases"
	"github.com/oritsune/naosu/internal/config"
	"github.com/oritsune/naosu/internal/embedding"
	"github.com/oritsune/naosu/internal/engine"
	"github.com/oritsune/naosu/internal/ingest"
	"github.com/oritsune/naosu/internal/llm"
	"github.com/oritsune/naosu/internal/models"
	"github.com/oritsune/naosu/internal/server"
	"github.com/oritsune/naosu/internal/storage"
	"github.com/oritsune/naosu/internal/vector"
	"github.com/oritsune/naosu/internal/watcher"
	"github.com/oritsune/naosu/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/naosu/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used, so that "naosu server" from the project dir uses the
// project's config (including debug). Returns the config and the path that
// was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A .env next to the binary supplies GROQ_API_KEY and friends during
	// development; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "query":
		runQuery()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("naosu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if components.LLM == nil {
		logger.Warn("no API key found, responses will use fallback mode",
			zap.String("env", cfg.LLM.APIKeyEnv))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		ing := components.Ingestor
		watchSvc := watcher.New(
			cfg.Storage.DataDir,
			cfg.Ingest.Extensions,
			time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
			func(path string) {
				if err := ing.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				if err := components.removeBySourceFile(context.Background(), path, cfg.Storage.IndexPath); err != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(err))
				}
			},
			logger,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(components.Engine, components.Storage, components.VectorIndex, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if cfg.Storage.IndexPath != "" && components.VectorIndex.Size() > 0 {
		if err := components.VectorIndex.Save(cfg.Storage.IndexPath); err != nil {
			logger.Warn("vector index save failed", zap.String("path", cfg.Storage.IndexPath), zap.Error(err))
		}
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dataDir := fs.String("data", "", "directory of manuals to ingest (default: storage.data_dir from config)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	dir := *dataDir
	if dir == "" {
		dir = cfg.Storage.DataDir
	}
	ok, err := components.Ingestor.Ingest(context.Background(), dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Printf("No documents ingested from %s\n", dir)
		return
	}
	fmt.Printf("Ingested documents from %s (%d vectors)\n", dir, components.VectorIndex.Size())
}

// buildQueryText joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildQueryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	machineType := fs.String("machine-type", "", "machine type (required)")
	machineModel := fs.String("model", "", "machine model")
	faultType := fs.String("fault-type", "", "fault category for case history")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: naosu query --machine-type <type> [flags] <problem description>")
		os.Exit(1)
	}
	queryStr := buildQueryText(fs.Args())
	if queryStr == "" || *machineType == "" {
		fmt.Println("Usage: naosu query --machine-type <type> [flags] <problem description>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	req := &models.QueryRequest{
		Query: queryStr,
		MachineContext: models.MachineContext{
			MachineType: *machineType,
			Model:       *machineModel,
		},
		FaultType: *faultType,
	}
	resp := components.Engine.Query(context.Background(), req)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx := context.Background()
	docCount, err := components.Storage.CountDocuments(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
		os.Exit(1)
	}
	chunkCount, err := components.Storage.CountChunks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
		os.Exit(1)
	}
	caseCount, err := components.Storage.CountCases(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count cases failed: %v\n", err)
		os.Exit(1)
	}

	status := map[string]interface{}{
		"documents":         docCount,
		"chunks":            chunkCount,
		"cases":             caseCount,
		"vector_index_size": components.VectorIndex.Size(),
		"llm_configured":    components.LLM != nil,
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d   # count of ingested documents\n", docCount)
		fmt.Printf("chunks:             %d   # count of text chunks\n", chunkCount)
		fmt.Printf("cases:              %d   # count of recorded diagnostic cases\n", caseCount)
		fmt.Printf("vector_index_size:  %d   # count of vectors in semantic index\n", components.VectorIndex.Size())
		fmt.Printf("llm_configured:     %t\n", components.LLM != nil)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Embedder    embedding.Embedder
	VectorIndex vector.Index
	CaseIndex   *cases.Index
	LLM         llm.Client
	Engine      *engine.Engine
	Ingestor    *ingest.Ingestor
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.CaseIndex != nil {
		_ = c.CaseIndex.Close()
	}
}

// removeBySourceFile drops a deleted document's chunks from storage and the
// vector index, then saves the index.
func (c *Components) removeBySourceFile(ctx context.Context, path, indexPath string) error {
	doc, err := c.Storage.GetDocumentBySourceFile(ctx, filepath.Base(path))
	if err != nil {
		return nil // never ingested
	}
	ids, err := c.Storage.ChunkIDsByDocumentID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := c.VectorIndex.Remove(ctx, ids); err != nil {
			return err
		}
	}
	if err := c.Storage.DeleteDocument(ctx, doc.ID); err != nil {
		return err
	}
	return c.VectorIndex.Save(indexPath)
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder := embedding.NewEmbedder(&cfg.Embedding, logger)

	vectorIndex, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.IndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.IndexPath); loadErr != nil {
			logger.Warn("vector index load skipped (run ingest)",
				zap.String("path", cfg.Storage.IndexPath), zap.Error(loadErr))
		}
	}

	var caseIndex *cases.Index
	if cfg.Storage.CaseIndexPath != "" {
		caseIndex, err = cases.NewIndex(cfg.Storage.CaseIndexPath)
		if err != nil {
			logger.Warn("case index unavailable, related-case enrichment disabled", zap.Error(err))
			caseIndex = nil
		}
	}

	var llmClient llm.Client
	if groq := llm.FromEnv(&cfg.LLM); groq != nil {
		llmClient = groq
	}

	eng := engine.New(vectorIndex, store, embedder, llmClient, caseIndex, &cfg.Retrieval, logger)
	ing := ingest.NewIngestor(store, embedder, vectorIndex, &cfg.Ingest, cfg.Storage.IndexPath, logger)

	return &Components{
		Storage:     store,
		Embedder:    embedder,
		VectorIndex: vectorIndex,
		CaseIndex:   caseIndex,
		LLM:         llmClient,
		Engine:      eng,
		Ingestor:    ing,
	}, nil
}

func printUsage() {
	fmt.Println(`naosu - Maintenance diagnostics assistant

Usage:
  naosu server [flags]                          Start the HTTP server
  naosu ingest [flags]                          Ingest manuals into the index
  naosu query --machine-type <type> <problem>   Run a diagnostic query
  naosu status [flags]                          Show storage/index status
  naosu version                                 Show version
  naosu help                                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/naosu/config.yaml)
  --debug            Enable debug logging

Ingest Flags:
  --config string    Config file path
  --data string      Directory of manuals (default: storage.data_dir from config)

Query Flags:
  --config string        Config file path
  --machine-type string  Machine type (required)
  --model string         Machine model
  --fault-type string    Fault category recorded with the case

Status Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Examples:
  naosu ingest --data ./data
  naosu server
  naosu query --machine-type "CNC Milling Machine" spindle vibration at high RPM
  naosu status --output json`)
}
