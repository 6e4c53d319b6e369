package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/auth"
	"github.com/getfitted/fitted/pkg/embeddings"
	"github.com/getfitted/fitted/pkg/llms"
	"github.com/getfitted/fitted/pkg/models"
	"github.com/getfitted/fitted/pkg/server"
	"github.com/getfitted/fitted/pkg/store/postgres"
)

const (
	ErrStoreTypeNotSet   = "store.type must be set"
	ErrPostgresDSNNotSet = "store.postgres.dsn must be set"
	StoreTypePostgres    = "postgres"
)

// run is the entrypoint for the fitted server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring fitted: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting fitted server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV,
// initializes the wardrobe store, and creates the OpenAI clients.
func NewAppState(cfg *config.Config) *models.AppState {
	ctx := context.Background()

	llmClient, err := llms.NewLLMClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	embeddingsClient, err := llms.NewEmbeddingsClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	tokenCounter, err := llms.NewTokenCounter()
	if err != nil {
		log.Fatal(err)
	}

	cache, err := embeddings.NewCache(
		time.Duration(cfg.Retrieval.CacheTTLSeconds)*time.Second,
		cfg.Retrieval.CacheMaxEntries,
	)
	if err != nil {
		log.Fatal(err)
	}
	embedder := embeddings.NewGenerator(embeddingsClient, tokenCounter, cache)

	appState := &models.AppState{
		LLMClient:        llmClient,
		EmbeddingsClient: embeddingsClient,
		Embedder:         embedder,
		Config:           cfg,
	}

	initializeStores(appState, embedder)
	setupSignalHandler()

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Println(string(out))
		os.Exit(0)
	}
	if generateToken {
		fmt.Println(auth.GenerateJWT(cfg, tokenUserID))
		os.Exit(0)
	}
}

// initializeStores initializes the wardrobe, prompt, and embedding stores
// based on the config file / ENV.
func initializeStores(appState *models.AppState, embedder *embeddings.Generator) {
	if appState.Config.Store.Type == "" {
		log.Fatal(ErrStoreTypeNotSet)
	}

	switch appState.Config.Store.Type {
	case StoreTypePostgres:
		if appState.Config.Store.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(appState.Config)
		if err != nil {
			log.Fatal(err)
		}
		if err := postgres.CreateSchema(context.Background(), appState.Config, db); err != nil {
			log.Fatal(err)
		}

		itemStore := postgres.NewItemStoreDAO(db)
		embeddingStore := postgres.NewEmbeddingStoreDAO(db)
		itemStore.SetEmbeddingStore(embeddingStore)
		embedder.UseEmbeddingStore(embeddingStore)

		appState.ItemStore = itemStore
		appState.PromptStore = postgres.NewPromptStoreDAO(db)
	default:
		log.Fatal(
			fmt.Sprintf("store.type (%s) is not supported", appState.Config.Store.Type),
		)
	}

	log.Info("Using store: ", appState.Config.Store.Type)
}

// setupSignalHandler sets up a signal handler to shut down on termination
func setupSignalHandler() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		os.Exit(0)
	}()
}
