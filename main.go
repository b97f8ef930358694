package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"slidesmith/agent"
	"slidesmith/config"
	"slidesmith/database"
	"slidesmith/logger"
)

func main() {
	// Optional .env next to the binary; real env wins.
	_ = godotenv.Load()

	cfgService := config.NewService(os.Getenv("SLIDESMITH_DATA_DIR"), nil)
	cfg, err := cfgService.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyEnvOverrides(&cfg)

	// The readiness check runs once here; core services assume a validated
	// config.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	dataDir, err := cfgService.StorageDir()
	if err != nil {
		log.Fatalf("failed to resolve data dir: %v", err)
	}
	appLogger, err := logger.New(filepath.Join(dataDir, "logs"), cfg.DetailedLog)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()
	sink := appLogger.Sink()

	// The bootstrap service above had no logger yet; rebuild it on the
	// resolved dir now that the sink exists.
	cfgService = config.NewService(dataDir, sink)

	db, err := database.Open(filepath.Join(dataDir, "decks.db"))
	if err != nil {
		log.Fatalf("failed to open deck database: %v", err)
	}
	defer db.Close()

	llm, err := agent.NewLLMService(cfg, sink)
	if err != nil {
		log.Fatalf("failed to create LLM service: %v", err)
	}

	hub := NewHub(sink)
	app := NewApp(cfg, llm, database.NewDeckService(db), hub, sink)

	// Config edits through the API take effect without a restart: rebuild
	// the model client and swap the app's services on every save.
	cfgService.OnChanged(func(newCfg config.Config) {
		applyEnvOverrides(&newCfg)
		reloaded, err := agent.NewLLMService(newCfg, sink)
		if err != nil {
			appLogger.Logf("config reload failed: %v", err)
			return
		}
		app.ApplyConfig(newCfg, reloaded)
		appLogger.Log("configuration reloaded")
	})

	server := NewServer(app, hub, cfgService, sink)

	appLogger.Logf("listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Router()); err != nil {
		log.Fatal(err)
	}
}

// applyEnvOverrides lets deployment env vars take precedence over the
// config file for credentials and endpoints.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("SLIDESMITH_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("SLIDESMITH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SLIDESMITH_MODEL"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("SLIDESMITH_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}
