package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/insure-assist/insure-assist/internal/ai"
	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/config"
	"github.com/insure-assist/insure-assist/internal/db"
	"github.com/insure-assist/insure-assist/internal/httpapi"
	"github.com/insure-assist/insure-assist/internal/rag"
	"github.com/insure-assist/insure-assist/internal/store/rabbitmq"
	"github.com/insure-assist/insure-assist/internal/store/redisstore"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	if err := db.SeedFromCSV(gdb, cfg.DataDir); err != nil {
		log.Fatalf("seed: %v", err)
	}
	if err := catalog.NewRepo(gdb).EnsureDefaults(ctx); err != nil {
		log.Fatalf("catalog seed: %v", err)
	}

	// Retrieval engine: vector path via Ollama embeddings, persisted index
	// in the service DB, lexical fallback when either is unavailable.
	retriever := rag.NewEngine(
		rag.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbedModel),
		rag.NewGormIndexStore(gdb),
	)
	if restored := retriever.LoadPersisted(ctx); restored > 0 {
		log.Printf("rag: restored %d documents from persisted index", restored)
	} else if documents, err := rag.LoadCSVDocuments(filepath.Join(cfg.DataDir, "faq.csv")); err != nil {
		log.Printf("rag: loading FAQ failed, starting with empty corpus: %v", err)
	} else if len(documents) > 0 {
		if err := retriever.Build(ctx, documents); err != nil {
			log.Printf("rag: initial build failed: %v", err)
		} else {
			log.Printf("rag: indexed %d FAQ documents", len(documents))
		}
	}

	llm := ai.NewChain(
		ai.NewGroqProvider(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel),
		ai.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel),
	)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	var events *rabbitmq.Publisher
	if publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbitmq: unavailable, purchase events disabled: %v", err)
	} else {
		events = publisher
		defer events.Close()
	}

	router := httpapi.NewRouter(gdb, cfg, rds, events, retriever, llm)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("api: listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("api: %v", err)
	}
}
