package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/embed"
	"github.com/jdfortress/benchrag/internal/llm"
	"github.com/jdfortress/benchrag/internal/logger"
	"github.com/jdfortress/benchrag/internal/pipeline"
	"github.com/jdfortress/benchrag/internal/prompt"
	"github.com/jdfortress/benchrag/internal/rag"
	"github.com/jdfortress/benchrag/internal/timing"
)

// Config represents the application configuration.
type Config struct {
	OpenAIAPIKey    string
	EmbeddingModel  string
	GenerationModel string
	RerankerModel   string
	RerankerURL     string
	RerankerAPIKey  string
	MilvusAddr      string
	Collection      string
	VectorDim       int
	TopK            int
	Threshold       float64
	TemplateFile    string
}

// Exchange is one turn of the conversation. History is owned here, by
// the caller; the pipeline never touches it.
type Exchange struct {
	User string
	Bot  string
}

// loadConfig loads configuration from environment variables.
func loadConfig() *Config {
	return &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:  getEnvWithDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		GenerationModel: getEnvWithDefault("INFERENCE_MODEL", "gpt-4o-mini"),
		RerankerModel:   getEnvWithDefault("RERANKER_MODEL", "rerank-v3.5"),
		RerankerURL:     os.Getenv("RERANKER_URL"),
		RerankerAPIKey:  os.Getenv("RERANKER_API_KEY"),
		MilvusAddr:      getEnvWithDefault("MILVUS_ADDR", "localhost:19530"),
		Collection:      getEnvWithDefault("VECTOR_COLLECTION", rag.DefaultCollection),
		VectorDim:       getEnvIntWithDefault("VECTOR_DIMENSION", core.DefaultEmbeddingDim),
		TopK:            getEnvIntWithDefault("TOP_K", 3),
		Threshold:       getEnvFloatWithDefault("SIMILARITY_THRESHOLD", 0.32),
		TemplateFile:    getEnvWithDefault("PROMPT_TEMPLATE", "prompts/rag_prompt.md"),
	}
}

// getEnvWithDefault gets an environment variable or returns a default value.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.Warn("Ignoring invalid integer for %s: %q", key, v)
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("Ignoring invalid float for %s: %q", key, v)
	}
	return defaultValue
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	mock := flag.Bool("mock", false, "Use the in-process mock vector store")
	topK := flag.Int("top", 0, "Override top K chunks (1-10)")
	threshold := flag.Float64("threshold", -1, "Override similarity threshold (0.0-1.0)")
	flag.Parse()

	logger.Init(*debug)

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found")
	}

	config := loadConfig()
	if *topK > 0 {
		config.TopK = *topK
	}
	if *threshold >= 0 {
		config.Threshold = *threshold
	}

	if config.OpenAIAPIKey == "" {
		logger.Error("OPENAI_API_KEY environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	logger.Info("Initializing services...")

	embedder := embed.NewOpenAIEmbedder(config.OpenAIAPIKey, config.EmbeddingModel, config.VectorDim)
	generator := llm.NewOpenAIGenerator(config.OpenAIAPIKey, config.GenerationModel)

	var store core.VectorStore
	if *mock {
		logger.Info("Using mock vector store")
		store = rag.NewMockStore()
	} else {
		milvus, err := rag.NewMilvusStore(ctx, config.MilvusAddr, config.Collection, config.VectorDim)
		if err != nil {
			logger.Error("Failed to initialize Milvus store: %v", err)
			os.Exit(1)
		}
		defer milvus.Close(ctx)
		if err := milvus.EnsureCollection(ctx); err != nil {
			logger.Error("Failed to ensure collection: %v", err)
			os.Exit(1)
		}
		store = milvus
	}

	var reranker core.Reranker
	if config.RerankerURL != "" {
		reranker = rag.NewHTTPReranker(config.RerankerURL, config.RerankerAPIKey, config.RerankerModel)
		logger.Info("Reranking enabled with model %s", config.RerankerModel)
	}

	retriever := rag.NewRetriever(store, reranker)

	augmenter, err := prompt.NewAugmenter(config.TemplateFile)
	if err != nil {
		logger.Error("Failed to load prompt template: %v", err)
		os.Exit(1)
	}

	processor, err := pipeline.NewQueryProcessor(embedder, retriever, augmenter, generator, pipeline.ProcessorConfig{
		Retrieval: core.RetrievalConfig{
			TopK:                config.TopK,
			SimilarityThreshold: config.Threshold,
		},
	})
	if err != nil {
		logger.Error("Invalid retrieval settings: %v", err)
		os.Exit(1)
	}

	logger.Info("LLM initialized: %s", generator.Model())
	fmt.Printf("Security benchmark Q&A (top_k=%d, threshold=%.2f). Ask a question, or 'exit' to quit.\n",
		config.TopK, config.Threshold)

	var history []Exchange
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		pt := timing.NewProcessTimer()
		processor.WithTimer(pt)

		pt.Mark("RAG Processing Query")
		answer, err := processor.ProcessQuery(ctx, question)
		pt.Mark("RAG Processing Query")
		if err != nil {
			logger.Error("Query failed: %v", err)
			continue
		}

		fmt.Printf("\n%s\n\n(answered by %s)\n\n", answer.Text, answer.Model)
		history = append(history, Exchange{User: question, Bot: answer.Text})
	}

	logger.Info("Session finished after %d exchanges", len(history))
}
