package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Ali-Dakheel/calo-ai-app/internal/db"
	"github.com/Ali-Dakheel/calo-ai-app/internal/handlers"
	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
	"github.com/Ali-Dakheel/calo-ai-app/internal/routes"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
	"github.com/Ali-Dakheel/calo-ai-app/internal/workers"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func NewServer() *http.Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	llm := initializeLLM(logger)
	mealService := services.NewMealService(getMealDataPath(), logger)

	// Storage backends degrade independently: Redis loss falls back to
	// in-memory conversation state, ChromaDB loss disables semantic search.
	conversationRepo, preferenceRepo, feedbackRepo, kitchenRepo := initializeRedisRepositories(logger)
	vectorRepo := initializeVectorRepository(logger)

	var ragService *services.RAGService
	var retriever services.MealRetriever
	if vectorRepo != nil {
		ragService = services.NewRAGService(llm, vectorRepo, mealService, getCollectionName(), logger)
		retriever = ragService

		// Index building needs embeddings from the LLM, so it runs in the
		// background rather than blocking startup.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := ragService.Initialize(ctx); err != nil {
				logger.Printf("⚠️  Meal index initialization failed: %v", err)
			}
		}()
	} else {
		retriever = &noopRetriever{}
		logger.Println("⚠️  Semantic meal search disabled - ChromaDB not available")
	}

	routerService := services.NewRouterService(llm, logger)
	agentService := services.NewAgentService(llm, retriever, routerService, conversationRepo, preferenceRepo, kitchenRepo, logger)

	h := &routes.Handlers{
		Health:         handlers.HealthCheckHandler,
		Home:           handlers.HomeHandler,
		Chat:           handlers.NewChatHandler(agentService, conversationRepo, logger),
		Recommendation: handlers.NewRecommendationHandler(ragService, mealService, logger),
	}

	if feedbackRepo != nil {
		sentiment := services.NewKeywordSentimentClassifier()
		analytics := services.NewAnalyticsService(feedbackRepo, logger)
		h.Feedback = handlers.NewFeedbackHandler(feedbackRepo, sentiment, analytics, logger)

		go startWorkers(llm, feedbackRepo, logger)
	} else {
		logger.Println("⚠️  Feedback endpoints disabled - Redis not available")
	}

	if kitchenRepo != nil {
		h.Kitchen = handlers.NewKitchenHandler(kitchenRepo, logger)
	} else {
		logger.Println("⚠️  Kitchen endpoints disabled - Redis not available")
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Add Swagger endpoints
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    ":8080",
		Handler: corsMiddleware(router),
	}
}

// noopRetriever stands in when the vector store is down. Every search
// comes back empty, which the recommendation agent already treats as a
// clarifying-question case.
type noopRetriever struct{}

func (n *noopRetriever) ContextualSearch(ctx context.Context, query string, prefs models.UserPreferences, topK int) ([]*services.MealSearchResult, string, error) {
	return nil, "Meal search is temporarily unavailable", nil
}

// initializeLLM creates the Ollama client from environment config
func initializeLLM(logger *log.Logger) *services.OllamaService {
	config := services.DefaultOllamaConfig()

	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.Model = model
	}
	if timeoutStr := os.Getenv("OLLAMA_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}

	logger.Printf("Initializing Ollama client: %s (model: %s)", config.BaseURL, config.Model)
	return services.NewOllamaService(config, logger)
}

// initializeRedisRepositories builds the Redis-backed repositories,
// falling back to in-memory conversation and preference stores when
// Redis is unreachable. Feedback and kitchen repos have no in-memory
// fallback; they come back nil and their endpoints stay off.
func initializeRedisRepositories(logger *log.Logger) (repositories.ConversationRepository, repositories.PreferenceRepository, repositories.FeedbackRepository, repositories.KitchenRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisConfig := getRedisConfig()
	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", redisConfig.Host, redisConfig.Port, redisConfig.DB)

	redisClient, err := db.NewRedisClient(redisConfig)
	if err == nil {
		err = redisClient.Ping(ctx)
	}
	if err != nil {
		logger.Printf("❌ Redis connection failed: %v", err)
		logger.Println("   Falling back to in-memory conversation and preference stores")
		logger.Println("   Hint: Ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
		return repositories.NewMemoryConversationRepository(), repositories.NewMemoryPreferenceRepository(), nil, nil
	}
	logger.Println("✅ Redis connected successfully")

	client := redisClient.GetClient()
	return repositories.NewRedisConversationRepository(client),
		repositories.NewRedisPreferenceRepository(client),
		repositories.NewRedisFeedbackRepository(client),
		repositories.NewRedisKitchenRepository(client)
}

// initializeVectorRepository connects to ChromaDB, nil when unavailable
func initializeVectorRepository(logger *log.Logger) repositories.VectorRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromaConfig := getChromaConfig()
	logger.Printf("Connecting to ChromaDB: %s:%d", chromaConfig.Host, chromaConfig.Port)

	chromaClient := db.NewChromaDBClient(chromaConfig)
	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Printf("❌ ChromaDB connection failed: %v", err)
		logger.Println("   Hint: Ensure ChromaDB is running (docker run -d -p 8000:8000 chromadb/chroma)")
		return nil
	}
	logger.Println("✅ ChromaDB connected successfully")

	return repositories.NewChromaVectorRepository(chromaClient)
}

// getRedisConfig reads Redis configuration from environment variables
func getRedisConfig() db.RedisConfig {
	config := db.DefaultRedisConfig()

	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Host = host
	}
	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if dbNum, err := strconv.Atoi(dbStr); err == nil {
			config.DB = dbNum
		}
	}
	if poolSizeStr := os.Getenv("REDIS_POOL_SIZE"); poolSizeStr != "" {
		if poolSize, err := strconv.Atoi(poolSizeStr); err == nil {
			config.PoolSize = poolSize
		}
	}

	return config
}

// getChromaConfig reads ChromaDB configuration from environment variables
func getChromaConfig() db.ChromaDBConfig {
	config := db.ChromaDBConfig{
		Host:     "localhost",
		Port:     8000,
		Tenant:   "default_tenant",
		Database: "default_database",
		Timeout:  30 * time.Second,
	}

	if host := os.Getenv("CHROMA_HOST"); host != "" {
		config.Host = host
	}
	if portStr := os.Getenv("CHROMA_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}
	if tenant := os.Getenv("CHROMA_TENANT"); tenant != "" {
		config.Tenant = tenant
	}
	if database := os.Getenv("CHROMA_DATABASE"); database != "" {
		config.Database = database
	}

	return config
}

func getCollectionName() string {
	if name := os.Getenv("CHROMA_COLLECTION_NAME"); name != "" {
		return name
	}
	return "calo_meals"
}

func getMealDataPath() string {
	if path := os.Getenv("MEAL_DATA_PATH"); path != "" {
		return path
	}
	return "data/meals.json"
}

// startWorkers launches the background feedback analysis worker
func startWorkers(llm services.CompletionClient, feedbackRepo repositories.FeedbackRepository, logger *log.Logger) {
	ctx := context.Background()

	worker := workers.NewFeedbackAnalysisWorker(workers.FeedbackAnalysisWorkerConfig{
		WorkerConfig: workers.DefaultWorkerConfig("feedback-analysis-worker"),
		LLM:          llm,
		FeedbackRepo: feedbackRepo,
		Logger:       logger,
	})

	if err := worker.Start(ctx); err != nil {
		logger.Printf("⚠️  Failed to start feedback worker: %v", err)
	} else {
		logger.Println("✅ Feedback analysis worker started")
	}
}
