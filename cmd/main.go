package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_agent/internal/agent"
	"github.com/Vovarama1992/voice_agent/internal/ai"
	"github.com/Vovarama1992/voice_agent/internal/audiostore"
	"github.com/Vovarama1992/voice_agent/internal/delivery"
	"github.com/Vovarama1992/voice_agent/internal/history"
	"github.com/Vovarama1992/voice_agent/internal/notificator"
	"github.com/Vovarama1992/voice_agent/internal/ports"
	"github.com/Vovarama1992/voice_agent/internal/speech"
	"github.com/Vovarama1992/voice_agent/internal/stt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / LOGGING
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// HISTORY STORE
	// =========================================================================

	var store ports.HistoryStore
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}

		pg := history.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare history schema: %v", err)
		}
		store = pg
	} else {
		store = history.NewMemoryStore()
	}

	// =========================================================================
	// NOTIFICATIONS
	// =========================================================================

	var notifier ports.Notificator = notificator.Noop{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("invalid ADMIN_CHAT_ID: %v", err)
		}
		tn, err := notificator.NewTelegramNotifier(token, chatID)
		if err != nil {
			log.Fatalf("failed to init telegram notifier: %v", err)
		}
		notifier = tn
	}

	// =========================================================================
	// CLIENTS (STT / AI / TTS)
	// =========================================================================

	sttClient := stt.NewAssemblyAIClient()
	aiService := ai.NewService(ai.NewOpenAIClient(), os.Getenv("AI_PROMPT_MODE"))
	ttsClient := speech.NewMurfClient()

	// =========================================================================
	// CLIP STORAGE
	// =========================================================================

	clips := audiostore.NewLocalStore()

	var archive ports.ClipArchive
	if os.Getenv("S3_ENDPOINT") != "" {
		a, err := audiostore.NewS3Archive()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		archive = a
	}

	// =========================================================================
	// AGENT
	// =========================================================================

	agentService := agent.NewService(sttClient, aiService, ttsClient, store, notifier)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	agentHandler := delivery.NewAgentHandler(agentService, clips, archive, zl)
	delivery.RegisterRoutes(r, agentHandler)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	r.With(httputil.RecoverMiddleware).Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	})

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice-agent",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
