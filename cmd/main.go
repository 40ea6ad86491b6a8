package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/whisper_relay/internal/conversations"
	"github.com/Vovarama1992/whisper_relay/internal/delivery"
	"github.com/Vovarama1992/whisper_relay/internal/domain"
	"github.com/Vovarama1992/whisper_relay/internal/error_notificator"
	"github.com/Vovarama1992/whisper_relay/internal/infra"
	"github.com/Vovarama1992/whisper_relay/internal/ports"
	"github.com/Vovarama1992/whisper_relay/internal/speech"
	"github.com/Vovarama1992/whisper_relay/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	s3Client, err := infra.NewS3Client()
	if err != nil {
		log.Fatalf("failed to init s3: %v", err)
	}

	// =========================================================================
	// REPOSITORIES
	// =========================================================================

	conversationRepo := infra.NewConversationRepo(db)
	userInfra := user.NewInfra(db)
	var authRepo ports.AuthRepo = infra.NewAuthRepo(db)

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra()
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// CLIENTS (STT / TRANSLATION / TTS)
	// =========================================================================

	whisperClient := speech.NewWhisperClient()
	translator := speech.NewAzureTranslator()
	ttsPipeline := speech.NewTTSPipeline(
		speech.NewAzureTTSClient(),   // primary
		speech.NewElevenLabsClient(), // alternate channel
	)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	s3Service := domain.NewS3Service(s3Client, errService)
	authService := domain.NewAuthService(authRepo, os.Getenv("AUTH_SECRET"))
	userService := user.NewService(userInfra)

	conversationService := conversations.NewService(
		conversationRepo,
		whisperClient,
		translator,
		ttsPipeline,
		s3Service,
		errService,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	apiHandler := delivery.NewApiHandler(conversationService, zl)
	adminHandler := delivery.NewAdminHandler(userService)
	authHandler := delivery.NewAuthHandler(authService)

	// ROUTES
	delivery.RegisterRoutes(
		r,
		apiHandler,
		adminHandler,
		authHandler,
		authService,
	)

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
		Service: "whisper_relay",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
