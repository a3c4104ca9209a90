package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/orbwatch/Internal/database"
	newsscraping "github.com/fazecat/orbwatch/Internal/news_scraping"
	"github.com/fazecat/orbwatch/Internal/scanner"
	"github.com/fazecat/orbwatch/Internal/utils/config"
	"github.com/fazecat/orbwatch/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	dbEnabled := false
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, history endpoints disabled: %v", err)
	} else {
		dbEnabled = true
		defer datafeed.CloseDatabase()
	}

	if err := datafeed.InitAlpacaClient(); err != nil {
		log.Printf("Warning: Alpaca client initialization failed: %v", err)
	}

	jwtManager := internal.NewJWTManager()

	apiServer := &internal.API{
		Scanner:    scanner.NewScanner(cfg),
		Config:     cfg,
		RSSClient:  newsscraping.NewRSSClient(),
		JWTManager: jwtManager,
		DBEnabled:  dbEnabled,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		internal.WriteJSON(w, http.StatusOK, "healthy")
	})

	// Public routes
	r.Post("/api/token", apiServer.HandleGenerateToken)

	// Scanner
	r.Get("/api/scan", apiServer.HandleScan)
	r.Get("/api/setups/{symbol}", apiServer.HandleGetSetup)
	r.Get("/api/symbols", apiServer.HandleGetSymbols)

	// News
	r.Get("/api/news", apiServer.HandleGetNews)

	// Persisted history requires auth
	r.Group(func(r chi.Router) {
		r.Use(internal.JWTAuthMiddleware(jwtManager))
		r.Get("/api/history", apiServer.HandleGetHistory)
		r.Get("/api/scans", apiServer.HandleGetScans)
	})

	log.Printf("Starting API server on %s", cfg.API.ListenAddr)
	if err := http.ListenAndServe(cfg.API.ListenAddr, r); err != nil {
		log.Fatal(err)
	}
}
