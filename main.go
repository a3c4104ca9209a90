package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/orbwatch/Internal/database"
	newsscraping "github.com/fazecat/orbwatch/Internal/news_scraping"
	"github.com/fazecat/orbwatch/Internal/scanner"
	"github.com/fazecat/orbwatch/Internal/types"
	"github.com/fazecat/orbwatch/Internal/utils"
	"github.com/fazecat/orbwatch/Internal/utils/config"
)

func main() {
	once := flag.Bool("once", false, "run a single scan cycle and exit")
	withNews := flag.Bool("news", false, "print headlines and sentiment for the top setup")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	dbEnabled := true
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, scans will not be persisted: %v", err)
		dbEnabled = false
	} else {
		defer datafeed.CloseDatabase()
	}

	if err := datafeed.InitAlpacaClient(); err != nil {
		log.Fatalf("Alpaca client initialization failed: %v", err)
	}
	if _, err := datafeed.GetAlpacaClient().GetAccount(); err != nil {
		log.Fatalf("Alpaca account check failed: %v", err)
	}

	status, isOpen := utils.CheckMarketStatus(time.Now(), cfg)
	fmt.Printf("Market Status: %s (Open: %v)\n\n", status, isOpen)

	app := &scanApp{
		scanner:   scanner.NewScanner(cfg),
		config:    cfg,
		rss:       newsscraping.NewRSSClient(),
		dbEnabled: dbEnabled,
		withNews:  *withNews,
	}
	ctx := context.Background()

	if *once {
		app.runScan(ctx)
		return
	}

	interval := time.Duration(cfg.Scanner.ScanIntervalSeconds) * time.Second
	log.Printf("Scanning %d tickers every %s", len(cfg.Scanner.Tickers), interval)

	app.runScan(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if _, isOpen := utils.CheckMarketStatus(time.Now(), cfg); !isOpen {
			log.Println("Market closed - skipping scan")
			continue
		}
		app.runScan(ctx)
	}
}

type scanApp struct {
	scanner   *scanner.Scanner
	config    *config.Config
	rss       *newsscraping.RSSClient
	dbEnabled bool
	withNews  bool
}

func (a *scanApp) runScan(ctx context.Context) {
	sessionOpen, err := utils.SessionOpen(time.Now(), a.config)
	if err != nil {
		log.Printf("Could not resolve session open: %v", err)
		return
	}

	result := a.scanner.Scan(sessionOpen)
	printResult(result, a.config)

	if a.withNews && len(result.Setups) > 0 {
		a.printNews(result.Setups[0].Symbol)
	}

	if !a.dbEnabled {
		return
	}
	for _, s := range result.Setups {
		if err := datafeed.LogSetup(ctx, s); err != nil {
			log.Printf("Failed to log setup for %s: %v", s.Symbol, err)
		}
	}
	if err := datafeed.LogScan(ctx, result.SymbolsScanned, len(result.Setups)); err != nil {
		log.Printf("Failed to log scan: %v", err)
	}
}

func (a *scanApp) printNews(symbol string) {
	articles, err := a.rss.FetchNews(symbol, 5)
	if err != nil {
		log.Printf("Could not fetch news for %s: %v", symbol, err)
		return
	}
	fmt.Printf("\nLatest headlines for %s:\n", symbol)
	for _, art := range articles {
		fmt.Printf("  [%s %.2f] %s\n", art.Sentiment, art.Score, art.Headline)
	}
}

func printResult(result scanner.ScanResult, cfg *config.Config) {
	fmt.Printf("\n--- Scan %s (%d symbols, %d errors, %s) ---\n",
		result.StartedAt.Format("15:04:05"), result.SymbolsScanned, result.Errors, result.Elapsed.Round(time.Millisecond))
	fmt.Printf("%-6s %-8s %6s %9s %9s %9s %8s %7s\n",
		"SYM", "DIR", "SCORE", "PRICE", "OR HIGH", "OR LOW", "VWAP", "VOL-R")

	shown := 0
	for _, s := range result.Setups {
		if s.SetupScore.Score < cfg.ORB.DefaultMinScore {
			continue
		}
		fmt.Printf("%-6s %-8s %6.1f %9.2f %9.2f %9.2f %8.2f %7.2f\n",
			s.Symbol, directionLabel(s.SetupScore.Direction), s.SetupScore.Score, s.CurrentPrice,
			s.ORHigh, s.ORLow, s.VWAP, s.VolumeRatio)
		shown++
	}
	if shown == 0 {
		fmt.Println("No setups above minimum score")
	}
}

func directionLabel(d types.Direction) string {
	if d == types.DirectionNone {
		return "-"
	}
	return string(d)
}
