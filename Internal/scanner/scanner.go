package scanner

import (
	"fmt"
	"log"
	"sync"
	"time"

	datafeed "github.com/fazecat/orbwatch/Internal/database"
	"github.com/fazecat/orbwatch/Internal/strategy/orb"
	"github.com/fazecat/orbwatch/Internal/types"
	"github.com/fazecat/orbwatch/Internal/utils"
	"github.com/fazecat/orbwatch/Internal/utils/config"
)

// Scanner runs ORB+VWAP evaluations over a ticker universe. The data
// fetchers are fields so tests can point them at canned bars; defaults
// hit the Alpaca data API.
type Scanner struct {
	Config *config.Config
	Scorer *orb.Scorer

	FetchIntradayBars func(symbol string, sessionOpen time.Time, limit int) ([]types.Bar, error)
	FetchLatestPrice  func(symbol string) (float64, error)
	FetchAvgVolume    func(symbol string, days int) (float64, error)
}

func NewScanner(cfg *config.Config) *Scanner {
	scorer := orb.NewScorer()
	scorer.ReferenceRangeWidth = cfg.ORB.ReferenceRangeWidth
	scorer.VolumeMode = orb.VolumeMode(cfg.ORB.VolumeMode)

	return &Scanner{
		Config:            cfg,
		Scorer:            scorer,
		FetchIntradayBars: datafeed.GetIntradayBars,
		FetchLatestPrice:  datafeed.GetLatestPrice,
		FetchAvgVolume:    datafeed.GetAverageDailyVolume,
	}
}

// Analyze evaluates one symbol for the session starting at sessionOpen.
// Returns nil when no session data exists yet (no signal, not an error).
func (s *Scanner) Analyze(symbol string, sessionOpen time.Time) (*types.Setup, error) {
	oneMin, err := s.FetchIntradayBars(symbol, sessionOpen, s.Config.Scanner.BarLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}

	// The data API may hand back after-hours prints; those never belong
	// to the session's range or VWAP.
	if sessionClose, err := utils.SessionClose(sessionOpen, s.Config); err == nil {
		oneMin = datafeed.ClipToSession(oneMin, sessionOpen, sessionClose)
	}

	bars := datafeed.ResampleTo5Min(oneMin, sessionOpen)
	if len(bars) == 0 {
		return nil, nil
	}

	currentPrice, err := s.FetchLatestPrice(symbol)
	if err != nil || currentPrice <= 0 {
		// Mid-session the last close is a good enough stand-in.
		currentPrice = bars[len(bars)-1].Close
	}

	avgVolume, err := s.FetchAvgVolume(symbol, s.Config.ORB.VolumeBaselineDays)
	if err != nil {
		log.Printf("Volume baseline unavailable for %s: %v (volume sub-score will be 0)", symbol, err)
		avgVolume = 0
	}

	score, err := s.Scorer.Evaluate(bars, currentPrice, avgVolume)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
	}

	return s.enrich(symbol, bars, currentPrice, avgVolume, score), nil
}

// enrich wraps the core score with the context a trader wants next to
// it: where price sits, how far VWAP is, when the range first broke.
func (s *Scanner) enrich(symbol string, bars []types.Bar, currentPrice, avgVolume float64, score types.SetupScore) *types.Setup {
	openingRange := types.OpeningRange{High: bars[0].High, Low: bars[0].Low}
	vwap := orb.ComputeVWAP(bars)

	out := &types.Setup{
		Symbol:       symbol,
		SetupScore:   score,
		ORHigh:       openingRange.High,
		ORLow:        openingRange.Low,
		ORRangePct:   openingRange.WidthPct() * 100,
		CurrentPrice: currentPrice,
		Position:     orb.ClassifyPosition(currentPrice, openingRange),
		DistFromHigh: orb.DistancePct(currentPrice, openingRange.High),
		DistFromLow:  orb.DistancePct(currentPrice, openingRange.Low),
		BarCount:     len(bars),
		LastUpdate:   bars[len(bars)-1].Timestamp,
	}

	if vwap.Valid {
		out.VWAP = vwap.Value
		out.VWAPDistPct = orb.DistancePct(currentPrice, vwap.Value)
	}
	if ev, ok := orb.FindFirstBreakout(bars, openingRange); ok {
		out.BreakoutTime = ev.Time
		out.BreakoutBar = ev.Price
	}
	if avgVolume > 0 {
		var total float64
		for _, b := range bars {
			total += float64(b.Volume)
		}
		out.VolumeRatio = total / avgVolume
	}
	return out
}

// ScanResult is one completed scan cycle over the universe.
type ScanResult struct {
	Setups         []types.Setup
	SymbolsScanned int
	Errors         int
	StartedAt      time.Time
	Elapsed        time.Duration
}

// Scan evaluates every configured ticker concurrently and returns the
// ranked result. Each evaluation only reads its own bar series, so the
// fan-out needs no locking beyond collecting results.
func (s *Scanner) Scan(sessionOpen time.Time) ScanResult {
	start := time.Now()
	tickers := s.Config.Scanner.Tickers

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		setups []types.Setup
		errs   int
	)
	sem := make(chan struct{}, s.Config.Scanner.MaxConcurrent)

	for _, symbol := range tickers {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			setup, err := s.Analyze(symbol, sessionOpen)
			if err != nil {
				log.Printf("Error analyzing %s: %v", symbol, err)
				mu.Lock()
				errs++
				mu.Unlock()
				return
			}
			if setup == nil {
				return
			}
			mu.Lock()
			setups = append(setups, *setup)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	orb.Rank(setups)

	return ScanResult{
		Setups:         setups,
		SymbolsScanned: len(tickers),
		Errors:         errs,
		StartedAt:      start,
		Elapsed:        time.Since(start),
	}
}
