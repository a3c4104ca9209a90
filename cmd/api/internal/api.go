package internal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	datafeed "github.com/fazecat/orbwatch/Internal/database"
	newsscraping "github.com/fazecat/orbwatch/Internal/news_scraping"
	"github.com/fazecat/orbwatch/Internal/scanner"
	"github.com/fazecat/orbwatch/Internal/strategy/orb"
	"github.com/fazecat/orbwatch/Internal/types"
	"github.com/fazecat/orbwatch/Internal/utils"
	"github.com/fazecat/orbwatch/Internal/utils/config"
)

type API struct {
	Scanner    *scanner.Scanner
	Config     *config.Config
	RSSClient  *newsscraping.RSSClient
	JWTManager *JWTManager
	DBEnabled  bool

	// FetchSymbols lists the tradable universe; defaults to the Alpaca
	// asset listing, overridable in tests.
	FetchSymbols func() ([]string, error)
}

// HandleScan runs a scan over the configured universe and returns the
// ranked, filtered setup list. Filters come in as query parameters; they
// are applied after scoring, never inside it.
func (api *API) HandleScan(w http.ResponseWriter, r *http.Request) {
	sessionOpen, err := utils.SessionOpen(time.Now(), api.Config)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to resolve session open")
		return
	}

	result := api.Scanner.Scan(sessionOpen)
	filtered := orb.ApplyFilter(result.Setups, parseFilter(r))

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"setups":          filtered,
		"symbols_scanned": result.SymbolsScanned,
		"errors":          result.Errors,
		"elapsed_ms":      result.Elapsed.Milliseconds(),
		"scanned_at":      result.StartedAt,
	})
}

func (api *API) HandleGetSetup(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	sessionOpen, err := utils.SessionOpen(time.Now(), api.Config)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to resolve session open")
		return
	}

	setup, err := api.Scanner.Analyze(symbol, sessionOpen)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if setup == nil {
		WriteError(w, http.StatusNotFound, "No session data yet for "+symbol)
		return
	}
	WriteJSON(w, http.StatusOK, setup)
}

func (api *API) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if !api.DBEnabled {
		WriteError(w, http.StatusServiceUnavailable, "History requires a configured database")
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Missing symbol query parameter")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := datafeed.GetSetupHistory(r.Context(), symbol, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch setup history")
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// HandleGetScans returns the recent scan-cycle log.
func (api *API) HandleGetScans(w http.ResponseWriter, r *http.Request) {
	if !api.DBEnabled {
		WriteError(w, http.StatusServiceUnavailable, "Scan log requires a configured database")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := datafeed.GetRecentScans(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch scan log")
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// HandleGetSymbols lists active tradable US equities, for widening the
// scan universe beyond the configured ticker list.
func (api *API) HandleGetSymbols(w http.ResponseWriter, r *http.Request) {
	fetch := api.FetchSymbols
	if fetch == nil {
		fetch = datafeed.GetTradableSymbols
	}

	symbols, err := fetch()
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to list tradable symbols")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": symbols,
		"count":   len(symbols),
	})
}

func (api *API) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Missing symbol query parameter")
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	articles, err := api.RSSClient.FetchNews(symbol, limit)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to fetch news")
		return
	}
	WriteJSON(w, http.StatusOK, articles)
}

func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid token request")
		return
	}

	token, err := api.JWTManager.GenerateToken(req.UserID, req.Email, 24)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func parseFilter(r *http.Request) types.ScanFilter {
	q := r.URL.Query()
	filter := types.ScanFilter{}

	if v := q.Get("min_score"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinScore = parsed
		}
	}
	filter.BreakoutOnly = q.Get("breakout_only") == "true"
	filter.VWAPConfirmed = q.Get("vwap_only") == "true"

	switch q.Get("direction") {
	case "bullish":
		filter.Direction = types.DirectionBullish
	case "bearish":
		filter.Direction = types.DirectionBearish
	}
	return filter
}
