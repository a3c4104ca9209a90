package datafeed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/orbwatch/Internal/types"
)

// SetupRecord is one persisted setup row. Prices are stored as decimal
// strings so nothing is lost to float round-tripping.
type SetupRecord struct {
	ID              int64
	Symbol          string
	Score           float64
	Direction       string
	HasBreakout     bool
	VWAPConfirmed   bool
	VolumeConfirmed bool
	ORHigh          decimal.Decimal
	ORLow           decimal.Decimal
	CurrentPrice    decimal.Decimal
	VWAP            decimal.Decimal
	VolumeRatio     float64
	BarCount        int
	RecordedAt      time.Time
}

// LogSetup persists a scored setup. No-op error when the database was
// never initialized; the scanner runs fine without persistence.
func LogSetup(ctx context.Context, s types.Setup) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := DB.ExecContext(ctx, `
		INSERT INTO setups (symbol, score, direction, has_breakout, vwap_confirmed, volume_confirmed,
			orb_high, orb_low, current_price, vwap, volume_ratio, bar_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.Symbol,
		s.SetupScore.Score,
		string(s.SetupScore.Direction),
		s.SetupScore.HasBreakout,
		s.SetupScore.VWAPConfirmed,
		s.SetupScore.VolumeConfirmed,
		decimal.NewFromFloat(s.ORHigh).String(),
		decimal.NewFromFloat(s.ORLow).String(),
		decimal.NewFromFloat(s.CurrentPrice).String(),
		decimal.NewFromFloat(s.VWAP).String(),
		s.VolumeRatio,
		s.BarCount,
	)
	if err != nil {
		return fmt.Errorf("failed to log setup: %w", err)
	}
	return nil
}

// LogScan records one completed scan cycle.
func LogScan(ctx context.Context, symbolsScanned, setupsFound int) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	_, err := DB.ExecContext(ctx,
		`INSERT INTO scan_log (symbols_scanned, setups_found) VALUES ($1, $2)`,
		symbolsScanned, setupsFound,
	)
	if err != nil {
		return fmt.Errorf("failed to log scan: %w", err)
	}
	return nil
}

// ScanRecord is one persisted scan cycle.
type ScanRecord struct {
	ID             int64
	ScannedAt      time.Time
	SymbolsScanned int
	SetupsFound    int
}

// GetRecentScans returns the most recent scan cycles, newest first.
func GetRecentScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := DB.QueryContext(ctx, `
		SELECT id, scanned_at, symbols_scanned, setups_found
		FROM scan_log
		ORDER BY scanned_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scan log: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		if err := rows.Scan(&rec.ID, &rec.ScannedAt, &rec.SymbolsScanned, &rec.SetupsFound); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetSetupHistory returns the most recent persisted setups for a symbol,
// newest first.
func GetSetupHistory(ctx context.Context, symbol string, limit int) ([]SetupRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := DB.QueryContext(ctx, `
		SELECT id, symbol, score, direction, has_breakout, vwap_confirmed, volume_confirmed,
			orb_high, orb_low, current_price, vwap, volume_ratio, bar_count, recorded_at
		FROM setups
		WHERE symbol = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setup history: %w", err)
	}
	defer rows.Close()

	var records []SetupRecord
	for rows.Next() {
		var rec SetupRecord
		var orHigh, orLow, price, vwap string
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Score, &rec.Direction,
			&rec.HasBreakout, &rec.VWAPConfirmed, &rec.VolumeConfirmed,
			&orHigh, &orLow, &price, &vwap, &rec.VolumeRatio, &rec.BarCount, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setup row: %w", err)
		}
		rec.ORHigh, _ = decimal.NewFromString(orHigh)
		rec.ORLow, _ = decimal.NewFromString(orLow)
		rec.CurrentPrice, _ = decimal.NewFromString(price)
		rec.VWAP, _ = decimal.NewFromString(vwap)
		records = append(records, rec)
	}
	return records, rows.Err()
}
