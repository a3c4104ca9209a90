package utils

import (
	"fmt"
	"time"

	"github.com/fazecat/orbwatch/Internal/utils/config"
)

// CheckMarketStatus reports the market phase for the given wall-clock
// time using the configured exchange timezone and session bounds.
// Weekends are always closed; exchange holidays are not modeled.
func CheckMarketStatus(now time.Time, cfg *config.Config) (string, bool) {
	loc, err := time.LoadLocation(cfg.Global.MarketHours.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return "CLOSED (weekend)", false
	}

	open, err1 := parseClock(cfg.Global.MarketHours.RegularOpen, local, loc)
	closeAt, err2 := parseClock(cfg.Global.MarketHours.RegularClose, local, loc)
	if err1 != nil || err2 != nil {
		return "UNKNOWN", false
	}

	switch {
	case local.Before(open):
		return "PREMARKET", false
	case local.Before(closeAt):
		return "OPEN", true
	default:
		return "CLOSED", false
	}
}

// SessionOpen returns today's session open instant in exchange time.
func SessionOpen(now time.Time, cfg *config.Config) (time.Time, error) {
	loc, err := time.LoadLocation(cfg.Global.MarketHours.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone: %w", err)
	}
	return parseClock(cfg.Global.MarketHours.RegularOpen, now.In(loc), loc)
}

// SessionClose returns today's session close instant in exchange time.
func SessionClose(now time.Time, cfg *config.Config) (time.Time, error) {
	loc, err := time.LoadLocation(cfg.Global.MarketHours.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone: %w", err)
	}
	return parseClock(cfg.Global.MarketHours.RegularClose, now.In(loc), loc)
}

func parseClock(hhmm string, day time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
