package utils

import (
	"log"
	"time"
)

// CalculateAvgVolume averages the most recent `period` volumes.
func CalculateAvgVolume(volumes []int64, period int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	if period > len(volumes) {
		period = len(volumes)
	}
	total := 0.0
	for i := len(volumes) - period; i < len(volumes); i++ {
		total += float64(volumes[i])
	}
	return total / float64(period)
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// RetryWithBackoff runs fn up to MaxAttempts times with exponential
// backoff between failures. Returns the last error if all attempts fail.
func RetryWithBackoff(fn func() error, cfg RetryConfig) error {
	var err error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		log.Printf("Attempt %d/%d failed: %v (retrying in %v)", attempt, cfg.MaxAttempts, err, delay)
		time.Sleep(delay)
		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
