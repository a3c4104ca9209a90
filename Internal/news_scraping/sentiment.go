package newsscraping

import "strings"

// SentimentAnalyzer scores headlines with a weighted finance lexicon.
// Scores land in [-1, 1]; anything inside (-0.1, 0.1) reads as neutral.
type SentimentAnalyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positiveWords: map[string]float64{
			// Strong positive (0.9-1.0)
			"surge": 1.0, "soar": 1.0, "skyrocket": 1.0, "breakout": 1.0,
			"rally": 0.95, "bullish": 0.95, "boom": 0.95, "record": 0.9,
			"outperform": 0.9, "breakthrough": 0.9,

			// Moderate positive (0.7-0.89)
			"beat": 0.85, "beats": 0.85, "upgrade": 0.85, "exceed": 0.85,
			"jump": 0.8, "jumps": 0.8, "gain": 0.8, "gains": 0.8,
			"profit": 0.8, "growth": 0.8, "strong": 0.75, "boost": 0.75,
			"climb": 0.75, "momentum": 0.75, "upside": 0.75,
			"rebound": 0.7, "recover": 0.7, "strength": 0.7,

			// Mild positive (0.5-0.69)
			"rise": 0.65, "rises": 0.65, "higher": 0.65, "positive": 0.65,
			"solid": 0.6, "promising": 0.6, "optimistic": 0.6, "buying": 0.55,
			"steady": 0.5, "stable": 0.5, "robust": 0.5,
		},
		negativeWords: map[string]float64{
			// Strong negative (0.9-1.0)
			"crash": 1.0, "plunge": 1.0, "plunges": 1.0, "collapse": 1.0,
			"plummet": 0.95, "tumble": 0.95, "crisis": 0.95, "bankruptcy": 0.95,
			"panic": 0.9, "rout": 0.9, "worst": 0.9,

			// Moderate negative (0.7-0.89)
			"bearish": 0.85, "downgrade": 0.85, "warning": 0.85, "lawsuit": 0.85,
			"miss": 0.8, "misses": 0.8, "loss": 0.8, "losses": 0.8,
			"slump": 0.8, "decline": 0.8, "underperform": 0.8,
			"drop": 0.75, "drops": 0.75, "fall": 0.75, "falls": 0.75,
			"weak": 0.75, "weakness": 0.75, "struggle": 0.7,
			"concern": 0.7, "concerns": 0.7, "disappoint": 0.7,

			// Mild negative (0.5-0.69)
			"risk": 0.65, "risks": 0.65, "volatile": 0.65, "uncertainty": 0.65,
			"pressure": 0.6, "lower": 0.6, "slowdown": 0.6, "poor": 0.6,
			"dip": 0.55, "slip": 0.55, "caution": 0.55, "downside": 0.55,
			"pullback": 0.5, "correction": 0.5, "headwind": 0.5, "cut": 0.5,
		},
	}
}

func (sa *SentimentAnalyzer) Analyze(text string) (SentimentScore, float64) {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	var score float64
	var matches int

	for _, word := range words {
		word = strings.Trim(word, ".,!?\"'()[]{}:;")

		if val, exists := sa.positiveWords[word]; exists {
			score += val
			matches++
		} else if val, exists := sa.negativeWords[word]; exists {
			score -= val
			matches++
		}
	}

	if matches > 0 {
		score /= float64(matches)
	}
	sentiment := Neutral
	if score > 0.1 {
		sentiment = Positive
	} else if score < -0.1 {
		sentiment = Negative
	}
	return sentiment, score
}
