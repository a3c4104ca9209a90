package newsscraping

import "testing"

func TestAnalyze(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	tests := []struct {
		name     string
		headline string
		want     SentimentScore
	}{
		{"strong positive", "Shares Surge After Record Earnings Beat", Positive},
		{"strong negative", "Stock Plunges as Lawsuit Concerns Mount", Negative},
		{"neutral", "Company Announces New Chief Financial Officer", Neutral},
		{"mixed leans negative", "Shares Rise Despite Bankruptcy Warning and Losses", Negative},
		{"punctuation stripped", "Why the rally? Analysts see upside.", Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, score := analyzer.Analyze(tt.headline)
			if got != tt.want {
				t.Errorf("Analyze(%q) = %s (%.2f), want %s", tt.headline, got, score, tt.want)
			}
		})
	}
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	analyzer := NewSentimentAnalyzer()
	_, score := analyzer.Analyze("surge soar skyrocket rally breakout")
	if score < -1 || score > 1 {
		t.Errorf("Score %.2f outside [-1, 1]", score)
	}
}
