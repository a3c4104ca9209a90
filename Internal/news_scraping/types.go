package newsscraping

import "time"

type SentimentScore string

const (
	Positive SentimentScore = "POSITIVE"
	Neutral  SentimentScore = "NEUTRAL"
	Negative SentimentScore = "NEGATIVE"
)

type NewsArticle struct {
	Symbol      string         `json:"symbol"`
	Headline    string         `json:"headline"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	PublishedAt time.Time      `json:"published_at"`
	Sentiment   SentimentScore `json:"sentiment"`
	Score       float64        `json:"sentiment_score"`
}
