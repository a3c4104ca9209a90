package newsscraping

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fazecat/orbwatch/Internal/utils"
)

const yahooRSSURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

type RSSClient struct {
	httpClient *http.Client
	analyzer   *SentimentAnalyzer
}

func NewRSSClient() *RSSClient {
	return &RSSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		analyzer:   NewSentimentAnalyzer(),
	}
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FetchNews pulls the latest headlines for a symbol from the Yahoo
// Finance RSS feed and scores each one.
func (rc *RSSClient) FetchNews(symbol string, limit int) ([]NewsArticle, error) {
	feedURL := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", yahooRSSURL, url.QueryEscape(symbol))

	var feed rssFeed
	err := utils.RetryWithBackoff(func() error {
		resp, err := rc.httpClient.Get(feedURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("RSS feed returned status %d", resp.StatusCode)
		}
		return xml.NewDecoder(resp.Body).Decode(&feed)
	}, utils.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}

	items := feed.Channel.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	articles := make([]NewsArticle, 0, len(items))
	for _, item := range items {
		published, _ := time.Parse(time.RFC1123Z, item.PubDate)
		sentiment, score := rc.analyzer.Analyze(item.Title)
		articles = append(articles, NewsArticle{
			Symbol:      symbol,
			Headline:    item.Title,
			URL:         item.Link,
			Source:      "Yahoo Finance",
			PublishedAt: published,
			Sentiment:   sentiment,
			Score:       score,
		})
	}
	return articles, nil
}
