// Package news aggregates politics coverage from configured RSS feeds.
package news

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// politicsKeywords match politics coverage in English and Nepali.
var politicsKeywords = []string{
	"politics",
	"political",
	"government",
	"election",
	"राजनीति",
	"नेता",
	"संसद",
	"मन्त्री",
	"प्रधानमन्त्री",
	"दल",
	"कांग्रेस",
	"एमाले",
	"माओवादी",
	"सरकार",
}

// DefaultSources mirror the feeds the service has always aggregated.
var DefaultSources = map[string]string{
	"onlinekhabar": "https://www.onlinekhabar.com/feed",
	"setopati":     "https://www.setopati.com/rss",
	"ratopati":     "https://www.ratopati.com/rss",
	"bbcnepali":    "http://feeds.bbci.co.uk/nepali/rss.xml",
	"kantipur":     "https://ekantipur.com/rss",
	"nagarik":      "https://nagariknews.nagariknetwork.com/rss",
}

// Item is one politics-related news entry.
type Item struct {
	SourceName  string     `json:"source_name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Category    string     `json:"category"`
	Author      string     `json:"author"`
	Image       string     `json:"image,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	GUID        string     `json:"guid"`
}

// SourceError records a feed that could not be fetched; one broken source
// never fails the whole aggregation.
type SourceError struct {
	SourceName string `json:"source_name"`
	Error      string `json:"error"`
}

// IsPolitics reports whether the text mentions any politics keyword.
func IsPolitics(text string) bool {
	text = strings.ToLower(text)
	for _, keyword := range politicsKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// Aggregator fetches all sources and merges the politics items.
type Aggregator struct {
	fetcher *Fetcher
	sources map[string]string
}

func NewAggregator(fetcher *Fetcher, sources map[string]string) *Aggregator {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &Aggregator{fetcher: fetcher, sources: sources}
}

// Aggregate fetches every source concurrently, filters to politics items and
// sorts newest first. Per-source failures are collected, not fatal.
func (a *Aggregator) Aggregate(ctx context.Context) ([]Item, []SourceError) {
	var (
		mu     sync.Mutex
		items  []Item
		failed []SourceError
		wg     sync.WaitGroup
	)

	for name, url := range a.sources {
		wg.Add(1)
		go func(name, url string) {
			defer wg.Done()

			sourceItems, err := a.fetcher.Fetch(ctx, name, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, SourceError{SourceName: name, Error: err.Error()})
				return
			}
			for _, item := range sourceItems {
				if IsPolitics(item.Title + " " + item.Description) {
					items = append(items, item)
				}
			}
		}(name, url)
	}
	wg.Wait()

	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].PublishedAt, items[j].PublishedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	return items, failed
}
