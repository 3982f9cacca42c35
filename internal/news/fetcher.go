package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher downloads and parses one RSS feed.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Fetch(ctx context.Context, sourceName, feedURL string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseFeed(sourceName, raw)
}

// ParseFeed decodes an RSS document into items.
func ParseFeed(sourceName string, raw []byte) ([]Item, error) {
	var feed rssFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(feed.Channel.Items))
	for _, entry := range feed.Channel.Items {
		item := Item{
			SourceName:  sourceName,
			Title:       strings.TrimSpace(entry.Title),
			Description: strings.TrimSpace(entry.Description),
			Link:        entry.Link,
			Category:    entry.Category,
			Author:      entry.Author,
			Image:       entry.image(),
			PublishedAt: parsePubDate(entry.PubDate),
			GUID:        entry.GUID,
		}
		if item.Author == "" {
			item.Author = sourceName
		}
		if item.GUID == "" {
			item.GUID = entry.Link
		}
		items = append(items, item)
	}
	return items, nil
}

func parsePubDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string         `xml:"title"`
	Link        string         `xml:"link"`
	Description string         `xml:"description"`
	Category    string         `xml:"category"`
	Author      string         `xml:"author"`
	PubDate     string         `xml:"pubDate"`
	GUID        string         `xml:"guid"`
	Media       []mediaContent `xml:"content"`
	Thumbnail   []mediaContent `xml:"thumbnail"`
	Enclosure   *rssEnclosure  `xml:"enclosure"`
}

type mediaContent struct {
	URL string `xml:"url,attr"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// image pulls a picture URL out of media:content, media:thumbnail or an
// image enclosure, whichever is present.
func (it rssItem) image() string {
	for _, m := range it.Media {
		if m.URL != "" {
			return m.URL
		}
	}
	for _, m := range it.Thumbnail {
		if m.URL != "" {
			return m.URL
		}
	}
	if it.Enclosure != nil && strings.HasPrefix(it.Enclosure.Type, "image") {
		return it.Enclosure.URL
	}
	return ""
}
