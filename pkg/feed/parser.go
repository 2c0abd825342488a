package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/umputun/podjson/pkg/domain"
)

// MaxFeedSize limits the size of a fetched feed
const MaxFeedSize = 20 * 1024 * 1024

// Parser fetches RSS/Atom feeds and converts them to domain entries
type Parser struct {
	client     *http.Client
	userAgent  string
	attempts   int
	retryDelay time.Duration
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// NewParser creates a feed parser. Attempts is the total number of fetch attempts,
// values below 1 mean a single attempt.
func NewParser(timeout time.Duration, userAgent string, attempts int) *Parser {
	if attempts < 1 {
		attempts = 1
	}
	return &Parser{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		attempts:   attempts,
		retryDelay: 500 * time.Millisecond,
	}
}

// Parse fetches and parses a feed. Location is an http(s) URL, a file:// URL or a local path.
func (p *Parser) Parse(ctx context.Context, location string) (*domain.Feed, error) {
	body, err := p.read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.Feed{
		Title:   feed.Title,
		Link:    feed.Link,
		Entries: make([]domain.Entry, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		result.Entries = append(result.Entries, toEntry(item))
	}
	return result, nil
}

// read returns the raw feed from the network or from a local file
func (p *Parser) read(ctx context.Context, location string) ([]byte, error) {
	if path, ok := localPath(location); ok {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	var body []byte
	var permanent error
	retrier := repeater.NewBackoff(p.attempts, p.retryDelay, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		data, err := p.fetch(ctx, location)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < http.StatusInternalServerError && se.Code != http.StatusTooManyRequests {
				permanent = err // client errors won't go away on retry
				return nil
			}
			lgr.Printf("[DEBUG] fetch %s failed: %v", location, err)
			return err
		}
		body = data
		return nil
	})
	if permanent != nil {
		return nil, permanent
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxFeedSize {
		return nil, fmt.Errorf("feed too large, exceeds %d bytes", MaxFeedSize)
	}
	return data, nil
}

// localPath reports whether location points to a local file and returns its path
func localPath(location string) (string, bool) {
	if strings.HasPrefix(location, "file://") {
		return strings.TrimPrefix(location, "file://"), true
	}
	u, err := url.Parse(location)
	if err != nil {
		return location, true
	}
	// single letter scheme is a windows drive
	return location, len(u.Scheme) <= 1
}

// toEntry converts a gofeed item to a domain entry
func toEntry(item *gofeed.Item) domain.Entry {
	entry := domain.Entry{
		Title:         item.Title,
		Link:          item.Link,
		GUID:          item.GUID,
		Content:       item.Content,
		SummaryDetail: item.Description,
		Published:     item.PublishedParsed,
		Updated:       item.UpdatedParsed,
		PublishedRaw:  item.Published,
		UpdatedRaw:    item.Updated,
	}

	for _, l := range item.Links {
		if l != "" {
			entry.Links = append(entry.Links, domain.Link{Href: l, Rel: "alternate"})
		}
	}
	// enclosures are links too, an untyped enclosure is still a candidate for audio
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, domain.Enclosure{Href: enc.URL, Type: enc.Type})
		entry.Links = append(entry.Links, domain.Link{Href: enc.URL, Rel: "enclosure", Type: enc.Type})
	}

	if dc := item.DublinCoreExt; dc != nil && len(dc.Date) > 0 {
		entry.CreatedRaw = dc.Date[0]
	}

	if it := item.ITunesExt; it != nil {
		entry.Summary = it.Summary
		entry.Description = it.Subtitle
		entry.ITunesImage = it.Image
		entry.ITunesDuration = it.Duration
		entry.ITunesEpisode = it.Episode
		entry.ITunesSeason = it.Season
		entry.ITunesEpisodeType = it.EpisodeType
		entry.ITunesExplicit = it.Explicit
	}

	// plain elements without namespace, used by some hosting platforms
	entry.Duration = item.Custom["duration"]
	entry.Episode = item.Custom["episode"]
	entry.Season = item.Custom["season"]
	entry.EpisodeType = item.Custom["episodeType"]

	entry.Thumbnails, entry.MediaContent = mediaOf(item.Extensions)
	return entry
}

// mediaOf collects media:thumbnail and media:content urls, including the ones nested in media:group
func mediaOf(exts ext.Extensions) (thumbnails, contents []domain.Media) {
	media, ok := exts["media"]
	if !ok {
		return nil, nil
	}

	collect := func(src map[string][]ext.Extension) {
		for _, e := range src["thumbnail"] {
			if u := e.Attrs["url"]; u != "" {
				thumbnails = append(thumbnails, domain.Media{URL: u})
			}
		}
		for _, e := range src["content"] {
			if u := e.Attrs["url"]; u != "" {
				contents = append(contents, domain.Media{URL: u})
			}
		}
	}

	collect(media)
	for _, g := range media["group"] {
		collect(g.Children)
	}
	return thumbnails, contents
}
