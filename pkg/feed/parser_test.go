package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podjson/pkg/domain"
)

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:media="http://search.yahoo.com/mrss/"
	xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
	<title>Test Podcast</title>
	<link>http://example.com</link>
	<description>Test Description</description>
	<item>
		<title>Episode 8: The Wave</title>
		<link>http://example.com/ep8</link>
		<description>Short description</description>
		<content:encoded><![CDATA[<p>Full show notes</p>]]></content:encoded>
		<pubDate>Sun, 10 Mar 2024 18:00:00 +0000</pubDate>
		<guid isPermaLink="false">guid-8</guid>
		<enclosure url="http://cdn.example.com/ep8.mp3" length="12345" type="audio/mpeg"/>
		<itunes:image href="http://cdn.example.com/ep8.jpg"/>
		<itunes:duration>01:02:03</itunes:duration>
		<itunes:episode>8</itunes:episode>
		<itunes:season>2</itunes:season>
		<itunes:episodeType>full</itunes:episodeType>
		<itunes:explicit>yes</itunes:explicit>
		<itunes:summary>iTunes summary</itunes:summary>
		<itunes:subtitle>iTunes subtitle</itunes:subtitle>
	</item>
	<item>
		<title>Bonus</title>
		<dc:date>2024-02-01T10:00:00Z</dc:date>
		<duration>45:00</duration>
		<episode>S1E2</episode>
		<media:thumbnail url="http://cdn.example.com/bonus-thumb.jpg"/>
		<media:group>
			<media:content url="http://cdn.example.com/bonus.m4a" type="audio/mp4"/>
			<media:thumbnail url="http://cdn.example.com/bonus-group-thumb.jpg"/>
		</media:group>
	</item>
</channel>
</rss>`

const podcastAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Atom Podcast</title>
	<link href="http://example.com/"/>
	<id>urn:uuid:feed</id>
	<updated>2024-03-01T12:00:00Z</updated>
	<entry>
		<title>Atom Episode</title>
		<link href="http://example.com/atom-ep"/>
		<link rel="enclosure" type="audio/mpeg" href="http://cdn.example.com/atom.mp3"/>
		<id>urn:uuid:entry-1</id>
		<updated>2024-03-01T12:00:00Z</updated>
		<summary>Atom summary</summary>
	</entry>
</feed>`

func TestParser_Parse(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(podcastRSS))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "podjson-test", 1)
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "podjson-test", userAgent)
	assert.Contains(t, accept, "application/rss+xml")
	assert.Equal(t, "Test Podcast", feed.Title)
	assert.Equal(t, "http://example.com", feed.Link)
	require.Len(t, feed.Entries, 2)

	// first entry has full itunes set
	e1 := feed.Entries[0]
	assert.Equal(t, "Episode 8: The Wave", e1.Title)
	assert.Equal(t, "http://example.com/ep8", e1.Link)
	assert.Equal(t, "guid-8", e1.GUID)
	assert.Equal(t, "<p>Full show notes</p>", e1.Content)
	assert.Equal(t, "Short description", e1.SummaryDetail)
	assert.Equal(t, "iTunes summary", e1.Summary)
	assert.Equal(t, "iTunes subtitle", e1.Description)
	require.NotNil(t, e1.Published)
	assert.Equal(t, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC), e1.Published.UTC())
	assert.Equal(t, "Sun, 10 Mar 2024 18:00:00 +0000", e1.PublishedRaw)
	require.Len(t, e1.Enclosures, 1)
	assert.Equal(t, "http://cdn.example.com/ep8.mp3", e1.Enclosures[0].Href)
	assert.Equal(t, "audio/mpeg", e1.Enclosures[0].Type)
	assert.Contains(t, e1.Links, domain.Link{Href: "http://cdn.example.com/ep8.mp3", Rel: "enclosure", Type: "audio/mpeg"})
	assert.Equal(t, "http://cdn.example.com/ep8.jpg", e1.ITunesImage)
	assert.Equal(t, "01:02:03", e1.ITunesDuration)
	assert.Equal(t, "8", e1.ITunesEpisode)
	assert.Equal(t, "2", e1.ITunesSeason)
	assert.Equal(t, "full", e1.ITunesEpisodeType)
	assert.Equal(t, "yes", e1.ITunesExplicit)

	// second entry relies on plain elements, dc:date and media
	e2 := feed.Entries[1]
	assert.Equal(t, "Bonus", e2.Title)
	assert.Equal(t, "2024-02-01T10:00:00Z", e2.CreatedRaw)
	assert.Equal(t, "45:00", e2.Duration)
	assert.Equal(t, "S1E2", e2.Episode)
	assert.Empty(t, e2.ITunesDuration)
	require.Len(t, e2.Thumbnails, 2)
	assert.Equal(t, "http://cdn.example.com/bonus-thumb.jpg", e2.Thumbnails[0].URL)
	assert.Equal(t, "http://cdn.example.com/bonus-group-thumb.jpg", e2.Thumbnails[1].URL)
	require.Len(t, e2.MediaContent, 1)
	assert.Equal(t, "http://cdn.example.com/bonus.m4a", e2.MediaContent[0].URL)
}

func TestParser_ParseAtom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(podcastAtom))
	}))
	defer server.Close()

	feed, err := NewParser(5*time.Second, "test", 1).Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Atom Podcast", feed.Title)
	require.Len(t, feed.Entries, 1)
	e := feed.Entries[0]
	assert.Equal(t, "Atom Episode", e.Title)
	assert.Equal(t, "urn:uuid:entry-1", e.GUID)
	assert.NotNil(t, e.Updated)
	require.Len(t, e.Enclosures, 1)
	assert.Equal(t, "http://cdn.example.com/atom.mp3", e.Enclosures[0].Href)
}

func TestParser_ParseLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(path, []byte(podcastRSS), 0o600))
	parser := NewParser(time.Second, "test", 1)

	t.Run("plain path", func(t *testing.T) {
		feed, err := parser.Parse(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, feed.Entries, 2)
	})

	t.Run("file url", func(t *testing.T) {
		feed, err := parser.Parse(context.Background(), "file://"+path)
		require.NoError(t, err)
		assert.Len(t, feed.Entries, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.xml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read file")
	})
}

func TestParser_Retries(t *testing.T) {
	t.Run("server error retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(podcastRSS))
		}))
		defer server.Close()

		parser := NewParser(5*time.Second, "test", 2)
		parser.retryDelay = time.Millisecond
		feed, err := parser.Parse(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, feed.Entries, 2)
		assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	})

	t.Run("single attempt by default", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		parser := NewParser(5*time.Second, "test", 0)
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("client error not retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		parser := NewParser(5*time.Second, "test", 3)
		parser.retryDelay = time.Millisecond
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Code)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}

func TestParser_Errors(t *testing.T) {
	t.Run("invalid xml", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not a feed"))
		}))
		defer server.Close()

		_, err := NewParser(5*time.Second, "test", 1).Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("canceled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(podcastRSS))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewParser(5*time.Second, "test", 1).Parse(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewParser(time.Second, "test", 1).Parse(context.Background(), "ftp://example.com/feed.xml")
		require.Error(t, err)
	})
}

func TestLocalPath(t *testing.T) {
	tbl := []struct {
		in    string
		path  string
		local bool
	}{
		{in: "https://example.com/feed.xml", path: "https://example.com/feed.xml", local: false},
		{in: "http://example.com/feed.xml", path: "http://example.com/feed.xml", local: false},
		{in: "file:///tmp/feed.xml", path: "/tmp/feed.xml", local: true},
		{in: "/tmp/feed.xml", path: "/tmp/feed.xml", local: true},
		{in: "feed.xml", path: "feed.xml", local: true},
		{in: `C:\feeds\feed.xml`, path: `C:\feeds\feed.xml`, local: true},
	}

	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			path, local := localPath(tt.in)
			assert.Equal(t, tt.local, local)
			assert.Equal(t, tt.path, path)
		})
	}
}
