package domain

import "time"

// Entry is a single feed item as seen by the episode assembler.
// Every field is optional, empty values mean the feed did not provide it.
// Several fields carry the same kind of data from different feed elements,
// the assembler decides which one wins.
type Entry struct {
	Title string
	Link  string
	GUID  string // rss guid or atom id

	// description candidates, in the order they are consulted
	Content       string
	SummaryDetail string
	Summary       string
	Description   string

	// pre-parsed timestamps
	Published *time.Time
	Updated   *time.Time
	Created   *time.Time

	// raw date strings, used when pre-parsed timestamps are missing
	PublishedRaw string
	UpdatedRaw   string
	CreatedRaw   string

	Enclosures   []Enclosure
	Links        []Link
	ITunesImage  string
	Thumbnails   []Media
	MediaContent []Media

	ITunesDuration    string
	Duration          string
	ITunesEpisode     string
	Episode           string
	ITunesSeason      string
	Season            string
	ITunesEpisodeType string
	EpisodeType       string
	ITunesExplicit    string
}

// Enclosure is a feed attachment reference
type Enclosure struct {
	Href string
	Type string
}

// Link is an item link with an optional relation and media type
type Link struct {
	Href string
	Rel  string
	Type string
}

// Media is a media:thumbnail or media:content representation
type Media struct {
	URL string
}
