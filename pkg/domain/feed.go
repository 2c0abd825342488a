package domain

// Feed represents a parsed podcast feed
type Feed struct {
	Title   string
	Link    string
	Entries []Entry
}
