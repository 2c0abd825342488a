package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podjson/pkg/domain"
)

//go:generate moq -out mocks/page_lookup.go -pkg mocks -skip-ensure -fmt goimports . PageLookup

// UntitledName is used for entries without a title
const UntitledName = "Untitled"

var explicitValues = map[string]bool{"yes": true, "true": true, "1": true}

// PageLookup returns the manually curated page for a normalized episode number.
// Unknown keys give an empty page and no error.
type PageLookup interface {
	Page(key string) (string, error)
}

// Stats summarizes a Build run
type Stats struct {
	Total   int // entries seen
	Skipped int // entries failed and dropped
}

// Assembler builds episode records from feed entries
type Assembler struct {
	pages PageLookup
}

// NewAssembler makes an assembler merging pages from the given lookup, nil lookup means no pages
func NewAssembler(pages PageLookup) *Assembler {
	return &Assembler{pages: pages}
}

// Build converts entries to episodes sorted newest first. An entry failing to convert
// is logged with its 1-based position and skipped, it never stops the others.
func (a *Assembler) Build(entries []domain.Entry) ([]domain.Episode, Stats) {
	stats := Stats{Total: len(entries)}
	episodes := make([]domain.Episode, 0, len(entries))
	for i, e := range entries {
		ep, err := a.safeEpisode(e)
		if err != nil {
			lgr.Printf("[WARN] failed to process entry %d: %v", i+1, err)
			stats.Skipped++
			continue
		}
		lgr.Printf("[DEBUG] entry %d: %q, episode %s, %s", i+1, ep.Name, ep.EpisodeNumber, ep.Date)
		episodes = append(episodes, ep)
	}

	SortEpisodes(episodes)
	return episodes, stats
}

// Episode converts a single entry
func (a *Assembler) Episode(e domain.Entry) (domain.Episode, error) {
	name := strings.TrimSpace(e.Title)
	if name == "" {
		name = UntitledName
	}

	date := ResolveDate(e)
	ep := domain.Episode{
		Name:          name,
		Desc:          CleanText(firstNonEmpty(e.Content, e.SummaryDetail, e.Summary, e.Description)),
		Link:          strings.TrimSpace(e.Link),
		AudioURL:      PickAudio(e),
		Image:         PickImage(e),
		Date:          date.Display(),
		Year:          date.Year(),
		Duration:      Duration(firstNonEmpty(e.ITunesDuration, e.Duration)),
		EpisodeNumber: domain.ParseIntOrString(firstNonEmpty(e.ITunesEpisode, e.Episode)),
		Season:        domain.ParseIntOrString(firstNonEmpty(e.ITunesSeason, e.Season)),
		EpisodeType:   firstNonEmpty(e.ITunesEpisodeType, e.EpisodeType),
		GUID:          e.GUID,
		Explicit:      explicitValues[strings.ToLower(strings.TrimSpace(e.ITunesExplicit))],
		PubISO:        date.ISO(),
	}

	if a.pages != nil {
		key := EpisodeKey(ep.EpisodeNumber)
		page, err := a.pages.Page(key)
		if err != nil {
			return domain.Episode{}, fmt.Errorf("lookup page for episode %q: %w", key, err)
		}
		ep.Page = page
	}
	return ep, nil
}

// safeEpisode converts an entry, turning a panic into an error of this entry only
func (a *Assembler) safeEpisode(e domain.Entry) (ep domain.Episode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Episode(e)
}

// EpisodeKey normalizes an episode number to the key used by the extras map,
// "8" for numbers, the trimmed text for anything else
func EpisodeKey(num domain.IntOrString) string {
	if num.IsInt() {
		return num.String()
	}
	return strings.TrimSpace(num.Value)
}

// SortEpisodes orders episodes by publish time descending, episodes without
// a date go last. Equal dates are ordered by name descending.
func SortEpisodes(episodes []domain.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].PubISO != episodes[j].PubISO {
			return episodes[i].PubISO > episodes[j].PubISO
		}
		return episodes[i].Name > episodes[j].Name
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
