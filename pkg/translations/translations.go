// Package translations lists the example sentences of the store bucketed by
// the episode they were first heard in.
package translations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/migrate"
)

// Other is the bucket of sentences linked to no episode.
const Other = "other"

// ErrUnknownSeason is returned when selecting a season the catalog lacks.
var ErrUnknownSeason = errors.New("unknown season")

// Item is one sentence as the translations listing displays it.
type Item struct {
	ID           string
	Trigedasleng string
	English      string
	Etymology    string
	Leipzig      string
	Audio        string
	// Episode is the SSEE key of the first linked episode, or Other.
	Episode string
}

// FromSentence builds the listing item of a stored sentence.
func FromSentence(s db.SentenceEntry) Item {
	key := Other
	if s.SeasonNumber.Valid && s.EpisodeNumber.Valid {
		key = migrate.EpisodeCode{Season: int(s.SeasonNumber.Int64), Episode: int(s.EpisodeNumber.Int64)}.Key()
	}
	return Item{
		ID:           s.ID,
		Trigedasleng: s.Value,
		English:      s.English,
		Etymology:    s.Etymology.String,
		Leipzig:      s.LeipzigGlossing.String,
		Audio:        s.Audio.String,
		Episode:      key,
	}
}

// Detail is one sentence with the source it was recorded from.
type Detail struct {
	Item
	Source *db.Source
}

// Get loads one sentence by id. It returns db.ErrNotFound for an unknown id.
func Get(conn db.DBExecutor, id string) (Detail, error) {
	s, err := db.GetSentence(conn, id)
	if err != nil {
		return Detail{}, fmt.Errorf("translation %s: %w", id, err)
	}
	d := Detail{Item: FromSentence(s)}
	if s.SourceID.Valid {
		src, err := db.GetSource(conn, s.SourceID.String)
		if err != nil {
			return Detail{}, fmt.Errorf("source of translation %s: %w", id, err)
		}
		d.Source = &src
	}
	return d, nil
}

// Load returns every sentence of the store as listing items.
func Load(conn db.DBExecutor) ([]Item, error) {
	sentences, err := db.ListSentences(conn)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	items := make([]Item, 0, len(sentences))
	for _, s := range sentences {
		items = append(items, FromSentence(s))
	}
	return items, nil
}

// Catalog is the ordered list of episode buckets: every episode by season
// then episode number, followed by Other.
type Catalog struct {
	Keys    []string
	Seasons []string
	labels  map[string]string
}

// NewCatalog builds the catalog of episodes, which must be ordered by season
// then episode number as db.ListEpisodes returns them.
func NewCatalog(episodes []db.Episode) Catalog {
	c := Catalog{labels: map[string]string{Other: "Other"}}
	for _, e := range episodes {
		key := migrate.EpisodeCode{Season: e.SeasonNumber, Episode: e.SeriesNumber}.Key()
		c.Keys = append(c.Keys, key)
		c.labels[key] = e.Value
		if season := key[:2]; len(c.Seasons) == 0 || c.Seasons[len(c.Seasons)-1] != season {
			c.Seasons = append(c.Seasons, season)
			c.labels[season] = fmt.Sprintf("Season %d", e.SeasonNumber)
		}
	}
	c.Keys = append(c.Keys, Other)
	c.Seasons = append(c.Seasons, Other)
	return c
}

// LoadCatalog builds the catalog from the episodes of the store.
func LoadCatalog(conn db.DBExecutor) (Catalog, error) {
	episodes, err := db.ListEpisodes(conn)
	if err != nil {
		return Catalog{}, fmt.Errorf("load episodes: %w", err)
	}
	return NewCatalog(episodes), nil
}

// Label returns the display name of an episode or season key.
func (c Catalog) Label(key string) string {
	if l, ok := c.labels[key]; ok {
		return l
	}
	return key
}

// Scope returns the episode keys of season, in order. The empty season is
// the whole catalog.
func (c Catalog) Scope(season string) []string {
	switch season {
	case "":
		return c.Keys
	case Other:
		return []string{Other}
	}
	var keys []string
	for _, k := range c.Keys {
		if k != Other && strings.HasPrefix(k, season) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c Catalog) hasSeason(season string) bool {
	for _, s := range c.Seasons {
		if s == season {
			return true
		}
	}
	return false
}
