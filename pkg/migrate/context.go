package migrate

import "strings"

// Context carries every lookup a migration run builds up. Resolution of a
// later table reads what earlier tables recorded here, so one Context must
// be threaded through a whole run and never shared between runs.
type Context struct {
	// Dictionaries maps dictionary name to id.
	Dictionaries map[string]string
	// Classifications maps lowercase class name to id.
	Classifications map[string]string
	SeriesID        string
	// Seasons maps season number to id.
	Seasons map[int]string
	// Episodes maps a decoded episode code to id.
	Episodes map[EpisodeCode]string
	// Speakers maps lowercase speaker name to id.
	Speakers map[string]string
	// SourceIDs and WordIDs map normalized legacy ids to new ids.
	SourceIDs map[string]string
	WordIDs   map[string]string
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		Dictionaries:    map[string]string{},
		Classifications: map[string]string{},
		Seasons:         map[int]string{},
		Episodes:        map[EpisodeCode]string{},
		Speakers:        map[string]string{},
		SourceIDs:       map[string]string{},
		WordIDs:         map[string]string{},
	}
}

// Speaker resolves a speaker name against the seeded roster.
func (c *Context) Speaker(name string) (string, bool) {
	id, ok := c.Speakers[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Classification resolves a word class name against the vocabulary.
func (c *Context) Classification(name string) (string, bool) {
	id, ok := c.Classifications[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}
