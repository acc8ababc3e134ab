package migrate

import (
	"database/sql"
	"strconv"
	"strings"
)

// Fixed dictionary names.
const (
	Trigedasleng         = "Trigedasleng"
	Slakgedasleng        = "Slakgedasleng"
	NoncanonTrigedasleng = "Noncanon Trigedasleng"
	English              = "English"
)

// SeriesName is the only series the legacy data covers.
const SeriesName = "The 100"

// Dictionaries are created before any table is resolved.
var Dictionaries = []string{Trigedasleng, Slakgedasleng, NoncanonTrigedasleng, English}

// Classifications is the fixed word class vocabulary.
var Classifications = []string{
	"none", "noun", "pronoun", "verb", "adjective", "adverb",
	"conjunction", "preposition", "interjection", "auxiliary",
}

// DictionaryForType maps a dictionary type chosen by an editor, "canon",
// "noncanon" or "slakgedasleng", to a dictionary name. Unknown types are canon.
func DictionaryForType(dictionaryType string) string {
	switch strings.ToLower(strings.TrimSpace(dictionaryType)) {
	case "slakgedasleng":
		return Slakgedasleng
	case "noncanon":
		return NoncanonTrigedasleng
	}
	return Trigedasleng
}

// DictionaryRule maps a legacy filter to a dictionary when Match reports true.
// Match receives the lowercased filter.
type DictionaryRule struct {
	Name       string
	Match      func(filter string) bool
	Dictionary string
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// DictionaryRules are evaluated top to bottom; the first match wins. A word
// tagged both "canon" and "slakgedasleng" belongs to Slakgedasleng.
var DictionaryRules = []DictionaryRule{
	{Name: "slakgedasleng", Match: containsAny("slakgedasleng", "slakkru"), Dictionary: Slakgedasleng},
	{Name: "noncanon", Match: containsAny("noncanon"), Dictionary: NoncanonTrigedasleng},
	{Name: "default", Match: func(string) bool { return true }, Dictionary: Trigedasleng},
}

// ResolveDictionary returns the dictionary a legacy word filter belongs to.
func ResolveDictionary(filter string) string {
	lower := strings.ToLower(filter)
	for _, r := range DictionaryRules {
		if r.Match(lower) {
			return r.Dictionary
		}
	}
	return Trigedasleng
}

// Definition is a legacy "classification: definition" field split in two.
type Definition struct {
	Classification string
	Text           string
}

// ParseDefinition splits s at the first ':'. Without a colon, or when either
// side is blank, the whole trimmed field is the definition.
func ParseDefinition(s string) Definition {
	s = strings.TrimSpace(s)
	class, text, ok := strings.Cut(s, ":")
	if !ok {
		return Definition{Text: s}
	}
	class, text = strings.TrimSpace(class), strings.TrimSpace(text)
	if class == "" || text == "" {
		return Definition{Text: s}
	}
	return Definition{Classification: class, Text: text}
}

// PrimaryGloss is the definition up to the first ';'.
func (d Definition) PrimaryGloss() string {
	gloss, _, _ := strings.Cut(d.Text, ";")
	return strings.TrimSpace(gloss)
}

// EpisodeCode is a decoded legacy episode reference.
type EpisodeCode struct {
	Season  int
	Episode int
}

// Key is the four digit form, e.g. "0602".
func (c EpisodeCode) Key() string {
	return twoDigits(c.Season) + twoDigits(c.Episode)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ParseEpisodeCode decodes exactly four ASCII digits: two for the season and
// two for the episode within it. Anything else, including "other", and
// season or episode zero, is no episode.
func ParseEpisodeCode(s string) (EpisodeCode, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return EpisodeCode{}, false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return EpisodeCode{}, false
		}
	}
	season := int(s[0]-'0')*10 + int(s[1]-'0')
	episode := int(s[2]-'0')*10 + int(s[3]-'0')
	if season == 0 || episode == 0 {
		return EpisodeCode{}, false
	}
	return EpisodeCode{Season: season, Episode: episode}, true
}

// LegacyKey normalizes a legacy id so "7", "07" and " 7" resolve alike.
func LegacyKey(v sql.NullString) (string, bool) {
	if !v.Valid {
		return "", false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return "", false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}
	return s, true
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
