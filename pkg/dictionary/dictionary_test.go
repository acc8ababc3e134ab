package dictionary

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trigedasleng/trigdict/pkg/db"
)

func TestFromWordEntry(t *testing.T) {
	w := db.WordEntry{
		ID:              "w1",
		Value:           "heda",
		Dictionary:      "Trigedasleng",
		Classifications: []string{"noun", "adjective"},
		Targets: []db.WordTarget{
			{Value: "hedo", Dictionary: "Noncanon Trigedasleng"},
			{Value: "commander", Dictionary: "English", Etymology: sql.NullString{String: "E. head", Valid: true}},
			{Value: "leader", Dictionary: "English", Etymology: sql.NullString{String: "ignored", Valid: true}},
		},
	}
	want := Entry{
		ID:              "w1",
		Word:            "heda",
		Translation:     "noun: commander, leader",
		Etymology:       "E. head",
		Filter:          "trigedasleng noun adjective",
		Dictionary:      "Trigedasleng",
		Classifications: []string{"noun", "adjective"},
	}
	if diff := cmp.Diff(want, FromWordEntry(w)); diff != "" {
		t.Errorf("FromWordEntry (-want +got):\n%s", diff)
	}

	bare := FromWordEntry(db.WordEntry{
		Value:      "gaf",
		Dictionary: "Noncanon Trigedasleng",
		Targets:    []db.WordTarget{{Value: "want", Dictionary: "English", Etymology: sql.NullString{String: "Unknown", Valid: true}}},
	})
	if bare.Translation != "want" || bare.Etymology != "" {
		t.Errorf("unexpected entry %+v", bare)
	}
	if !bare.Noncanon() {
		t.Errorf("expected noncanon entry, filter %q", bare.Filter)
	}
}

func TestScope(t *testing.T) {
	cases := map[string][]string{
		"":              {"Trigedasleng", "Slakgedasleng", "Noncanon Trigedasleng"},
		"canon":         {"Trigedasleng"},
		"Slakkru":       {"Slakgedasleng"},
		"slakgedasleng": {"Slakgedasleng"},
		"noncanon":      {"Noncanon Trigedasleng", "Slakgedasleng"},
	}
	for param, want := range cases {
		got, err := Scope(param)
		if err != nil {
			t.Fatalf("Scope(%q): %v", param, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Scope(%q) (-want +got):\n%s", param, diff)
		}
	}
	if _, err := Scope("english"); !errors.Is(err, ErrUnknownScope) {
		t.Errorf("expected ErrUnknownScope, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	fig := Entry{Word: "fig raun", Translation: "verb: fight around"}
	ai := Entry{Word: "ai", Translation: "pronoun: I, me"}
	aiNou := Entry{Word: "ai nou", Translation: "not me"}

	tests := []struct {
		name  string
		entry Entry
		q     string
		want  bool
	}{
		{"empty query", fig, "", true},
		{"substring of three", fig, "fig", true},
		{"substring ignores case", fig, "FIG", true},
		{"substring in translation", fig, "around", true},
		{"two letters need exact match", fig, "fi", false},
		{"exact two letter word", ai, "ai", true},
		{"exact ignores case", ai, "AI", true},
		{"two letters are not a prefix match", aiNou, "ai", false},
		{"no match", ai, "heda", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.entry, tt.q); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.entry.Word, tt.q, got, tt.want)
			}
		})
	}
}

func TestMatchClass(t *testing.T) {
	e := Entry{Filter: "trigedasleng noun verb"}
	for class, want := range map[string]bool{"all": true, "": true, "noun": true, "Verb": true, "adverb": false} {
		if got := MatchClass(e, class); got != want {
			t.Errorf("MatchClass(%q) = %v, want %v", class, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Word: "fig raun", Translation: "verb: fight", Filter: "trigedasleng verb"},
		{Word: "fiya", Translation: "noun: fire", Filter: "trigedasleng noun"},
		{Word: "ai", Translation: "pronoun: I", Filter: "trigedasleng pronoun"},
	}
	got := Filter(entries, "fi", "all")
	if len(got) != 0 {
		t.Errorf("expected no exact matches for \"fi\", got %v", got)
	}
	got = Filter(entries, "fig", "verb")
	if len(got) != 1 || got[0].Word != "fig raun" {
		t.Errorf("unexpected filter result %v", got)
	}
	got = Filter(entries, "", "noun")
	if len(got) != 2 {
		t.Errorf("expected noun and pronoun entries, got %v", got)
	}
}

func TestGroup(t *testing.T) {
	entries := []Entry{{Word: "Ben"}, {Word: "Ai"}, {Word: "ai"}}
	sections := Group(entries)

	var letters []string
	var words [][]string
	for _, s := range sections {
		letters = append(letters, s.Letter)
		var w []string
		for _, e := range s.Entries {
			w = append(w, e.Word)
		}
		words = append(words, w)
	}
	if diff := cmp.Diff([]string{"A", "B"}, letters); diff != "" {
		t.Errorf("letters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"Ai", "ai"}, {"Ben"}}, words); diff != "" {
		t.Errorf("sections (-want +got):\n%s", diff)
	}
	if entries[0].Word != "Ben" {
		t.Errorf("Group must not reorder its input")
	}
}

func TestGroupSingleSectionPerLetter(t *testing.T) {
	sections := Group([]Entry{{Word: "Ai"}, {Word: "ai"}, {Word: "Ben"}})
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if len(Group(nil)) != 0 {
		t.Errorf("expected no sections for no entries")
	}
}
