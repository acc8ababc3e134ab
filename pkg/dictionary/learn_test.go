package dictionary

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestDecks(t *testing.T) {
	entries := []Entry{
		{Word: "heda", Classifications: []string{"noun"}},
		{Word: "gon", Classifications: []string{"preposition"}},
		{Word: "fig raun", Classifications: []string{"verb", "noun"}},
		{Word: "sha"},
	}
	decks := Decks(entries)

	got := map[string]int{}
	for _, d := range decks {
		got[d.Group] = len(d.Cards)
	}
	want := map[string]int{"all": 4, "noun": 2, "verb": 1, "preposition": 1}
	if len(got) != len(want) {
		t.Fatalf("unexpected decks %v", got)
	}
	for g, n := range want {
		if got[g] != n {
			t.Errorf("deck %s: got %d cards, want %d", g, got[g], n)
		}
	}
	if decks[0].Group != "all" {
		t.Errorf("the all deck comes first, got %s", decks[0].Group)
	}
}

func TestDraw(t *testing.T) {
	d := Deck{Group: "noun", Cards: []Entry{{Word: "heda"}, {Word: "kru"}, {Word: "natrona"}}}
	r := rand.New(rand.NewPCG(1, 2))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		e, err := d.Draw(r)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		seen[e.Word] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected every card to be drawn, saw %v", seen)
	}

	if _, err := (Deck{}).Draw(nil); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}
}
