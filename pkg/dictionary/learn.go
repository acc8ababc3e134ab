package dictionary

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// ErrEmptyDeck is returned when drawing from a deck without cards.
var ErrEmptyDeck = errors.New("empty deck")

// Deck is the flashcards of one word class group.
type Deck struct {
	Group string
	Cards []Entry
}

// Decks builds one deck per entry of WordClasses. "all" holds every entry;
// the others hold the entries classified with the group. Empty decks are
// left out.
func Decks(entries []Entry) []Deck {
	var decks []Deck
	for _, group := range WordClasses {
		d := Deck{Group: group}
		for _, e := range entries {
			if group == "all" || slices.Contains(e.Classifications, group) {
				d.Cards = append(d.Cards, e)
			}
		}
		if len(d.Cards) > 0 {
			decks = append(decks, d)
		}
	}
	return decks
}

// Draw picks a card uniformly at random. A nil r uses the global source.
func (d Deck) Draw(r *rand.Rand) (Entry, error) {
	if len(d.Cards) == 0 {
		return Entry{}, ErrEmptyDeck
	}
	if r == nil {
		return d.Cards[rand.IntN(len(d.Cards))], nil
	}
	return d.Cards[r.IntN(len(d.Cards))], nil
}
