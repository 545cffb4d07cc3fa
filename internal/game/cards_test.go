package game

import (
	"testing"

	"duo-casino/internal/rng"

	"github.com/stretchr/testify/require"
)

func requireFullSet(t *testing.T, cards []Card) {
	t.Helper()
	require.Len(t, cards, DeckSize)
	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	for _, s := range suits {
		for _, r := range ranks {
			require.True(t, seen[Card{Rank: r, Suit: s}], "missing %s%s", r, s)
		}
	}
}

func TestNewDeckIsFullSet(t *testing.T) {
	requireFullSet(t, NewDeck().Cards())
}

func TestShuffleIsPermutation(t *testing.T) {
	r := rng.New(nil)
	for i := 0; i < 50; i++ {
		d := NewDeck()
		d.Shuffle(r)
		requireFullSet(t, d.Cards())
	}
}

func TestShuffleDrawsDescendingBounds(t *testing.T) {
	// j == i at every step leaves the deck untouched.
	draws := make([]int, 0, DeckSize-1)
	for i := DeckSize - 1; i > 0; i-- {
		draws = append(draws, i)
	}
	src := rng.NewScripted(draws...)
	d := NewDeck()
	d.Shuffle(rng.New(src))
	require.Equal(t, NewDeck().Cards(), d.Cards())
	require.Zero(t, src.Remaining())
}

func TestDealPopsFromEnd(t *testing.T) {
	d := NewDeck()
	c := d.Deal()
	require.Equal(t, Card{Rank: King, Suit: Clubs}, c)
	require.Equal(t, DeckSize-1, d.Len())
}

func TestDealEmptyDeckPanics(t *testing.T) {
	d := &Deck{}
	require.Panics(t, func() { d.Deal() })
}

func TestHandValue(t *testing.T) {
	cases := []struct {
		name string
		hand []Card
		want int
	}{
		{"empty", nil, 0},
		{"face cards", []Card{{King, Spades}, {Queen, Hearts}}, 20},
		{"soft 21", []Card{{Ace, Spades}, {King, Hearts}}, 21},
		{"two aces", []Card{{Ace, Spades}, {Ace, Hearts}}, 12},
		{"ace softens", []Card{{Ace, Spades}, {Nine, Hearts}, {Five, Clubs}}, 15},
		{"three aces and nine", []Card{{Ace, Spades}, {Ace, Hearts}, {Ace, Clubs}, {Nine, Diamonds}}, 12},
		{"hard bust", []Card{{King, Spades}, {Queen, Hearts}, {Two, Clubs}}, 22},
		{"ten counts ten", []Card{{Ten, Spades}, {Seven, Hearts}}, 17},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, HandValue(tc.hand))
		})
	}
}

func TestIsNatural(t *testing.T) {
	require.True(t, IsNatural([]Card{{Ace, Spades}, {Jack, Hearts}}))
	require.False(t, IsNatural([]Card{{Seven, Spades}, {Seven, Hearts}, {Seven, Clubs}}))
	require.False(t, IsNatural([]Card{{Nine, Spades}, {Seven, Hearts}}))
}
