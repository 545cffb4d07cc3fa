package game

import (
	"duo-casino/internal/rng"
)

type Suit string

type Rank string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

var ranks = [...]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// DeckSize is the number of distinct cards in a standard set.
const DeckSize = len(suits) * len(ranks)

type Card struct {
	Rank Rank `json:"r"`
	Suit Suit `json:"s"`
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// points counts an ace as 11; HandValue softens it when needed.
func (c Card) points() int {
	switch c.Rank {
	case Ace:
		return 11
	case Jack, Queen, King, Ten:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	default:
		return 0
	}
}

// Deck is an ordered pool dealt from the end.
type Deck struct {
	cards []Card
}

// NewDeck builds the full 52-card set, one of each suit and rank.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, s := range suits {
		for _, r := range ranks {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle runs Fisher-Yates in place, drawing j in [0, i] for i from the
// last index down to 1.
func (d *Deck) Shuffle(r *rng.Resolver) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := r.Uniform(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal pops the top card. Rounds never need more than a fraction of the
// deck, so running dry is a programming error.
func (d *Deck) Deal() Card {
	if len(d.cards) == 0 {
		panic("game: deal from empty deck")
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
