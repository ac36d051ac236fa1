package domain

import "math/rand"

// Deck owns one game's draw and discard piles. Running out of cards is
// never an error at this layer: draws return nil/short results and the
// discard pile is recycled transparently when the draw pile empties.
type Deck struct {
	rng     *rand.Rand
	draw    []*Card
	discard []*Card
}

// NewDeck returns an empty deck bound to the given rng.
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{rng: rng}
}

// Build replaces both piles with a freshly built, unshuffled draw pile.
func (d *Deck) Build() {
	d.draw = BuildDeck()
	d.discard = nil
}

// Shuffle permutes the draw pile in place.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// DrawOne removes and returns the head of the draw pile. When the pile
// is empty the discard pile is recycled first; nil is returned only when
// no card can be produced at all.
func (d *Deck) DrawOne() *Card {
	if len(d.draw) == 0 {
		d.Recycle()
	}
	if len(d.draw) == 0 {
		return nil
	}
	card := d.draw[0]
	d.draw = d.draw[1:]
	return card
}

// DrawMany draws up to n cards, stopping early without error if the
// piles run dry.
func (d *Deck) DrawMany(n int) []*Card {
	cards := make([]*Card, 0, n)
	for i := 0; i < n; i++ {
		card := d.DrawOne()
		if card == nil {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Discard appends a card to the discard pile; the pile top is the most
// recently discarded card.
func (d *Deck) Discard(card *Card) {
	d.discard = append(d.discard, card)
}

// DiscardMany appends cards to the discard pile in order.
func (d *Deck) DiscardMany(cards []*Card) {
	d.discard = append(d.discard, cards...)
}

// DiscardTop returns the top of the discard pile without removing it,
// or nil when the pile is empty.
func (d *Deck) DiscardTop() *Card {
	if len(d.discard) == 0 {
		return nil
	}
	return d.discard[len(d.discard)-1]
}

// Recycle rebuilds the draw pile from the discard pile, keeping the
// current top card visible as the sole remaining discard, and reshuffles.
// No-op when the discard pile is empty.
func (d *Deck) Recycle() {
	if len(d.discard) == 0 {
		return
	}
	top := d.discard[len(d.discard)-1]
	d.draw = append(d.draw, d.discard[:len(d.discard)-1]...)
	d.discard = []*Card{top}
	d.Shuffle()
}

// DrawCount returns the number of cards left in the draw pile.
func (d *Deck) DrawCount() int { return len(d.draw) }

// DiscardCount returns the number of cards in the discard pile.
func (d *Deck) DiscardCount() int { return len(d.discard) }
