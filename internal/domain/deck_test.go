package domain

import (
	"math/rand"
	"testing"
)

func TestBuildDeckComposition(t *testing.T) {
	deck := BuildDeck()
	if len(deck) != DeckSize() {
		t.Fatalf("len(deck) = %d, want %d", len(deck), DeckSize())
	}
	if DeckSize() != 63 {
		t.Fatalf("DeckSize() = %d, want 63", DeckSize())
	}

	counts := make(map[CardType]int)
	seen := make(map[string]bool)
	for _, c := range deck {
		counts[c.Type]++
		if seen[c.ID] {
			t.Fatalf("duplicate card id: %s", c.ID)
		}
		seen[c.ID] = true
	}

	tests := []struct {
		typ  CardType
		want int
	}{
		{CardBang, 25},
		{CardMissed, 12},
		{CardBeer, 6},
		{CardGatling, 1},
		{CardIndians, 2},
		{CardDuel, 3},
		{CardVolcanic, 2},
		{CardWinchester, 1},
		{CardScope, 1},
		{CardBarrel, 1},
		{CardMustang, 1},
		{CardJail, 3},
		{CardPanic, 4},
		{CardSaloon, 1},
		{CardGeneralStore, 1},
	}
	for _, tt := range tests {
		if counts[tt.typ] != tt.want {
			t.Fatalf("count(%s) = %d, want %d", tt.typ, counts[tt.typ], tt.want)
		}
	}
}

func TestBuildDeckSuitAndRank(t *testing.T) {
	for _, c := range BuildDeck() {
		if c.HasSuitAndRank() {
			if c.Suit == "" || c.Rank == "" {
				t.Fatalf("card %s should carry suit and rank", c.ID)
			}
		} else if c.Suit != "" || c.Rank != "" {
			t.Fatalf("card %s should not carry suit or rank", c.ID)
		}
	}
}

func TestBuildDeckRankCyclesFastest(t *testing.T) {
	deck := BuildDeck()

	wantRanks := []Rank{RankAce, RankKing, RankQueen, RankJack}
	for i := 0; i < 4; i++ {
		if deck[i].Suit != SuitSpades {
			t.Fatalf("deck[%d].Suit = %s, want %s", i, deck[i].Suit, SuitSpades)
		}
		if deck[i].Rank != wantRanks[i] {
			t.Fatalf("deck[%d].Rank = %s, want %s", i, deck[i].Rank, wantRanks[i])
		}
	}
	if deck[4].Suit != SuitClubs {
		t.Fatalf("deck[4].Suit = %s, want %s", deck[4].Suit, SuitClubs)
	}
}

func TestDrawOneRecyclesDiscard(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	deck.Build()
	deck.Shuffle()

	drained := deck.DrawMany(DeckSize())
	if len(drained) != DeckSize() {
		t.Fatalf("drained %d cards, want %d", len(drained), DeckSize())
	}
	if card := deck.DrawOne(); card != nil {
		t.Fatalf("DrawOne from empty piles = %v, want nil", card)
	}

	deck.Discard(drained[0])
	deck.Discard(drained[1])
	top := drained[2]
	deck.Discard(top)

	first := deck.DrawOne()
	if first == nil {
		t.Fatal("DrawOne should recycle the discard pile")
	}
	if first.ID == top.ID {
		t.Fatalf("recycling must not draw the visible top card %s", top.ID)
	}
	if got := deck.DiscardTop(); got == nil || got.ID != top.ID {
		t.Fatalf("DiscardTop = %v, want %s", got, top.ID)
	}
	if deck.DiscardCount() != 1 {
		t.Fatalf("DiscardCount = %d, want 1", deck.DiscardCount())
	}

	second := deck.DrawOne()
	if second == nil || second.ID == first.ID || second.ID == top.ID {
		t.Fatalf("unexpected second draw: %v", second)
	}

	// Only the preserved top remains and it never re-enters the draw pile.
	if card := deck.DrawOne(); card != nil {
		t.Fatalf("DrawOne = %v, want nil once only the top remains", card)
	}
}

func TestDrawManyStopsEarly(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	deck.Build()

	cards := deck.DrawMany(100)
	if len(cards) != DeckSize() {
		t.Fatalf("DrawMany(100) returned %d cards, want %d", len(cards), DeckSize())
	}
	if deck.DrawCount() != 0 {
		t.Fatalf("DrawCount = %d, want 0", deck.DrawCount())
	}
}
