package app

import (
	"fmt"
	"math/rand"
	"testing"

	"ledgerweight/internal/domain"
)

// newRunningGame builds an in-progress game with assigned roles and a
// shuffled deck, then starts the first player's turn. No opening hands
// are dealt; tests inject the cards they need.
func newRunningGame(n int) (*domain.Game, *TurnEngine, *Resolver) {
	g := domain.NewGame("g1", domain.NewDeck(rand.New(rand.NewSource(1))))
	for i := 0; i < n; i++ {
		g.AddPlayer(domain.NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("플레이어%d", i), i))
	}
	roles := domain.RolesForPlayerCount(n)
	for i, p := range g.Players {
		p.AssignRole(roles[i])
	}
	g.Deck.Build()
	g.Deck.Shuffle()
	g.State = domain.StateInProgress
	g.TurnNumber = 1

	turns := NewTurnEngine(g)
	resolver := NewResolver(g, turns)
	turns.StartTurn("p0")
	return g, turns, resolver
}

func TestStartTurnDrawsAndAdvances(t *testing.T) {
	g, _, _ := newRunningGame(4)

	if g.CurrentPlayerID != "p0" {
		t.Fatalf("CurrentPlayerID = %s, want p0", g.CurrentPlayerID)
	}
	if g.Phase != domain.PhasePlayCard {
		t.Fatalf("Phase = %s, want %s", g.Phase, domain.PhasePlayCard)
	}
	if got := g.Player("p0").HandCount(); got != DrawPhaseCount {
		t.Fatalf("HandCount = %d, want %d", got, DrawPhaseCount)
	}
	if got := g.Deck.DrawCount(); got != domain.DeckSize()-DrawPhaseCount {
		t.Fatalf("DrawCount = %d, want %d", got, domain.DeckSize()-DrawPhaseCount)
	}
}

func TestStartTurnRejectsDeadPlayer(t *testing.T) {
	g, turns, _ := newRunningGame(4)
	g.Player("p1").TakeDamage(10)

	if turns.StartTurn("p1") {
		t.Fatal("StartTurn should fail for a dead player")
	}
}

func TestEndTurnAdvancesToNextLiving(t *testing.T) {
	g, turns, _ := newRunningGame(4)

	if !turns.EndTurn("p0") {
		t.Fatal("EndTurn failed")
	}
	if g.CurrentPlayerID != "p1" {
		t.Fatalf("CurrentPlayerID = %s, want p1", g.CurrentPlayerID)
	}
	if g.TurnNumber != 2 {
		t.Fatalf("TurnNumber = %d, want 2", g.TurnNumber)
	}
	if got := g.Player("p1").HandCount(); got != DrawPhaseCount {
		t.Fatalf("next player HandCount = %d, want %d", got, DrawPhaseCount)
	}
}

func TestEndTurnSkipsDeadSeats(t *testing.T) {
	g, turns, _ := newRunningGame(4)
	g.Player("p1").TakeDamage(10)

	if !turns.EndTurn("p0") {
		t.Fatal("EndTurn failed")
	}
	if g.CurrentPlayerID != "p2" {
		t.Fatalf("CurrentPlayerID = %s, want p2", g.CurrentPlayerID)
	}
}

func TestEndTurnFailsWithoutSuccessor(t *testing.T) {
	g, turns, _ := newRunningGame(4)
	g.Player("p1").TakeDamage(10)
	g.Player("p2").TakeDamage(10)
	g.Player("p3").TakeDamage(10)

	if turns.EndTurn("p0") {
		t.Fatal("EndTurn should fail when no living successor exists")
	}
}

func TestRespondInterrupt(t *testing.T) {
	g, turns, _ := newRunningGame(4)

	if !turns.BeginRespond("p2") {
		t.Fatal("BeginRespond failed")
	}
	if g.Phase != domain.PhaseRespond {
		t.Fatalf("Phase = %s, want %s", g.Phase, domain.PhaseRespond)
	}
	if turns.Responder() != "p2" {
		t.Fatalf("Responder = %s, want p2", turns.Responder())
	}
	// The active player does not change during the interrupt.
	if g.CurrentPlayerID != "p0" {
		t.Fatalf("CurrentPlayerID = %s, want p0", g.CurrentPlayerID)
	}

	if !turns.ReturnToPlay() {
		t.Fatal("ReturnToPlay failed")
	}
	if g.Phase != domain.PhasePlayCard || turns.Responder() != "" {
		t.Fatalf("interrupt not cleared: phase=%s responder=%q", g.Phase, turns.Responder())
	}
}

func TestCanPlayCardGuards(t *testing.T) {
	_, turns, _ := newRunningGame(4)

	if turns.CanPlayCard("p1") {
		t.Fatal("CanPlayCard should be false off-turn")
	}
	if !turns.CanPlayCard("p0") {
		t.Fatal("CanPlayCard should be true for the active player in play phase")
	}

	turns.BeginRespond("p1")
	if turns.CanPlayCard("p0") {
		t.Fatal("CanPlayCard should be false during the respond interrupt")
	}
}
