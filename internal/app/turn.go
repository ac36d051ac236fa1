package app

import (
	"fmt"

	"ledgerweight/internal/domain"
)

// TurnEngine drives one game's phase state machine. It is created once
// per game and lives for the game's whole lifetime. It carries no
// locking of its own; the owning session serializes access.
type TurnEngine struct {
	game *domain.Game

	// responderID is the player allowed to act while the phase is
	// Respond. Empty outside the respond interrupt.
	responderID string
}

// NewTurnEngine binds an engine to a game.
func NewTurnEngine(game *domain.Game) *TurnEngine {
	return &TurnEngine{game: game}
}

// StartTurn makes the given player the active player and runs their draw
// phase. Requires the game in progress and the player alive.
func (t *TurnEngine) StartTurn(playerID string) bool {
	player := t.game.Player(playerID)
	if player == nil || !player.Alive {
		return false
	}
	if t.game.State != domain.StateInProgress {
		return false
	}

	t.game.CurrentPlayerID = playerID
	t.game.Phase = domain.PhaseDraw
	t.responderID = ""
	return t.processDrawPhase(playerID)
}

// processDrawPhase draws the flat per-turn card count for the active
// player, recycling the discard pile transparently, then advances to the
// play phase. A short or empty draw is not an error.
func (t *TurnEngine) processDrawPhase(playerID string) bool {
	if t.game.CurrentPlayerID != playerID || t.game.Phase != domain.PhaseDraw {
		return false
	}
	player := t.game.Player(playerID)
	if player == nil || !player.Alive {
		return false
	}

	drawn := t.game.Deck.DrawMany(DrawPhaseCount)
	for _, card := range drawn {
		player.AddCard(card)
	}
	if len(drawn) > 0 {
		t.game.SetEvent(fmt.Sprintf("%s이(가) 카드 %d장을 뽑았습니다.", player.Name, len(drawn)))
	}

	t.game.Phase = domain.PhasePlayCard
	return true
}

// BeginRespond suspends the active player's turn and grants the attacked
// player the right to act. The current player id does not change.
func (t *TurnEngine) BeginRespond(targetID string) bool {
	target := t.game.Player(targetID)
	if target == nil || !target.Alive {
		return false
	}
	t.game.Phase = domain.PhaseRespond
	t.responderID = targetID
	return true
}

// ReturnToPlay ends the respond interrupt and hands control back to the
// active player.
func (t *TurnEngine) ReturnToPlay() bool {
	if t.game.CurrentPlayerID == "" {
		return false
	}
	t.game.Phase = domain.PhasePlayCard
	t.responderID = ""
	return true
}

// Responder returns the player allowed to act during the respond
// interrupt, or "" outside of it.
func (t *TurnEngine) Responder() string {
	return t.responderID
}

// IsPlayerTurn reports whether it is the given player's turn.
func (t *TurnEngine) IsPlayerTurn(playerID string) bool {
	return t.game.CurrentPlayerID == playerID
}

// CanPlayCard reports whether the player may freely play a card now.
func (t *TurnEngine) CanPlayCard(playerID string) bool {
	if !t.IsPlayerTurn(playerID) {
		return false
	}
	if t.game.Phase != domain.PhasePlayCard {
		return false
	}
	player := t.game.Player(playerID)
	return player != nil && player.Alive
}

// CanEndTurn reports whether the player may end their turn now.
func (t *TurnEngine) CanEndTurn(playerID string) bool {
	if !t.IsPlayerTurn(playerID) {
		return false
	}
	return t.game.Phase == domain.PhasePlayCard || t.game.Phase == domain.PhaseRespond
}

// EndTurn closes the active player's turn and starts the next living
// player's turn in seating order. Returns false when the guard fails or
// no next player exists (fewer than two alive); the caller is expected
// to have evaluated win conditions already in that case.
func (t *TurnEngine) EndTurn(playerID string) bool {
	if !t.CanEndTurn(playerID) {
		return false
	}
	player := t.game.Player(playerID)
	if player == nil {
		return false
	}

	t.game.Phase = domain.PhaseEndTurn
	t.responderID = ""
	t.game.SetEvent(fmt.Sprintf("%s의 턴이 종료되었습니다.", player.Name))

	next := t.game.NextLivingPlayer(playerID)
	if next == nil {
		return false
	}
	t.game.TurnNumber++
	return t.StartTurn(next.ID)
}
