package app

import "ledgerweight/internal/domain"

// EventKind identifies emitted engine events for transport dispatch.
type EventKind string

const (
	EventPlayerJoined   EventKind = "player_joined"
	EventPlayerLeft     EventKind = "player_left"
	EventGameStarted    EventKind = "game_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventActionResolved EventKind = "action_resolved"
	EventGameEnded      EventKind = "game_ended"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player ids; empty means broadcast
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

type GameStartedPayload struct {
	GameID        string `json:"game_id"`
	FirstPlayerID string `json:"first_player_id"`
	TurnNumber    int    `json:"turn_number"`
}

// HandDealtPayload is sent privately: it carries the owner's role and
// opening hand, which no other player may see.
type HandDealtPayload struct {
	PlayerID  string            `json:"player_id"`
	Role      string            `json:"role"`
	RoleLabel string            `json:"role_label"`
	Hand      []domain.CardView `json:"hand"`
}

type ActionResolvedPayload struct {
	PlayerID string `json:"player_id"`
	Event    string `json:"event"`
}

// GameEndedPayload is the win notification plus the wallet settlement
// the transport adapter applies through its economy port.
type GameEndedPayload struct {
	WinnerID        string           `json:"winner_id"`
	WinnerRoleLabel string           `json:"winner_role_label"`
	Reason          string           `json:"reason"`
	BalanceChanges  map[string]int64 `json:"balance_changes"`
}
