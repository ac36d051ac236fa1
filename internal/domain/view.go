package domain

// Per-viewer projections. The canonical Game/Player structs stay fully
// populated; these views are derived at serialization time and never
// mutate the entities. A viewer sees their own hand and role; everyone
// else's hand is reported as a count and their role is omitted.

// CardView is the wire representation of a card.
type CardView struct {
	ID          string `json:"id"`
	Type        string `json:"card_type"`
	Name        string `json:"name"`
	Suit        string `json:"suit,omitempty"`
	Rank        string `json:"rank,omitempty"`
	Range       int    `json:"range"`
	Description string `json:"description"`
}

// PlayerView is the wire representation of a player as seen by one viewer.
type PlayerView struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Role      string              `json:"role,omitempty"`
	RoleLabel string              `json:"role_label,omitempty"`
	Wealth    int                 `json:"wealth"`
	MaxWealth int                 `json:"max_wealth"`
	Range     int                 `json:"range"`
	HandCount int                 `json:"hand_count"`
	Hand      []CardView          `json:"hand,omitempty"`
	Equipment map[string]CardView `json:"equipment"`
	Alive     bool                `json:"is_alive"`
	Position  int                 `json:"position"`
}

// GameView is the wire representation of the game as seen by one viewer.
type GameView struct {
	ID              string       `json:"id"`
	State           string       `json:"state"`
	Players         []PlayerView `json:"players"`
	DeckCount       int          `json:"deck_count"`
	DiscardTop      *CardView    `json:"discard_top"`
	CurrentPlayerID string       `json:"current_player_id"`
	Phase           string       `json:"turn_phase"`
	TurnNumber      int          `json:"turn_number"`
	LastEvent       string       `json:"last_event"`
}

// View projects the card for the wire.
func (c *Card) View() CardView {
	view := CardView{
		ID:          c.ID,
		Type:        string(c.Type),
		Name:        c.Name,
		Range:       c.Range,
		Description: c.Description,
	}
	if c.Suit != "" {
		view.Suit = string(c.Suit)
	}
	if c.Rank != "" {
		view.Rank = string(c.Rank)
	}
	return view
}

// View projects the player as seen by viewerID.
func (p *Player) View(viewerID string) PlayerView {
	view := PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Wealth:    p.Wealth,
		MaxWealth: p.MaxWealth,
		Range:     p.EffectiveRange(),
		HandCount: p.HandCount(),
		Equipment: make(map[string]CardView, len(p.Equipment)),
		Alive:     p.Alive,
		Position:  p.Position,
	}
	for slot, card := range p.Equipment {
		view.Equipment[slot] = card.View()
	}
	if p.ID == viewerID {
		view.Role = string(p.Role)
		view.RoleLabel = p.Role.Label()
		view.Hand = make([]CardView, 0, len(p.Hand))
		for _, card := range p.Hand {
			view.Hand = append(view.Hand, card.View())
		}
	}
	return view
}

// Snapshot projects the whole game as seen by viewerID.
func (g *Game) Snapshot(viewerID string) GameView {
	view := GameView{
		ID:              g.ID,
		State:           string(g.State),
		Players:         make([]PlayerView, 0, len(g.Players)),
		CurrentPlayerID: g.CurrentPlayerID,
		Phase:           string(g.Phase),
		TurnNumber:      g.TurnNumber,
		LastEvent:       g.LastEvent,
	}
	for _, p := range g.Players {
		view.Players = append(view.Players, p.View(viewerID))
	}
	if g.Deck != nil {
		view.DeckCount = g.Deck.DrawCount()
		if top := g.Deck.DiscardTop(); top != nil {
			topView := top.View()
			view.DiscardTop = &topView
		}
	}
	return view
}
