package domain

// State is the lifecycle stage of a game.
type State string

const (
	// StateWaiting is the pre-game state where players can join.
	StateWaiting State = "waiting"
	// StateInProgress is the active state where turns are played.
	StateInProgress State = "in_progress"
	// StateFinished is the state after a win condition fires.
	StateFinished State = "finished"
)

// stateLabels carries the localized display names for game states.
var stateLabels = map[State]string{
	StateWaiting:    "대기 중",
	StateInProgress: "진행 중",
	StateFinished:   "종료",
}

// Label returns the localized display name for the state.
func (s State) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

// TurnPhase is the sub-state within one turn.
type TurnPhase string

const (
	// PhaseDraw is the card-draw step at the start of a turn.
	PhaseDraw TurnPhase = "draw"
	// PhasePlayCard is the step where the active player acts freely.
	PhasePlayCard TurnPhase = "play_card"
	// PhaseRespond is the interrupt where an attacked player may defend.
	PhaseRespond TurnPhase = "respond"
	// PhaseEndTurn is the transient step while control moves on.
	PhaseEndTurn TurnPhase = "end_turn"
)

var phaseLabels = map[TurnPhase]string{
	PhaseDraw:     "드로우",
	PhasePlayCard: "카드 사용",
	PhaseRespond:  "대응",
	PhaseEndTurn:  "턴 종료",
}

// Label returns the localized display name for the phase.
func (p TurnPhase) Label() string {
	if label, ok := phaseLabels[p]; ok {
		return label
	}
	return string(p)
}

// Roster limits.
const (
	MinPlayers = 4
	MaxPlayers = 7
)

// Game holds the full authoritative state of one match. Insertion order
// of Players is seating order.
type Game struct {
	ID              string
	State           State
	Players         []*Player
	Deck            *Deck
	CurrentPlayerID string
	Phase           TurnPhase
	TurnNumber      int
	LastEvent       string // single slot, overwritten on every event
}

// NewGame creates a waiting game bound to the given deck.
func NewGame(id string, deck *Deck) *Game {
	return &Game{
		ID:    id,
		State: StateWaiting,
		Deck:  deck,
		Phase: PhaseDraw,
	}
}

// AddPlayer seats a player. Fails when the roster is full or the id is
// already seated.
func (g *Game) AddPlayer(player *Player) bool {
	if len(g.Players) >= MaxPlayers {
		return false
	}
	if g.Player(player.ID) != nil {
		return false
	}
	g.Players = append(g.Players, player)
	return true
}

// RemovePlayer unseats a player before the game starts and closes the
// position gap. Fails once the game is in progress; seats are then
// permanent so distance stays well-defined.
func (g *Game) RemovePlayer(id string) bool {
	if g.State != StateWaiting {
		return false
	}
	for i, p := range g.Players {
		if p.ID == id {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			for j, rest := range g.Players {
				rest.Position = j
			}
			return true
		}
	}
	return false
}

// Player returns the seated player with the given id, or nil.
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByPosition returns the player at the given seat, or nil.
func (g *Game) PlayerByPosition(position int) *Player {
	for _, p := range g.Players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

// AlivePlayers returns the living players in seating order.
func (g *Game) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// CurrentPlayer returns the player whose turn it is, or nil.
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentPlayerID == "" {
		return nil
	}
	return g.Player(g.CurrentPlayerID)
}

// NextLivingPlayer returns the next living player after the given one in
// ascending seat order, wrapping around. Returns nil when fewer than two
// players are alive or the reference player is unknown.
func (g *Game) NextLivingPlayer(fromID string) *Player {
	from := g.Player(fromID)
	if from == nil {
		return nil
	}
	alive := g.AlivePlayers()
	if len(alive) <= 1 {
		return nil
	}
	total := len(g.Players)
	for step := 1; step <= total; step++ {
		candidate := g.PlayerByPosition((from.Position + step) % total)
		if candidate != nil && candidate.Alive && candidate.ID != fromID {
			return candidate
		}
	}
	return nil
}

// Distance is the circular seating distance between two players: the
// smaller of the clockwise and counter-clockwise seat gaps over all
// seats (dead players keep their seat), floored at 1. Zero only when
// both arguments are the same player.
func (g *Game) Distance(from, to *Player) int {
	if from.ID == to.ID {
		return 0
	}
	total := len(g.Players)
	gap := from.Position - to.Position
	if gap < 0 {
		gap = -gap
	}
	if other := total - gap; other < gap {
		gap = other
	}
	if gap < 1 {
		gap = 1
	}
	return gap
}

// SetEvent overwrites the single-slot last-event string.
func (g *Game) SetEvent(message string) {
	g.LastEvent = message
}
