package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ledgerweight/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrGameExists      = errors.New("game id already exists")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotWaiting  = errors.New("game is not waiting for players")
	ErrGameFull        = errors.New("game is full")
	ErrDuplicatePlayer = errors.New("player id already seated")
	ErrTooFewPlayers   = errors.New("not enough players to start")
	ErrPlayerNotSeated = errors.New("player is not seated in this game")
)

// WinResult is the win notification emitted once per game.
type WinResult struct {
	WinnerID        string `json:"winner_id"`
	WinnerRoleLabel string `json:"winner_role_label"`
	Reason          string `json:"reason"`
}

// GameSummary is a lobby-listing line for one game.
type GameSummary struct {
	ID          string `json:"id"`
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// session bundles one game with its long-lived engines and the mutex
// that serializes action resolution for it. Engines are constructed once
// at game creation and reused for the game's whole lifetime.
type session struct {
	mu    sync.Mutex
	rng   *rand.Rand
	game  *domain.Game
	turns *TurnEngine
	acts  *Resolver
	stake int64
	won   bool
}

// Service is the game lifecycle manager. The registry is the only state
// shared across games; each game resolves actions under its own lock, so
// distinct games proceed fully in parallel.
type Service struct {
	mu       sync.RWMutex
	rng      *rand.Rand // seeds per-game rngs; guarded by mu
	sessions map[string]*session
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:      rng,
		sessions: make(map[string]*session),
	}
}

// CreateGame allocates a waiting game plus its bound deck and engines.
// An empty id is auto-generated; duplicate ids are rejected.
func (s *Service) CreateGame(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("game_%.8s", uuid.NewString())
	}
	if _, ok := s.sessions[id]; ok {
		return "", ErrGameExists
	}

	rng := rand.New(rand.NewSource(s.rng.Int63()))
	game := domain.NewGame(id, domain.NewDeck(rng))
	turns := NewTurnEngine(game)

	s.sessions[id] = &session{
		rng:   rng,
		game:  game,
		turns: turns,
		acts:  NewResolver(game, turns),
	}
	return id, nil
}

// RemoveGame drops a game from the registry. Its state is discarded;
// nothing is persisted.
func (s *Service) RemoveGame(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Game returns the raw game entity. Callers outside tests should prefer
// Snapshot, which applies the per-viewer projection.
func (s *Service) Game(id string) (*domain.Game, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	return sess.game, true
}

func (s *Service) lookup(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// AddPlayer seats a player in a waiting game at the next free position.
func (s *Service) AddPlayer(gameID, playerID, name string) (Event, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return Event{}, ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	game := sess.game
	if game.State != domain.StateWaiting {
		return Event{}, ErrGameNotWaiting
	}
	if len(game.Players) >= domain.MaxPlayers {
		return Event{}, ErrGameFull
	}
	if game.Player(playerID) != nil {
		return Event{}, ErrDuplicatePlayer
	}

	player := domain.NewPlayer(playerID, name, len(game.Players))
	game.AddPlayer(player)

	return Event{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID: playerID,
			Name:     name,
			Position: player.Position,
		},
	}, nil
}

// RemovePlayer unseats a player from a waiting game.
func (s *Service) RemovePlayer(gameID, playerID string) (Event, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return Event{}, ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.game.State != domain.StateWaiting {
		return Event{}, ErrGameNotWaiting
	}
	if !sess.game.RemovePlayer(playerID) {
		return Event{}, ErrPlayerNotSeated
	}
	return Event{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{PlayerID: playerID},
	}, nil
}

// StartGame assigns roles, builds and deals the deck, and starts the
// sheriff's first turn. The stake is remembered for end-of-game
// settlement.
func (s *Service) StartGame(gameID string, stake int64) ([]Event, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	game := sess.game
	if game.State != domain.StateWaiting {
		return nil, ErrGameNotWaiting
	}
	if len(game.Players) < domain.MinPlayers {
		return nil, ErrTooFewPlayers
	}

	sess.stake = stake
	assignRoles(game, sess.rng)

	game.Deck.Build()
	game.Deck.Shuffle()

	dealSize := InitialHandSmall
	if len(game.Players) > largeTableThreshold {
		dealSize = InitialHandLarge
	}

	events := make([]Event, 0, len(game.Players)+1)
	for _, player := range game.Players {
		for _, card := range game.Deck.DrawMany(dealSize) {
			player.AddCard(card)
		}

		hand := make([]domain.CardView, 0, len(player.Hand))
		for _, card := range player.Hand {
			hand = append(hand, card.View())
		}
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				PlayerID:  player.ID,
				Role:      string(player.Role),
				RoleLabel: player.Role.Label(),
				Hand:      hand,
			},
			Recipients: []string{player.ID},
		})
	}

	game.State = domain.StateInProgress
	game.TurnNumber = 1

	sheriff := game.Players[0]
	sess.turns.StartTurn(sheriff.ID)

	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:        game.ID,
			FirstPlayerID: sheriff.ID,
			TurnNumber:    game.TurnNumber,
		},
	})
	return events, nil
}

// assignRoles builds the role multiset for the headcount, shuffles all
// roles except the sheriff, and assigns them in seat order. The
// first-seated player is always the sheriff.
func assignRoles(game *domain.Game, rng *rand.Rand) {
	roles := domain.RolesForPlayerCount(len(game.Players))

	rest := make([]domain.Role, 0, len(roles)-1)
	for _, role := range roles {
		if role != domain.RoleSheriff {
			rest = append(rest, role)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	final := append([]domain.Role{domain.RoleSheriff}, rest...)
	for i, player := range game.Players {
		player.AssignRole(final[i])
	}
}

// HandleAction resolves one action atomically under the game's lock and
// evaluates win conditions afterwards. The returned events carry what
// the transport layer should broadcast.
func (s *Service) HandleAction(gameID string, kind ActionKind, playerID string, payload ActionPayload) (Result, []Event, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return Result{}, nil, ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := sess.acts.Resolve(kind, playerID, payload)
	if !result.Success {
		return result, nil, nil
	}

	events := []Event{{
		Kind:    EventActionResolved,
		Payload: ActionResolvedPayload{PlayerID: playerID, Event: result.Event},
	}}

	if win := s.checkWin(sess); win != nil {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerID:        win.WinnerID,
				WinnerRoleLabel: win.WinnerRoleLabel,
				Reason:          win.Reason,
				BalanceChanges:  settlementChanges(sess.game, win, sess.stake),
			},
		})
	}
	return result, events, nil
}

// CheckWinCondition evaluates the game's win condition under its lock.
// Returns nil while the game should continue.
func (s *Service) CheckWinCondition(gameID string) (*WinResult, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.checkWin(sess), nil
}

// checkWin applies the ordered win rules and flips the game to Finished
// on the first hit. Emits at most once per game. Caller holds sess.mu.
func (s *Service) checkWin(sess *session) *WinResult {
	game := sess.game
	if game.State != domain.StateInProgress || sess.won {
		return nil
	}

	alive := game.AlivePlayers()

	if len(alive) == 0 {
		sess.won = true
		game.State = domain.StateFinished
		return &WinResult{Reason: "모든 플레이어가 사망했습니다."}
	}

	var sheriff *domain.Player
	outlaws := make([]*domain.Player, 0, len(alive))
	renegades := make([]*domain.Player, 0, 1)
	for _, p := range alive {
		switch p.Role {
		case domain.RoleSheriff:
			sheriff = p
		case domain.RoleOutlaw:
			outlaws = append(outlaws, p)
		case domain.RoleRenegade:
			renegades = append(renegades, p)
		}
	}

	if sheriff == nil {
		if len(outlaws) > 0 {
			sess.won = true
			game.State = domain.StateFinished
			return &WinResult{
				WinnerID:        outlaws[0].ID,
				WinnerRoleLabel: domain.RoleOutlaw.Label(),
				Reason:          "상단주가 사망했습니다.",
			}
		}
		return nil
	}

	if len(outlaws) == 0 {
		if len(renegades) == 1 && len(alive) == 2 {
			sess.won = true
			game.State = domain.StateFinished
			return &WinResult{
				WinnerID:        renegades[0].ID,
				WinnerRoleLabel: domain.RoleRenegade.Label(),
				Reason:          "야망가가 마지막까지 생존했습니다.",
			}
		}
		sess.won = true
		game.State = domain.StateFinished
		return &WinResult{
			WinnerID:        sheriff.ID,
			WinnerRoleLabel: domain.RoleSheriff.Label(),
			Reason:          "상단주 팀이 승리했습니다.",
		}
	}

	return nil
}

// settlementChanges computes the end-of-game wallet deltas: every player
// outside the winning faction pays the stake, and the pot is split
// across the faction with any remainder going to the named winner.
// Changes sum to zero; a drawn game settles nothing.
func settlementChanges(game *domain.Game, win *WinResult, stake int64) map[string]int64 {
	if win == nil || win.WinnerID == "" || stake <= 0 {
		return nil
	}

	winner := game.Player(win.WinnerID)
	if winner == nil {
		return nil
	}

	winners := make([]*domain.Player, 0, len(game.Players))
	losers := make([]*domain.Player, 0, len(game.Players))
	for _, p := range game.Players {
		if sameFaction(p.Role, winner.Role) {
			winners = append(winners, p)
		} else {
			losers = append(losers, p)
		}
	}
	if len(winners) == 0 || len(losers) == 0 {
		return nil
	}

	changes := make(map[string]int64, len(game.Players))
	pot := stake * int64(len(losers))
	for _, p := range losers {
		changes[p.ID] = -stake
	}
	share := pot / int64(len(winners))
	for _, p := range winners {
		changes[p.ID] = share
	}
	changes[winner.ID] += pot - share*int64(len(winners))
	return changes
}

// sameFaction reports whether a role belongs to the winning role's
// faction: the sheriff's faction includes deputies, everyone else wins
// alone with their own role.
func sameFaction(role, winning domain.Role) bool {
	if winning == domain.RoleSheriff {
		return role == domain.RoleSheriff || role == domain.RoleDeputy
	}
	return role == winning
}

// Snapshot projects the game for one viewer.
func (s *Service) Snapshot(gameID, viewerID string) (domain.GameView, error) {
	sess, ok := s.lookup(gameID)
	if !ok {
		return domain.GameView{}, ErrGameNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.Snapshot(viewerID), nil
}

// ListGames returns a summary of every registered game.
func (s *Service) ListGames() []GameSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]GameSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sess.mu.Lock()
		out = append(out, GameSummary{
			ID:          sess.game.ID,
			State:       string(sess.game.State),
			PlayerCount: len(sess.game.Players),
			MaxPlayers:  domain.MaxPlayers,
		})
		sess.mu.Unlock()
	}
	return out
}
