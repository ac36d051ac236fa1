package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ledgerweight/internal/app"
	"ledgerweight/internal/app/rejoin"
	"ledgerweight/internal/config"
	"ledgerweight/internal/domain"
	"ledgerweight/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	matchLabelGame = "ledgerweight"

	// emptyGraceTicks is how long (in ticks, 1/s) an in-progress match
	// with no connected players keeps its state for rejoins.
	emptyGraceTicks = 300
)

// MatchLabel is the JSON label Nakama indexes for match listing queries.
type MatchLabel struct {
	Game  string `json:"game"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	GameID           string                      `json:"game_id"`
	OwnerID          string                      `json:"owner_id"` // first joined player; only they may start the game
	Tick             int64                       `json:"tick"`
	TurnKey          string                      `json:"turn_key"`           // current player id + turn number, for timer resets
	TurnDeadlineTick int64                       `json:"turn_deadline_tick"` // 0 means no timer armed
	EmptySinceTick   int64                       `json:"empty_since_tick"`   // 0 means someone is connected
	Presences        map[string]runtime.Presence `json:"-"`
	Economy          ports.EconomyPort           `json:"-"`
}

// errorMessage is sent privately on OpGameError.
type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handDealtMessage wraps the private deal with the transport-level
// rejoin token for the recipient's seat.
type handDealtMessage struct {
	app.HandDealtPayload
	RejoinToken string `json:"rejoin_token,omitempty"`
}

type matchHandler struct {
	games  *app.Service
	rejoin *rejoin.Service
}

func newMatchHandler(games *app.Service, rejoinSvc *rejoin.Service) *matchHandler {
	return &matchHandler{games: games, rejoin: rejoinSvc}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	gameID, err := mh.games.CreateGame("")
	if err != nil {
		logger.Error("MatchInit: Failed to create game: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		GameID:    gameID,
		Presences: make(map[string]runtime.Presence),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	label := MatchLabel{
		Game:  matchLabelGame,
		Open:  domain.MaxPlayers,
		Phase: "lobby",
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	game, ok := mh.games.Game(matchState.GameID)
	if !ok {
		return state, false, "game not found"
	}

	switch game.State {
	case domain.StateWaiting:
		if len(game.Players) >= domain.MaxPlayers {
			return state, false, "Match full"
		}
		return state, true, ""
	case domain.StateInProgress:
		// Mid-game joins are seat reclaims only.
		userID := presence.GetUserId()
		if game.Player(userID) == nil {
			return state, false, "Game already started"
		}
		if mh.rejoin != nil {
			claims, err := mh.rejoin.Validate(metadata["rejoin_token"])
			if err != nil {
				logger.Warn("MatchJoinAttempt: Rejected rejoin for %s: %v", userID, err)
				return state, false, "Invalid rejoin token"
			}
			if claims.GameID != matchState.GameID || claims.UserID != userID {
				return state, false, "Rejoin token does not match this seat"
			}
		}
		return state, true, ""
	default:
		return state, false, "Game already finished"
	}
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	game, hasGame := mh.games.Game(matchState.GameID)

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.EmptySinceTick = 0

		if !hasGame || game.State != domain.StateWaiting || game.Player(userID) != nil {
			// Reclaimed seat; the snapshot below restores their view.
			continue
		}

		name := p.GetUsername()
		if name == "" {
			name = userID
		}
		ev, err := mh.games.AddPlayer(matchState.GameID, userID, name)
		if err != nil {
			logger.Warn("MatchJoin: Could not seat %s: %v", userID, err)
			continue
		}
		if matchState.OwnerID == "" {
			matchState.OwnerID = userID
		}
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshots(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	game, hasGame := mh.games.Game(matchState.GameID)

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		// Seats are only released before the game starts; mid-game the
		// seat stays reserved for a rejoin.
		if hasGame && game.State == domain.StateWaiting {
			ev, err := mh.games.RemovePlayer(matchState.GameID, userID)
			if err != nil {
				continue
			}
			if matchState.OwnerID == userID {
				matchState.OwnerID = ""
				for _, remaining := range game.Players {
					matchState.OwnerID = remaining.ID
					break
				}
			}
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
		}
	}

	if len(matchState.Presences) == 0 {
		if !hasGame || game.State != domain.StateInProgress {
			logger.Info("MatchLeave: Terminating empty match.")
			mh.games.RemoveGame(matchState.GameID)
			return nil
		}
		matchState.EmptySinceTick = tick
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpUseCard:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg, app.ActionUseCard)
		case OpRespondAttack:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg, app.ActionRespondAttack)
		case OpEndTurn:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg, app.ActionEndTurn)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.enforceTurnTimer(ctx, matchState, dispatcher, logger)

	if matchState.EmptySinceTick > 0 && tick-matchState.EmptySinceTick >= emptyGraceTicks {
		logger.Info("MatchLoop: Terminating abandoned match %s.", matchState.GameID)
		mh.games.RemoveGame(matchState.GameID)
		return nil
	}

	return matchState
}

// enforceTurnTimer force-ends the current turn when the configured turn
// duration elapses without the player acting.
func (mh *matchHandler) enforceTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	cfg := config.GetGameConfig()
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return
	}

	game, ok := mh.games.Game(state.GameID)
	if !ok || game.State != domain.StateInProgress || game.CurrentPlayerID == "" {
		state.TurnKey = ""
		state.TurnDeadlineTick = 0
		return
	}

	turnKey := fmt.Sprintf("%s#%d", game.CurrentPlayerID, game.TurnNumber)
	if turnKey != state.TurnKey {
		state.TurnKey = turnKey
		state.TurnDeadlineTick = state.Tick + int64(cfg.TurnDurationSeconds)
		return
	}
	if state.Tick < state.TurnDeadlineTick {
		return
	}

	expiredPlayer := game.CurrentPlayerID
	logger.Info("enforceTurnTimer: Turn timed out for %s, ending turn.", expiredPlayer)

	result, events, err := mh.games.HandleAction(state.GameID, app.ActionEndTurn, expiredPlayer, app.ActionPayload{})
	if err != nil || !result.Success {
		// Cannot force progress in this phase; re-arm and try next tick.
		state.TurnDeadlineTick = state.Tick + int64(cfg.TurnDurationSeconds)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastSnapshots(state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	logger.Info("StartGame: Request received from %s (owner=%s)", senderID, state.OwnerID)

	if senderID != state.OwnerID {
		logger.Warn("StartGame: User %s tried to start game but is not owner", senderID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "방장만 게임을 시작할 수 있습니다.")
		return
	}

	stake := config.GetBaseStake("")

	events, err := mh.games.StartGame(state.GameID, stake)
	if err != nil {
		logger.Warn("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastSnapshots(state, dispatcher, logger)
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, kind app.ActionKind) {
	senderID := msg.GetUserId()

	var payload app.ActionPayload
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &payload); err != nil {
			logger.Warn("handleAction: Invalid payload from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "잘못된 요청입니다.")
			return
		}
	}

	result, events, err := mh.games.HandleAction(state.GameID, kind, senderID, payload)
	if err != nil {
		logger.Error("handleAction: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 404, err.Error())
		return
	}
	if !result.Success {
		mh.sendError(state, dispatcher, logger, senderID, 400, result.Message)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastSnapshots(state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvent maps an engine event to its opcode and dispatches it,
// honoring targeted recipients.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	payload := ev.Payload

	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
	case app.EventGameStarted:
		opCode = OpGameStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
		if dealt, ok := ev.Payload.(app.HandDealtPayload); ok {
			msg := handDealtMessage{HandDealtPayload: dealt}
			if mh.rejoin != nil {
				token, err := mh.rejoin.Generate(dealt.PlayerID, state.GameID)
				if err != nil {
					logger.Warn("broadcastEvent: Could not issue rejoin token for %s: %v", dealt.PlayerID, err)
				} else {
					msg.RejoinToken = token
				}
			}
			payload = msg
		}
	case app.EventActionResolved:
		opCode = OpActionResult
	case app.EventGameEnded:
		opCode = OpGameEnded
		if ended, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settle(ctx, state, logger, ended)
		}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Targeted events go only to connected recipients; if none of the
	// intended recipients are connected the event must not leak to the
	// rest of the match.
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settle applies the end-of-game wallet deltas through the economy port.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.GameEndedPayload) {
	if state.Economy == nil || len(ended.BalanceChanges) == 0 {
		return
	}

	updates := make([]ports.WalletUpdate, 0, len(ended.BalanceChanges))
	for userID, amount := range ended.BalanceChanges {
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
				"reason":   "game_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to update balances: %v", err)
	}
}

// broadcastSnapshots sends every connected user their own projection of
// the game. Hands and roles other than the viewer's own are omitted.
func (mh *matchHandler) broadcastSnapshots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for userID, presence := range state.Presences {
		snapshot, err := mh.games.Snapshot(state.GameID, userID)
		if err != nil {
			logger.Error("broadcastSnapshots: %v", err)
			return
		}
		bytes, err := json.Marshal(snapshot)
		if err != nil {
			logger.Error("broadcastSnapshots: Failed to marshal snapshot: %v", err)
			return
		}
		dispatcher.BroadcastMessage(OpStateSnapshot, bytes, []runtime.Presence{presence}, nil, true)
	}
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(errorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error message: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := MatchLabel{Game: matchLabelGame, Phase: "lobby"}

	if game, ok := mh.games.Game(state.GameID); ok {
		switch game.State {
		case domain.StateWaiting:
			label.Open = domain.MaxPlayers - len(game.Players)
		case domain.StateInProgress:
			label.Phase = "playing"
		default:
			label.Phase = "finished"
		}
	}

	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		mh.games.RemoveGame(matchState.GameID)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
