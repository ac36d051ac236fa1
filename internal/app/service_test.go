package app

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"ledgerweight/internal/domain"
)

func newTestService() *Service {
	return NewService(rand.New(rand.NewSource(1)))
}

// seatPlayers creates a game and seats n players named p0..pN-1.
func seatPlayers(t *testing.T, svc *Service, n int) string {
	t.Helper()
	id, err := svc.CreateGame("")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	for i := 0; i < n; i++ {
		if _, err := svc.AddPlayer(id, fmt.Sprintf("p%d", i), fmt.Sprintf("플레이어%d", i)); err != nil {
			t.Fatalf("AddPlayer(p%d): %v", i, err)
		}
	}
	return id
}

func startedGame(t *testing.T, svc *Service, n int) string {
	t.Helper()
	id := seatPlayers(t, svc, n)
	if _, err := svc.StartGame(id, 100); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return id
}

func TestCreateGameGeneratesID(t *testing.T) {
	svc := newTestService()

	id, err := svc.CreateGame("")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if !strings.HasPrefix(id, "game_") {
		t.Fatalf("id = %s, want game_ prefix", id)
	}

	if _, err := svc.CreateGame(id); err != ErrGameExists {
		t.Fatalf("duplicate CreateGame err = %v, want %v", err, ErrGameExists)
	}
}

func TestAddPlayerErrors(t *testing.T) {
	svc := newTestService()

	if _, err := svc.AddPlayer("missing", "p0", "x"); err != ErrGameNotFound {
		t.Fatalf("err = %v, want %v", err, ErrGameNotFound)
	}

	id := seatPlayers(t, svc, domain.MaxPlayers)
	if _, err := svc.AddPlayer(id, "p0", "dup"); err != ErrDuplicatePlayer {
		t.Fatalf("err = %v, want %v", err, ErrDuplicatePlayer)
	}
	if _, err := svc.AddPlayer(id, "extra", "extra"); err != ErrGameFull {
		t.Fatalf("err = %v, want %v", err, ErrGameFull)
	}
}

func TestStartGameRequiresMinimumPlayers(t *testing.T) {
	svc := newTestService()
	id := seatPlayers(t, svc, 3)

	if _, err := svc.StartGame(id, 100); err != ErrTooFewPlayers {
		t.Fatalf("err = %v, want %v", err, ErrTooFewPlayers)
	}
}

func TestStartGameDealsHands(t *testing.T) {
	tests := []struct {
		players  int
		dealSize int
	}{
		{players: 4, dealSize: InitialHandSmall},
		{players: 5, dealSize: InitialHandLarge},
		{players: 7, dealSize: InitialHandLarge},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_players", tt.players), func(t *testing.T) {
			svc := newTestService()
			id := startedGame(t, svc, tt.players)
			game, _ := svc.Game(id)

			if game.State != domain.StateInProgress {
				t.Fatalf("State = %s, want %s", game.State, domain.StateInProgress)
			}
			if game.CurrentPlayerID != "p0" {
				t.Fatalf("CurrentPlayerID = %s, want the first seat", game.CurrentPlayerID)
			}

			// The first player has already drawn for their opening turn.
			for _, p := range game.Players {
				want := tt.dealSize
				if p.ID == "p0" {
					want += DrawPhaseCount
				}
				if p.HandCount() != want {
					t.Fatalf("%s HandCount = %d, want %d", p.ID, p.HandCount(), want)
				}
			}

			dealt := tt.players*tt.dealSize + DrawPhaseCount
			if got := game.Deck.DrawCount(); got != domain.DeckSize()-dealt {
				t.Fatalf("DrawCount = %d, want %d", got, domain.DeckSize()-dealt)
			}
		})
	}
}

func TestStartGameAssignsRoles(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 5)
	game, _ := svc.Game(id)

	if game.Players[0].Role != domain.RoleSheriff {
		t.Fatalf("first seat role = %s, want %s", game.Players[0].Role, domain.RoleSheriff)
	}

	want := make(map[domain.Role]int)
	for _, r := range domain.RolesForPlayerCount(5) {
		want[r]++
	}
	got := make(map[domain.Role]int)
	for _, p := range game.Players {
		got[p.Role]++
		if p.Wealth != p.Role.StartingWealth() {
			t.Fatalf("%s Wealth = %d, want %d", p.ID, p.Wealth, p.Role.StartingWealth())
		}
	}
	for role, n := range want {
		if got[role] != n {
			t.Fatalf("%s assigned %d times, want %d", role, got[role], n)
		}
	}
}

func TestStartGamePrivateDeals(t *testing.T) {
	svc := newTestService()
	id := seatPlayers(t, svc, 4)

	events, err := svc.StartGame(id, 100)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	dealt := 0
	for _, ev := range events {
		switch ev.Kind {
		case EventHandDealt:
			dealt++
			payload := ev.Payload.(HandDealtPayload)
			if len(ev.Recipients) != 1 || ev.Recipients[0] != payload.PlayerID {
				t.Fatalf("hand for %s addressed to %v", payload.PlayerID, ev.Recipients)
			}
		case EventGameStarted:
			payload := ev.Payload.(GameStartedPayload)
			if payload.FirstPlayerID != "p0" {
				t.Fatalf("FirstPlayerID = %s, want p0", payload.FirstPlayerID)
			}
			if len(ev.Recipients) != 0 {
				t.Fatal("game_started must broadcast")
			}
		}
	}
	if dealt != 4 {
		t.Fatalf("hand_dealt events = %d, want 4", dealt)
	}
}

func TestHandleActionEmitsActionEvent(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)

	result, events, err := svc.HandleAction(id, ActionEndTurn, "p0", ActionPayload{})
	if err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if !result.Success {
		t.Fatalf("Result = %+v", result)
	}
	if len(events) != 1 || events[0].Kind != EventActionResolved {
		t.Fatalf("events = %+v, want one action_resolved", events)
	}
}

func TestHandleActionFailureEmitsNothing(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)

	result, events, err := svc.HandleAction(id, ActionEndTurn, "p1", ActionPayload{})
	if err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if result.Success {
		t.Fatal("off-turn end should fail")
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
}

func killRole(game *domain.Game, roles ...domain.Role) {
	for _, p := range game.Players {
		for _, role := range roles {
			if p.Role == role {
				p.TakeDamage(10)
			}
		}
	}
}

func TestWinConditionAllDeadIsDraw(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)
	game, _ := svc.Game(id)
	killRole(game, domain.RoleSheriff, domain.RoleDeputy, domain.RoleOutlaw, domain.RoleRenegade)

	win, err := svc.CheckWinCondition(id)
	if err != nil {
		t.Fatalf("CheckWinCondition: %v", err)
	}
	if win == nil || win.WinnerID != "" {
		t.Fatalf("win = %+v, want a draw", win)
	}
	if game.State != domain.StateFinished {
		t.Fatalf("State = %s, want %s", game.State, domain.StateFinished)
	}
}

func TestWinConditionSheriffDeadOutlawsWin(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)
	game, _ := svc.Game(id)
	killRole(game, domain.RoleSheriff)

	win, err := svc.CheckWinCondition(id)
	if err != nil {
		t.Fatalf("CheckWinCondition: %v", err)
	}
	if win == nil {
		t.Fatal("expected outlaw win")
	}
	if winner := game.Player(win.WinnerID); winner == nil || winner.Role != domain.RoleOutlaw {
		t.Fatalf("winner = %+v, want an outlaw", winner)
	}
}

func TestWinConditionRenegadeHeadsUp(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)
	game, _ := svc.Game(id)
	killRole(game, domain.RoleDeputy, domain.RoleOutlaw)

	// Sheriff and renegade remain: the renegade's heads-up win.
	win, err := svc.CheckWinCondition(id)
	if err != nil {
		t.Fatalf("CheckWinCondition: %v", err)
	}
	if win == nil {
		t.Fatal("expected renegade win")
	}
	if winner := game.Player(win.WinnerID); winner == nil || winner.Role != domain.RoleRenegade {
		t.Fatalf("winner = %+v, want the renegade", winner)
	}
}

func TestWinConditionSheriffFactionWins(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 5)
	game, _ := svc.Game(id)
	killRole(game, domain.RoleOutlaw, domain.RoleRenegade)

	// Sheriff and deputy remain alive.
	win, err := svc.CheckWinCondition(id)
	if err != nil {
		t.Fatalf("CheckWinCondition: %v", err)
	}
	if win == nil {
		t.Fatal("expected sheriff faction win")
	}
	if winner := game.Player(win.WinnerID); winner == nil || winner.Role != domain.RoleSheriff {
		t.Fatalf("winner = %+v, want the sheriff", winner)
	}
}

func TestWinConditionNilWhileContested(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)

	win, err := svc.CheckWinCondition(id)
	if err != nil {
		t.Fatalf("CheckWinCondition: %v", err)
	}
	if win != nil {
		t.Fatalf("win = %+v, want nil while contested", win)
	}
}

func TestSettlementChangesSumToZero(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 7)
	game, _ := svc.Game(id)

	var sheriff *domain.Player
	for _, p := range game.Players {
		if p.Role == domain.RoleSheriff {
			sheriff = p
		}
	}

	win := &WinResult{WinnerID: sheriff.ID, WinnerRoleLabel: sheriff.Role.Label()}
	changes := settlementChanges(game, win, 100)

	if len(changes) != len(game.Players) {
		t.Fatalf("len(changes) = %d, want %d", len(changes), len(game.Players))
	}
	var sum int64
	for _, delta := range changes {
		sum += delta
	}
	if sum != 0 {
		t.Fatalf("settlement sum = %d, want 0", sum)
	}

	// Deputies share the sheriff's pot; everyone else pays the stake.
	for _, p := range game.Players {
		switch p.Role {
		case domain.RoleSheriff, domain.RoleDeputy:
			if changes[p.ID] <= 0 {
				t.Fatalf("%s delta = %d, want positive", p.Role, changes[p.ID])
			}
		default:
			if changes[p.ID] != -100 {
				t.Fatalf("%s delta = %d, want -100", p.Role, changes[p.ID])
			}
		}
	}
}

func TestSettlementDrawSettlesNothing(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)
	game, _ := svc.Game(id)

	if changes := settlementChanges(game, &WinResult{}, 100); changes != nil {
		t.Fatalf("changes = %v, want nil for a draw", changes)
	}
}

func TestGameEndedEventCarriesSettlement(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)
	game, _ := svc.Game(id)

	// Leave only the sheriff's side alive, then finish a turn to trigger
	// the win check.
	killRole(game, domain.RoleOutlaw, domain.RoleRenegade)

	result, events, err := svc.HandleAction(id, ActionEndTurn, "p0", ActionPayload{})
	if err != nil || !result.Success {
		t.Fatalf("HandleAction: err=%v result=%+v", err, result)
	}

	var ended *GameEndedPayload
	for _, ev := range events {
		if ev.Kind == EventGameEnded {
			payload := ev.Payload.(GameEndedPayload)
			ended = &payload
		}
	}
	if ended == nil {
		t.Fatal("expected game_ended event")
	}
	if ended.WinnerID != "p0" {
		t.Fatalf("WinnerID = %s, want p0", ended.WinnerID)
	}
	if len(ended.BalanceChanges) == 0 {
		t.Fatal("expected settlement changes")
	}
}

func TestSnapshotAppliesViewerProjection(t *testing.T) {
	svc := newTestService()
	id := startedGame(t, svc, 4)

	snap, err := svc.Snapshot(id, "p1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, pv := range snap.Players {
		if pv.ID == "p1" {
			if pv.Role == "" || pv.Hand == nil {
				t.Fatal("viewer should see own role and hand")
			}
		} else if pv.Role != "" || pv.Hand != nil {
			t.Fatalf("hidden state leaked for %s", pv.ID)
		}
	}
}

func TestRemoveGameAndListGames(t *testing.T) {
	svc := newTestService()
	id := seatPlayers(t, svc, 4)

	games := svc.ListGames()
	if len(games) != 1 || games[0].ID != id || games[0].PlayerCount != 4 {
		t.Fatalf("ListGames = %+v", games)
	}

	if !svc.RemoveGame(id) {
		t.Fatal("RemoveGame failed")
	}
	if svc.RemoveGame(id) {
		t.Fatal("RemoveGame should fail for a missing game")
	}
	if len(svc.ListGames()) != 0 {
		t.Fatal("registry should be empty")
	}
}

func TestRemovePlayerBeforeStart(t *testing.T) {
	svc := newTestService()
	id := seatPlayers(t, svc, 4)

	ev, err := svc.RemovePlayer(id, "p2")
	if err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if ev.Kind != EventPlayerLeft {
		t.Fatalf("Kind = %s, want %s", ev.Kind, EventPlayerLeft)
	}

	if _, err := svc.RemovePlayer(id, "ghost"); err != ErrPlayerNotSeated {
		t.Fatalf("err = %v, want %v", err, ErrPlayerNotSeated)
	}

	if _, err := svc.AddPlayer(id, "p4", "복귀"); err != nil {
		t.Fatalf("AddPlayer after removal: %v", err)
	}
	if _, err := svc.StartGame(id, 100); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if _, err := svc.RemovePlayer(id, "p0"); err != ErrGameNotWaiting {
		t.Fatalf("err = %v, want %v", err, ErrGameNotWaiting)
	}
}
