package app

import (
	"fmt"

	"ledgerweight/internal/domain"
)

// ActionKind identifies a player-submitted action.
type ActionKind string

const (
	ActionUseCard       ActionKind = "USE_CARD"
	ActionRespondAttack ActionKind = "RESPOND_ATTACK"
	ActionEndTurn       ActionKind = "END_TURN"
)

// Respond payload values.
const (
	ResponseEvade  = "evade"
	ResponseAccept = "accept"
)

// ActionPayload carries the per-kind action parameters. Unused fields
// stay empty.
type ActionPayload struct {
	CardID   string `json:"card_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	Response string `json:"response,omitempty"`
}

// Result is the uniform outcome of resolving one action. Rule violations
// are reported here, never as errors; Event is empty when nothing
// changed.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Resolver validates and applies one action at a time against a single
// game. Like the turn engine it is built once per game; the owning
// session serializes calls.
type Resolver struct {
	game  *domain.Game
	turns *TurnEngine
}

// NewResolver binds a resolver to a game and its turn engine.
func NewResolver(game *domain.Game, turns *TurnEngine) *Resolver {
	return &Resolver{game: game, turns: turns}
}

// Resolve dispatches one action. Validation always completes before any
// state mutation begins, so a failed Result leaves the game untouched.
func (r *Resolver) Resolve(kind ActionKind, playerID string, payload ActionPayload) Result {
	if r.game.State != domain.StateInProgress {
		return failure("게임이 진행 중이 아닙니다.")
	}
	player := r.game.Player(playerID)
	if player == nil || !player.Alive {
		return failure("플레이어를 찾을 수 없거나 사망했습니다.")
	}

	switch kind {
	case ActionUseCard:
		return r.useCard(player, payload)
	case ActionRespondAttack:
		return r.respondAttack(player, payload)
	case ActionEndTurn:
		return r.endTurn(player)
	default:
		return failure(fmt.Sprintf("지원하지 않는 액션 타입: %s", kind))
	}
}

func (r *Resolver) useCard(player *domain.Player, payload ActionPayload) Result {
	if !r.turns.CanPlayCard(player.ID) {
		return failure("카드를 사용할 수 없는 상태입니다.")
	}
	if payload.CardID == "" {
		return failure("카드 ID가 필요합니다.")
	}
	card := player.GetCard(payload.CardID)
	if card == nil {
		return failure("카드를 찾을 수 없습니다.")
	}

	switch {
	case card.IsAttack():
		return r.playAttack(player, card, payload.TargetID)
	case card.IsDefense():
		return failure("회피 카드는 공격 대응 시에만 사용할 수 있습니다.")
	case card.IsHeal():
		return r.playHeal(player, card)
	default:
		// Extension point for the remaining card taxonomy.
		return failure(fmt.Sprintf("아직 구현되지 않은 카드 타입: %s", card.Name))
	}
}

func (r *Resolver) playAttack(attacker *domain.Player, card *domain.Card, targetID string) Result {
	if targetID == "" {
		return failure("공격 대상이 필요합니다.")
	}
	if targetID == attacker.ID {
		return failure("자신을 공격할 수 없습니다.")
	}
	target := r.game.Player(targetID)
	if target == nil {
		return failure("플레이어를 찾을 수 없습니다.")
	}
	if !target.Alive {
		return failure("대상 플레이어가 이미 사망했습니다.")
	}

	distance := r.game.Distance(attacker, target)
	reach := attacker.EffectiveRange()
	if reach < distance {
		return failure(fmt.Sprintf("거리가 너무 멉니다. (필요: %d, 현재: %d)", distance, reach))
	}

	removed := attacker.RemoveCard(card.ID)
	if removed == nil {
		return failure("카드를 제거할 수 없습니다.")
	}
	r.game.Deck.Discard(removed)

	event := fmt.Sprintf("%s이(가) %s에게 %s을 시도했습니다.", attacker.Name, target.Name, card.Name)
	r.game.SetEvent(event)
	r.turns.BeginRespond(target.ID)

	return Result{
		Success: true,
		Message: "정산 카드를 사용했습니다. 대상 플레이어가 대응할 수 있습니다.",
		Event:   event,
	}
}

func (r *Resolver) playHeal(player *domain.Player, card *domain.Card) Result {
	if player.Wealth >= player.MaxWealth {
		return failure("재력이 이미 최대치입니다.")
	}

	removed := player.RemoveCard(card.ID)
	if removed == nil {
		return failure("카드를 제거할 수 없습니다.")
	}
	r.game.Deck.Discard(removed)

	before := player.Wealth
	player.Heal(1)

	event := fmt.Sprintf("%s이(가) %s을 사용하여 재력을 %d에서 %d로 회복했습니다.", player.Name, card.Name, before, player.Wealth)
	r.game.SetEvent(event)

	return Result{
		Success: true,
		Message: "비상금을 사용하여 재력을 1 회복했습니다.",
		Event:   event,
	}
}

func (r *Resolver) respondAttack(player *domain.Player, payload ActionPayload) Result {
	if r.game.Phase != domain.PhaseRespond {
		return failure("대응할 수 없는 상태입니다.")
	}
	if r.turns.Responder() != player.ID {
		return failure("대응 차례가 아닙니다.")
	}

	switch payload.Response {
	case ResponseEvade:
		return r.respondEvade(player, payload.CardID)
	case ResponseAccept:
		return r.respondAccept(player)
	default:
		return failure(fmt.Sprintf("잘못된 응답 타입: %s", payload.Response))
	}
}

func (r *Resolver) respondEvade(player *domain.Player, cardID string) Result {
	if cardID == "" {
		return failure("카드 ID가 필요합니다.")
	}
	card := player.GetCard(cardID)
	if card == nil {
		return failure("카드를 찾을 수 없습니다.")
	}
	if !card.IsDefense() {
		return failure("회피 카드만 사용할 수 있습니다.")
	}

	removed := player.RemoveCard(card.ID)
	if removed == nil {
		return failure("카드를 제거할 수 없습니다.")
	}
	r.game.Deck.Discard(removed)

	event := fmt.Sprintf("%s이(가) 회피 카드를 사용하여 공격을 막았습니다.", player.Name)
	r.game.SetEvent(event)
	r.turns.ReturnToPlay()

	return Result{Success: true, Message: "공격을 회피했습니다.", Event: event}
}

func (r *Resolver) respondAccept(player *domain.Player) Result {
	died := player.TakeDamage(1)

	var event string
	if died {
		event = fmt.Sprintf("%s이(가) 공격을 받아 재력이 0이 되어 사망했습니다.", player.Name)
	} else {
		event = fmt.Sprintf("%s이(가) 공격을 받아 재력이 %d로 감소했습니다.", player.Name, player.Wealth)
	}
	r.game.SetEvent(event)
	r.turns.ReturnToPlay()

	return Result{Success: true, Message: "공격을 받았습니다.", Event: event}
}

func (r *Resolver) endTurn(player *domain.Player) Result {
	if !r.turns.CanEndTurn(player.ID) {
		return failure("턴을 종료할 수 없는 상태입니다.")
	}

	// The hand-size limit (down to current wealth) is reported, not
	// silently enforced: the explicit discard step is still pending.
	over := player.HandCount() - player.Wealth

	if !r.turns.EndTurn(player.ID) {
		// With fewer than two living players there is no next turn; the
		// lifecycle manager ends the game via win-condition evaluation.
		if len(r.game.AlivePlayers()) <= 1 {
			return Result{Success: true, Message: "턴이 종료되었습니다.", Event: r.game.LastEvent}
		}
		return failure("턴 종료에 실패했습니다.")
	}

	event := fmt.Sprintf("%s의 턴이 종료되었습니다.", player.Name)
	if over > 0 {
		event = fmt.Sprintf("%s (핸드 %d장 초과)", event, over)
	}
	return Result{Success: true, Message: "턴이 종료되었습니다.", Event: event}
}
