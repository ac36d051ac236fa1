package domain

import "fmt"

// cardDetail is the static per-type card data.
type cardDetail struct {
	Name        string
	Description string
	Range       int
}

// deckEntry pairs a card type with how many copies the deck contains.
// Order matters: BuildDeck assigns ids and suit/rank cycles over a
// running counter, so the table must enumerate deterministically.
type deckEntry struct {
	Type  CardType
	Count int
}

// deckComposition is the fixed deck table, 63 cards total.
var deckComposition = []deckEntry{
	{CardBang, 25},
	{CardMissed, 12},
	{CardGatling, 1},
	{CardIndians, 2},
	{CardDuel, 3},
	{CardBeer, 6},
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

var cardDetails = map[CardType]cardDetail{
	CardBang:         {Name: "정산", Description: "기본 공격 카드. 대상에게 재력 1 피해를 입힙니다.", Range: 1},
	CardMissed:       {Name: "회피", Description: "공격을 회피합니다.", Range: 1},
	CardGatling:      {Name: "전원 견제", Description: "모든 플레이어에게 공격합니다. 회피 카드로 방어 가능.", Range: 0},
	CardIndians:      {Name: "패거리 습격", Description: "모든 플레이어에게 공격합니다. 정산 카드로 방어 가능.", Range: 0},
	CardDuel:         {Name: "승부", Description: "1대1 카드 결투를 시작합니다.", Range: 1},
	CardBeer:         {Name: "비상금", Description: "재력을 1 회복합니다.", Range: 0},
	CardVolcanic:     {Name: "연속 상환 요구", Description: "영향력 1. 정산 카드를 무제한으로 사용할 수 있습니다.", Range: 1},
	CardWinchester:   {Name: "독점 상권 선언", Description: "영향력 5. 최대 사거리 무기입니다.", Range: 5},
	CardScope:        {Name: "첩보원", Description: "영향력이 1 증가합니다.", Range: 0},
	CardBarrel:       {Name: "신의 한 수", Description: "공격 시 카드를 뽑아 방어할 수 있습니다.", Range: 0},
	CardMustang:      {Name: "세력권 경계", Description: "상대의 공격에 영향력 +1을 요구합니다.", Range: 0},
	CardJail:         {Name: "영업 금지", Description: "대상의 다음 턴을 제한합니다.", Range: 1},
	CardPanic:        {Name: "강제 압류", Description: "사거리 1 내의 플레이어 카드 1장을 강탈합니다.", Range: 1},
	CardSaloon:       {Name: "공개 연회", Description: "모든 플레이어의 재력을 1 회복합니다.", Range: 0},
	CardGeneralStore: {Name: "자선 경매", Description: "모든 플레이어가 카드를 1장씩 순서대로 획득합니다.", Range: 0},
}

// DeckSize is the number of cards in a freshly built deck.
func DeckSize() int {
	total := 0
	for _, e := range deckComposition {
		total += e.Count
	}
	return total
}

// CardName returns the localized display name for a card type.
func CardName(t CardType) string {
	return cardDetails[t].Name
}

// BuildDeck instantiates one Card per configured unit with deterministic
// ids. Settle/evade/fund cards get a suit and rank by cycling rank
// fastest inside suit over the running counter, which spreads the 4x4
// combinations uniformly without per-suit bookkeeping.
func BuildDeck() []*Card {
	suits := []Suit{SuitSpades, SuitClubs, SuitHearts, SuitDiamonds}
	ranks := []Rank{RankAce, RankKing, RankQueen, RankJack}

	deck := make([]*Card, 0, DeckSize())
	counter := 0
	for _, entry := range deckComposition {
		detail := cardDetails[entry.Type]
		for i := 0; i < entry.Count; i++ {
			card := &Card{
				ID:          fmt.Sprintf("%s_%03d", entry.Type, counter),
				Type:        entry.Type,
				Name:        detail.Name,
				Range:       detail.Range,
				Description: detail.Description,
			}
			if typeHasSuitAndRank(entry.Type) {
				card.Suit = suits[(counter/len(ranks))%len(suits)]
				card.Rank = ranks[counter%len(ranks)]
			}
			deck = append(deck, card)
			counter++
		}
	}
	return deck
}
