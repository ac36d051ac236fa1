package domain

// CardType identifies a card's rules behavior. Only the settle/evade/fund
// trio is resolved by the engine today; the remaining types live in the
// deck and dispatch through the resolver's card-effect switch.
type CardType string

const (
	// Attack cards.
	CardBang    CardType = "bang"    // 정산 — basic single-target attack
	CardGatling CardType = "gatling" // 전원 견제 — attacks every other player
	CardIndians CardType = "indians" // 패거리 습격 — mass attack answered with bang cards
	CardDuel    CardType = "duel"    // 승부 — one-on-one card duel

	// Defense.
	CardMissed CardType = "missed" // 회피 — negates one incoming attack

	// Recovery.
	CardBeer CardType = "beer" // 비상금 — restores 1 wealth

	// Weapons.
	CardVolcanic   CardType = "volcanic"   // 연속 상환 요구 — range 1
	CardWinchester CardType = "winchester" // 독점 상권 선언 — range 5

	// Equipment.
	CardScope   CardType = "scope"   // 첩보원 — +1 reach
	CardBarrel  CardType = "barrel"  // 신의 한 수
	CardMustang CardType = "mustang" // 세력권 경계
	CardJail    CardType = "jail"    // 영업 금지

	// Specials.
	CardPanic        CardType = "panic"         // 강제 압류
	CardSaloon       CardType = "saloon"        // 공개 연회
	CardGeneralStore CardType = "general_store" // 자선 경매
)

// Suit is the card suit. Empty on cards that carry no suit.
type Suit string

const (
	SuitSpades   Suit = "spades"
	SuitClubs    Suit = "clubs"
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
)

// Rank is the card rank. Empty on cards that carry no rank.
type Rank string

const (
	RankAce   Rank = "ace"
	RankKing  Rank = "king"
	RankQueen Rank = "queen"
	RankJack  Rank = "jack"
)

var suitLabels = map[Suit]string{
	SuitSpades:   "검",
	SuitClubs:    "책",
	SuitHearts:   "치유",
	SuitDiamonds: "돈",
}

var rankLabels = map[Rank]string{
	RankAce:   "상",
	RankKing:  "대",
	RankQueen: "중",
	RankJack:  "소",
}

// Label returns the localized display name for the suit.
func (s Suit) Label() string {
	if label, ok := suitLabels[s]; ok {
		return label
	}
	return string(s)
}

// Label returns the localized display name for the rank.
func (r Rank) Label() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return string(r)
}

// Card is a single card instance. Cards are created once at deck build
// time and only migrate between the draw pile, hands, equipment and the
// discard pile; they are never copied or recreated.
type Card struct {
	ID          string
	Type        CardType
	Name        string
	Suit        Suit // empty when the type carries no suit
	Rank        Rank // empty when the type carries no rank
	Range       int  // weapon reach; 0 for non-weapons without a reach
	Description string
}

// IsAttack reports whether the card is the basic single-target attack.
func (c *Card) IsAttack() bool { return c.Type == CardBang }

// IsDefense reports whether the card negates an incoming attack.
func (c *Card) IsDefense() bool { return c.Type == CardMissed }

// IsHeal reports whether the card restores wealth.
func (c *Card) IsHeal() bool { return c.Type == CardBeer }

// IsWeapon reports whether the card occupies the weapon slot.
func (c *Card) IsWeapon() bool {
	return c.Type == CardVolcanic || c.Type == CardWinchester
}

// IsEquipment reports whether the card occupies a non-weapon equipment slot.
func (c *Card) IsEquipment() bool {
	switch c.Type {
	case CardScope, CardBarrel, CardMustang, CardJail:
		return true
	default:
		return false
	}
}

// HasSuitAndRank reports whether this card type is dealt with a suit and
// rank during deck construction.
func (c *Card) HasSuitAndRank() bool {
	return typeHasSuitAndRank(c.Type)
}

// EquipmentSlot returns the equipment slot the card occupies, or "" if
// the card is not equippable. Weapons share the single weapon slot.
func (c *Card) EquipmentSlot() string {
	if c.IsWeapon() {
		return SlotWeapon
	}
	switch c.Type {
	case CardScope:
		return SlotScope
	case CardBarrel:
		return SlotBarrel
	case CardMustang:
		return SlotMustang
	case CardJail:
		return SlotJail
	default:
		return ""
	}
}

func typeHasSuitAndRank(t CardType) bool {
	return t == CardBang || t == CardMissed || t == CardBeer
}
