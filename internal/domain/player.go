package domain

// DefaultRange is the base reach of every player before weapons and
// equipment.
const DefaultRange = 1

// Equipment slot names. A slot holds at most one card.
const (
	SlotWeapon  = "weapon"
	SlotScope   = "scope"
	SlotBarrel  = "barrel"
	SlotMustang = "mustang"
	SlotJail    = "jail"
)

// Player holds the state of one seated participant. Dead players stay in
// the roster so seat positions, and therefore distances, remain stable.
type Player struct {
	ID        string
	Name      string
	Role      Role
	Wealth    int // acts as hit points; 0 means dead
	MaxWealth int
	Range     int
	Hand      []*Card
	Equipment map[string]*Card
	Alive     bool
	Position  int // fixed seat, assigned at join, never reassigned
}

// NewPlayer creates a player at the given seat with a placeholder role.
// The real role, and the wealth it dictates, is assigned at game start.
func NewPlayer(id, name string, position int) *Player {
	wealth := RoleSheriff.StartingWealth()
	return &Player{
		ID:        id,
		Name:      name,
		Role:      RoleSheriff,
		Wealth:    wealth,
		MaxWealth: wealth,
		Range:     DefaultRange,
		Equipment: make(map[string]*Card),
		Alive:     true,
		Position:  position,
	}
}

// AssignRole sets the player's role and resets wealth to the role's
// starting value.
func (p *Player) AssignRole(role Role) {
	p.Role = role
	p.Wealth = role.StartingWealth()
	p.MaxWealth = p.Wealth
	p.Alive = true
}

// TakeDamage reduces wealth, floored at 0. Reaching 0 marks the player
// dead; the return value reports whether this damage killed them.
func (p *Player) TakeDamage(amount int) bool {
	p.Wealth -= amount
	if p.Wealth <= 0 {
		p.Wealth = 0
		p.Alive = false
		return true
	}
	return false
}

// Heal restores wealth, capped at the maximum.
func (p *Player) Heal(amount int) {
	p.Wealth += amount
	if p.Wealth > p.MaxWealth {
		p.Wealth = p.MaxWealth
	}
	if p.Wealth > 0 {
		p.Alive = true
	}
}

// AddCard puts a card into the player's hand.
func (p *Player) AddCard(card *Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveCard removes the card with the given id from the hand and
// returns it, or nil if the player does not hold it.
func (p *Player) RemoveCard(cardID string) *Card {
	for i, card := range p.Hand {
		if card.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return card
		}
	}
	return nil
}

// GetCard returns the card with the given id from the hand without
// removing it, or nil.
func (p *Player) GetCard(cardID string) *Card {
	for _, card := range p.Hand {
		if card.ID == cardID {
			return card
		}
	}
	return nil
}

// Equip places a card into a slot and returns the card it displaced,
// if any.
func (p *Player) Equip(slot string, card *Card) *Card {
	old := p.Equipment[slot]
	p.Equipment[slot] = card
	return old
}

// EffectiveRange is the player's reach after modifiers: an equipped
// weapon overrides the base range, and a scope adds 1.
func (p *Player) EffectiveRange() int {
	reach := p.Range
	if weapon, ok := p.Equipment[SlotWeapon]; ok && weapon != nil {
		reach = weapon.Range
	}
	if _, ok := p.Equipment[SlotScope]; ok {
		reach++
	}
	return reach
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int { return len(p.Hand) }
