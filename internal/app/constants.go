package app

// DrawPhaseCount is how many cards the active player draws at the start
// of a turn. Flat for every role and loadout; a future card effect may
// override it explicitly.
const DrawPhaseCount = 2

// Initial deal sizes. Tables with more than four seats deal the larger
// hand.
const (
	InitialHandSmall    = 4
	InitialHandLarge    = 5
	largeTableThreshold = 4
)
