package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcRejoinToken is the Nakama RPC id clients call to refresh a seat-reclaim token.
	RpcRejoinToken = "rejoin_token"

	// MatchNameLedger is the authoritative match handler name registered with Nakama.
	MatchNameLedger = "ledgerweight_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame     int64 = 1
	OpUseCard       int64 = 2
	OpRespondAttack int64 = 3
	OpEndTurn       int64 = 4

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpHandDealt     int64 = 104 // send privately
	OpActionResult  int64 = 105
	OpStateSnapshot int64 = 106 // per-viewer projection, send privately
	OpGameEnded     int64 = 107
	OpGameError     int64 = 108 // send privately
)
