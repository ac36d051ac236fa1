package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ledgerweight/internal/app/rejoin"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RejoinTokenRequest names the game the caller wants a fresh seat-reclaim
// token for. The game id is delivered to players in the game-started event.
type RejoinTokenRequest struct {
	GameID string `json:"game_id"`
}

// RejoinTokenResponse carries the signed token.
type RejoinTokenResponse struct {
	Token string `json:"token"`
}

// makeRejoinTokenRpc issues rejoin tokens for the authenticated caller.
// The token only names a seat; whether that seat actually belongs to the
// caller is enforced at match join.
func makeRejoinTokenRpc(svc *rejoin.Service) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		if svc == nil {
			return "", fmt.Errorf("rejoin tokens are not configured")
		}

		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			return "", fmt.Errorf("authentication required")
		}

		var req RejoinTokenRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", fmt.Errorf("invalid payload: %w", err)
		}

		token, err := svc.Generate(userID, req.GameID)
		if err != nil {
			logger.Error("rpcRejoinToken: %v", err)
			return "", err
		}

		resp := RejoinTokenResponse{Token: token}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}
}
