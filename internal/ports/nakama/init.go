package nakama

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"ledgerweight/internal/app"
	"ledgerweight/internal/app/rejoin"
	"ledgerweight/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
// All matches share one app.Service; each game still resolves actions
// under its own lock, so matches do not block one another.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: Could not load game config: %v", err)
	}

	games := app.NewService(nil)
	rejoinSvc := newRejoinService(ctx)
	if rejoinSvc == nil {
		logger.Warn("InitModule: No rejoin secret configured; seat reclaim tokens disabled.")
	}

	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcRejoinToken, makeRejoinTokenRpc(rejoinSvc)); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameLedger, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(games, rejoinSvc), nil
	}); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Ledgerweight Go module loaded.")
	return nil
}

// newRejoinService builds the rejoin token service from the runtime env,
// falling back to the game config file. Returns nil when no secret is set.
func newRejoinService(ctx context.Context) *rejoin.Service {
	secret := ""
	ttl := time.Duration(0)

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		secret = env["ledgerweight_rejoin_secret"]
		if val, ok := env["ledgerweight_rejoin_ttl_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				ttl = time.Duration(i) * time.Second
			}
		}
	}

	if cfg := config.GetGameConfig(); cfg != nil {
		if secret == "" {
			secret = cfg.RejoinSecret
		}
		if ttl == 0 && cfg.RejoinTTLSeconds > 0 {
			ttl = time.Duration(cfg.RejoinTTLSeconds) * time.Second
		}
	}

	if secret == "" {
		return nil
	}
	return rejoin.NewService(secret, matchLabelGame, ttl)
}
