package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type StakeTier struct {
	ID        string `json:"id"`
	BaseStake int64  `json:"base_stake"`
}

type GameConfig struct {
	DefaultTier         string      `json:"default_tier"`
	Tiers               []StakeTier `json:"tiers"`
	TurnDurationSeconds int         `json:"turn_duration_seconds"`
	// RejoinSecret signs rejoin tokens; an empty value disables seat reclaim.
	RejoinSecret string `json:"rejoin_secret"`
	// RejoinTTLSeconds bounds how long a dropped player can reclaim a seat.
	RejoinTTLSeconds int `json:"rejoin_ttl_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseStake returns the base stake for a given tier ID, or the default if not found.
func GetBaseStake(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseStake
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseStake
		}
	}

	return 100
}
