package simulation

import (
	"fmt"

	"token-launch-sim/internal/agent"
	"token-launch-sim/internal/config"
	"token-launch-sim/internal/idhash"
)

// LaunchTick is t0, the tick at which the token launches. Insiders enter
// EntryDelta ticks after it, outsiders at PublicEntry.
const LaunchTick = 0

// NewPopulation builds the agents of a run: insiders I-0..I-n first, then
// outsiders O-0..O-m. Every agent gets a wallet address derived from the seed.
func NewPopulation(cfg config.Run) ([]*agent.Agent, error) {
	agents := make([]*agent.Agent, 0, cfg.Insiders.Count+cfg.Outsiders.Count)

	for i := 0; i < cfg.Insiders.Count; i++ {
		agents = append(agents, agent.NewInsider(fmt.Sprintf("I-%d", i), agent.InsiderParams{
			Capital:     cfg.Insiders.Capital,
			Rationality: cfg.Insiders.Rationality,
			EntryTime:   LaunchTick + cfg.Insiders.EntryDelta,
		}))
	}
	for i := 0; i < cfg.Outsiders.Count; i++ {
		agents = append(agents, agent.NewOutsider(fmt.Sprintf("O-%d", i), agent.OutsiderParams{
			Capital:     cfg.Outsiders.Capital,
			Rationality: cfg.Outsiders.Rationality,
			EntryTime:   LaunchTick + cfg.PublicEntry,
			FOMOFactor:  cfg.Outsiders.FOMOFactor,
		}))
	}

	for _, a := range agents {
		addr, err := idhash.AgentAddress(cfg.Seed, a.ID)
		if err != nil {
			return nil, fmt.Errorf("derive address for %s: %w", a.ID, err)
		}
		a.Address = addr
	}

	return agents, nil
}
