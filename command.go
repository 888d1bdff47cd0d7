package recfile

import (
	"time"
)

// TicksPerSecond is the rate at which the engine advances the simulation.
const TicksPerSecond = 8

// UseBattlegroupAbility is a command issued by a player to use a battlegroup
// ability. Commands are produced by tick parsing, which is not handled by this
// package.
type UseBattlegroupAbility struct {
	tick  uint32
	pbgid uint32
}

// NewUseBattlegroupAbility returns a command found at the given tick for the
// ability identified by pbgid.
func NewUseBattlegroupAbility(tick int32, pbgid uint32) UseBattlegroupAbility {
	return UseBattlegroupAbility{tick: uint32(tick), pbgid: pbgid}
}

// Tick returns the tick at which the command was executed.
func (c UseBattlegroupAbility) Tick() uint32 {
	return c.tick
}

// Time returns the time since the start of the replay at which the command
// was executed.
func (c UseBattlegroupAbility) Time() time.Duration {
	return time.Duration(c.tick) * time.Second / TicksPerSecond
}

// PBGID returns the id of the battlegroup ability. The id can be matched
// against the game's attribute files. It may change between patches for the
// same ability.
func (c UseBattlegroupAbility) PBGID() uint32 {
	return c.pbgid
}
