package game

// Regenerate credits energy for a number of elapsed regeneration
// ticks, clamped to the cap. It never decreases energy and ignores
// non-positive inputs, so a stalled or restarted ticker is harmless.
// Elapsed offline time is not retroactively credited; resuming simply
// continues from the current value.
func Regenerate(p *PlayerState, ticks, energyPerTick int) {
	if ticks <= 0 || energyPerTick <= 0 {
		return
	}
	gain := ticks * energyPerTick
	if gain < 0 || p.Energy+gain > p.MaxEnergy {
		p.Energy = p.MaxEnergy
		return
	}
	p.Energy += gain
}
