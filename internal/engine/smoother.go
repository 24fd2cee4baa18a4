package engine

import "github.com/tphakala/go-audio-limiter/internal/mathutil"

// GainSmoother turns the instantaneous gain needed to keep a peak under the
// threshold into a smoothed gain using asymmetric one-pole filters.
//
// On the attack side the target is first pulled below the requirement by a
// bounded margin (the faded gain) so the filter reaches the requirement within
// the lookahead, and the result is never allowed below the requirement.
// Release follows the requirement back up with no clamp.
type GainSmoother[F Float] struct {
	attackCoeff  F
	releaseCoeff F

	faded F
	state F
}

// SetAttack sets the attack coefficient for an n-sample lookahead.
func (g *GainSmoother[F]) SetAttack(n int) {
	g.attackCoeff = F(mathutil.TimeConstant(float64(n)))
}

// SetRelease sets the release coefficient for an n-sample release time.
func (g *GainSmoother[F]) SetRelease(n float64) {
	g.releaseCoeff = F(mathutil.TimeConstant(n))
}

// Reset restores unity gain.
func (g *GainSmoother[F]) Reset() {
	g.faded = unityGain
	g.state = unityGain
}

// Next consumes the current window peak and returns the gain to apply.
func (g *GainSmoother[F]) Next(peak, threshold F) F {
	gain := F(unityGain)
	if peak > threshold {
		gain = threshold / peak
	}

	if gain < g.state {
		g.faded = min(g.faded, (gain-overshootFloor*g.state)*overshootScale)
	} else {
		g.faded = gain
	}

	if g.faded < g.state {
		g.state = g.attackCoeff*(g.state-g.faded) + g.faded
		if gain > g.state {
			g.state = gain
		}
	} else {
		g.state = g.releaseCoeff*(g.state-g.faded) + g.faded
	}

	return g.state
}

// Gain returns the most recent smoothed gain.
func (g *GainSmoother[F]) Gain() F { return g.state }

// AttackCoeff returns the attack filter coefficient.
func (g *GainSmoother[F]) AttackCoeff() F { return g.attackCoeff }

// ReleaseCoeff returns the release filter coefficient.
func (g *GainSmoother[F]) ReleaseCoeff() F { return g.releaseCoeff }
