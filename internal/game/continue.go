package game

import (
	"math"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
)

// continueEarned reports whether a run of distance is good enough to be
// continued. previous holds the distances of earlier runs, newest first. The
// run is compared to the integer average of itself and the previous runs,
// limited to policy.RecentRuns entries.
func continueEarned(distance float64, previous []float64, policy config.ContinueConfig) bool {
	score := int(math.Floor(distance))
	scores := []int{score}
	for _, d := range previous {
		if len(scores) == policy.RecentRuns {
			break
		}
		scores = append(scores, int(math.Floor(d)))
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := sum / len(scores)
	if avg <= 0 {
		return score > 0
	}
	return float64(score)/float64(avg) > policy.MinRatio
}

// offerContinue decides, at death, whether this run may be continued.
func (g *Game) offerContinue() bool {
	policy := g.cfg.Continue.Resolved()
	if policy.MaxPerRun < 0 || g.revives >= policy.MaxPerRun {
		return false
	}

	var previous []float64
	if g.store != nil && policy.RecentRuns > 1 {
		recent, err := g.store.RecentDistances(policy.RecentRuns - 1)
		if err != nil {
			g.logger.Warn("cannot load recent runs", "err", err)
		}
		previous = recent
	}
	return continueEarned(g.final, previous, policy)
}

// closeOffer withdraws the continue offer.
func (g *Game) closeOffer() {
	if g.canContinue {
		g.logger.Debug("continue offer expired")
	}
	g.canContinue = false
}

// CanContinue reports whether Revive would be accepted now.
func (g *Game) CanContinue() bool {
	if g.err != nil || !g.canContinue {
		return false
	}
	return g.phase == core.PhaseDying || g.phase == core.PhaseGameOver
}

// ContinueRemaining returns the seconds left on the continue offer. While the
// runner is still dying the full window is reported.
func (g *Game) ContinueRemaining() float64 {
	switch {
	case !g.CanContinue():
		return 0
	case g.offerExpiry.Pending():
		return g.offerExpiry.Remaining()
	default:
		return g.cfg.Continue.Resolved().Window
	}
}
