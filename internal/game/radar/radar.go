// Package radar implements the progression engine for scan attempts.
// It is pure: given the current statistics and a random source it decides
// the outcome of one attempt without any I/O.
package radar

import (
	"math/rand/v2"

	"radar-backend/internal/model"
)

const (
	// LevelThresholdStep scales the base fail threshold per level:
	// reaching level N requires roughly N*10 attempts at that level.
	LevelThresholdStep = 10

	// ThresholdJitter is the half-width of the random offset applied to
	// the base threshold, drawn fresh on every attempt.
	ThresholdJitter = 2
)

// Rand is the random source the engine draws from. Tests supply a fixed
// sequence to assert exact outcomes.
type Rand interface {
	// IntN returns a uniform random int in [0, n).
	IntN(n int) int
}

type sourceFunc func(n int) int

func (f sourceFunc) IntN(n int) int { return f(n) }

// DefaultSource returns a Rand backed by the shared math/rand/v2 generator.
func DefaultSource() Rand {
	return sourceFunc(rand.IntN)
}

// Outcome describes what one attempt did to the stat row.
type Outcome struct {
	Success     bool
	NextLevel   int // the level this attempt was working toward
	NeededFails int // the one-shot threshold drawn for this attempt
}

// Engine decides scan outcomes.
type Engine struct {
	rng Rand
}

// New creates an Engine. A nil source falls back to DefaultSource.
func New(rng Rand) *Engine {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Engine{rng: rng}
}

// Advance applies one scan attempt to stat, mutating it in place, and
// reports the outcome.
//
// Every attempt counts toward the threshold, including the eventually
// successful one. Once fails_in_level reaches the (freshly jittered)
// threshold, the attempt rolls a fair coin; on a miss the counter is
// NOT reset, so every later attempt re-rolls the coin until it hits.
// current_radar saturates at MaxRadarLevel; the threshold keeps being
// drawn around MaxRadarLevel*10 after that.
func (e *Engine) Advance(stat *model.GameUserStat) Outcome {
	nextLevel := stat.CurrentRadar + 1
	if nextLevel > model.MaxRadarLevel {
		nextLevel = model.MaxRadarLevel
	}

	baseThreshold := nextLevel * LevelThresholdStep
	neededFails := baseThreshold + e.jitter()

	stat.FailsInLevel++

	success := false
	if stat.FailsInLevel >= neededFails {
		success = e.rng.IntN(2) == 1
		if success {
			stat.CurrentRadar = nextLevel
			stat.SuccessfulScans++
			stat.FailsInLevel = 0
		}
	}

	if !success {
		stat.FailedScans++
	}

	return Outcome{
		Success:     success,
		NextLevel:   nextLevel,
		NeededFails: neededFails,
	}
}

// jitter draws a uniform offset in [-ThresholdJitter, ThresholdJitter].
func (e *Engine) jitter() int {
	return e.rng.IntN(2*ThresholdJitter+1) - ThresholdJitter
}
