// Package anglemath holds the angle helpers used for yaw smoothing.
// All angles are radians stored as float32, matching the rest of the engine.
package anglemath

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

const twoPi = 2 * math32.Pi

// wideTurns is the magnitude above which Normalize folds with Mod before the shift loop,
// so very large inputs do not spin the loop for thousands of iterations.
const wideTurns = 8 * math32.Pi

// Normalize reduces angle into (-π, π] by repeated full-turn shifts.
// Non-finite input returns 0 so a bad sample can never stall a frame.
func Normalize(angle float32) float32 {
	if math32.IsNaN(angle) || math32.IsInf(angle, 0) {
		return 0
	}
	if math32.Abs(angle) > wideTurns {
		angle = math32.Mod(angle, twoPi)
	}
	for angle > math32.Pi {
		angle -= twoPi
	}
	for angle <= -math32.Pi {
		angle += twoPi
	}
	return angle
}

// LerpShortest interpolates from start to end along the shorter arc.
// Both ends are normalized first; when the raw gap exceeds π the lower end is lifted by a
// full turn so the interpolation never crosses the long way round. The result is normalized.
func LerpShortest(start, end, t float32) float32 {
	start = Normalize(start)
	end = Normalize(end)
	if math32.Abs(end-start) > math32.Pi {
		if end > start {
			start += twoPi
		} else {
			end += twoPi
		}
	}
	return Normalize(start + (end-start)*t)
}

// Lerp is plain linear interpolation. Applied to angles it does not wrap.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}
