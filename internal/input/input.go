// Package input unifies keyboard and pointer/touch sources into a single ControlState.
// Handlers run synchronously on input callbacks; the frame update only reads State().
package input

import (
	"time"

	"explore-engine/internal/timer"
)

// DefaultJumpPulse is how long a synthetic jump press is held before release.
const DefaultJumpPulse = 100 * time.Millisecond

// ControlState is the boolean snapshot the motion controller consumes each frame.
type ControlState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Run      bool
	Jump     bool
}

// Region names a control surface: an on-screen button or the key bound to it.
type Region uint8

const (
	RegionForward Region = iota
	RegionBackward
	RegionTurnLeft
	RegionTurnRight
	RegionSprint
	RegionJump
	regionCount
)

// Regions lists every region in declaration order.
func Regions() []Region {
	out := make([]Region, 0, regionCount)
	for r := Region(0); r < regionCount; r++ {
		out = append(out, r)
	}
	return out
}

var regionNames = [regionCount]string{
	RegionForward:   "forward",
	RegionBackward:  "backward",
	RegionTurnLeft:  "turn-left",
	RegionTurnRight: "turn-right",
	RegionSprint:    "sprint",
	RegionJump:      "jump",
}

// regionFields maps each region to the ControlState field it drives.
var regionFields = [regionCount]func(*ControlState) *bool{
	RegionForward:   func(s *ControlState) *bool { return &s.Forward },
	RegionBackward:  func(s *ControlState) *bool { return &s.Backward },
	RegionTurnLeft:  func(s *ControlState) *bool { return &s.Left },
	RegionTurnRight: func(s *ControlState) *bool { return &s.Right },
	RegionSprint:    func(s *ControlState) *bool { return &s.Run },
	RegionJump:      func(s *ControlState) *bool { return &s.Jump },
}

// regionIDs accepts both the symbolic names and the legacy element ids of the touch pad.
var regionIDs = map[string]Region{
	"forward":    RegionForward,
	"backward":   RegionBackward,
	"turn-left":  RegionTurnLeft,
	"turn-right": RegionTurnRight,
	"sprint":     RegionSprint,
	"jump":       RegionJump,
	"w":          RegionForward,
	"s":          RegionBackward,
	"a":          RegionTurnLeft,
	"d":          RegionTurnRight,
	"shift":      RegionSprint,
}

func (r Region) String() string {
	if r >= regionCount {
		return "unknown"
	}
	return regionNames[r]
}

// Valid reports whether r is a declared region.
func (r Region) Valid() bool {
	return r < regionCount
}

// ParseRegion resolves an element identifier to its region.
func ParseRegion(id string) (Region, bool) {
	r, ok := regionIDs[id]
	return r, ok
}

// Handlers is the press/release pair returned for a pointer region.
type Handlers struct {
	Down func()
	Up   func()
}

// Sampler owns the mutable ControlState.
type Sampler struct {
	state   ControlState
	timers  *timer.Queue
	pulse   time.Duration
	release timer.ID
	// unseen is set by PulseJump and cleared by Sample. A pulse that expires while
	// unseen stays pressed until the next Sample (releaseOnSample).
	unseen          bool
	releaseOnSample bool
}

// NewSampler returns a sampler whose jump pulses are scheduled on timers.
func NewSampler(timers *timer.Queue, pulse time.Duration) *Sampler {
	if pulse <= 0 {
		pulse = DefaultJumpPulse
	}
	return &Sampler{timers: timers, pulse: pulse}
}

// Set writes the field bound to r. Unknown regions are ignored.
func (s *Sampler) Set(r Region, down bool) {
	if !r.Valid() {
		return
	}
	*regionFields[r](&s.state) = down
}

// Press marks r as held (key down).
func (s *Sampler) Press(r Region) {
	s.Set(r, true)
}

// Release marks r as not held (key up).
func (s *Sampler) Release(r Region) {
	s.Set(r, false)
}

// PulseJump presses jump now and releases it after the pulse duration, exactly like a
// physical tap. A pulse started while one is pending extends it. The release never lands
// before one Sample has returned the press, so a slow frame cannot drop the tap.
func (s *Sampler) PulseJump() {
	s.Press(RegionJump)
	s.unseen = true
	s.releaseOnSample = false
	if s.timers == nil {
		return
	}
	if s.release != 0 {
		s.timers.Cancel(s.release)
	}
	s.release = s.timers.After(s.pulse, func() {
		s.release = 0
		if s.unseen {
			s.releaseOnSample = true
			return
		}
		s.Release(RegionJump)
	})
}

// BindPointerRegion returns the handlers for an on-screen control. Jump acts on release
// by firing a pulse; all other regions follow the pointer directly.
func (s *Sampler) BindPointerRegion(r Region) Handlers {
	if r == RegionJump {
		return Handlers{
			Down: func() {},
			Up:   s.PulseJump,
		}
	}
	return Handlers{
		Down: func() { s.Press(r) },
		Up:   func() { s.Release(r) },
	}
}

// State returns a copy of the current control state without consuming a jump pulse.
func (s *Sampler) State() ControlState {
	return s.state
}

// Sample returns the state the frame update acts on. It marks a pending jump pulse as
// seen and completes a release that expired before any frame sampled it.
func (s *Sampler) Sample() ControlState {
	st := s.state
	s.unseen = false
	if s.releaseOnSample {
		s.releaseOnSample = false
		s.Release(RegionJump)
	}
	return st
}

// Reset clears every control and drops a pending jump release.
func (s *Sampler) Reset() {
	if s.release != 0 && s.timers != nil {
		s.timers.Cancel(s.release)
	}
	s.release = 0
	s.unseen, s.releaseOnSample = false, false
	s.state = ControlState{}
}
