// Package trigger runs the hotspot countdowns: standing on a hotspot arms a per-hotspot
// timer that ticks once per interval and, if the player is still there when it reaches
// zero, navigates to the hotspot target. One navigation per session.
package trigger

import (
	"log/slog"
	"sort"
	"time"

	"explore-engine/internal/geom"
	"explore-engine/internal/notify"
	"explore-engine/internal/proximity"
	"explore-engine/internal/timer"
)

// Navigator performs the redirect. Its outcome is not inspected.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Config sets the hotspot radius, the countdown length in ticks and the tick interval.
type Config struct {
	Radius    float32       `yaml:"radius" env:"RADIUS"`
	Countdown int           `yaml:"countdown" env:"COUNTDOWN"`
	Interval  time.Duration `yaml:"interval" env:"INTERVAL"`
}

// DefaultConfig is a five second countdown within half a unit.
func DefaultConfig() Config {
	return Config{
		Radius:    proximity.DefaultRadius,
		Countdown: 5,
		Interval:  time.Second,
	}
}

// Timer is the externally visible state of a live countdown.
type Timer struct {
	HotspotID int
	Remaining int
	Armed     bool
}

type countdown struct {
	index     int
	remaining int
	task      timer.ID
}

// Scheduler tracks one countdown per occupied hotspot and navigates once per session.
type Scheduler struct {
	cfg    Config
	index  *proximity.Index
	timers *timer.Queue
	sink   notify.Sink
	msgs   *notify.Messages
	nav    Navigator
	log    *slog.Logger

	player     geom.Vec2
	live       map[int]*countdown
	suppressed map[int]bool
	navigated  bool
}

// New returns a scheduler over index. sink, nav and log may be nil.
func New(cfg Config, index *proximity.Index, timers *timer.Queue, sink notify.Sink, msgs *notify.Messages, nav Navigator, log *slog.Logger) *Scheduler {
	if sink == nil {
		sink = notify.Discard{}
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Countdown < 1 {
		cfg.Countdown = 1
	}
	return &Scheduler{
		cfg:        cfg,
		index:      index,
		timers:     timers,
		sink:       sink,
		msgs:       msgs,
		nav:        nav,
		log:        log.With("component", "trigger"),
		live:       make(map[int]*countdown),
		suppressed: make(map[int]bool),
	}
}

// Update records the player's ground-plane position, arms countdowns for hotspots the
// player stands on and cancels those the player has left.
func (s *Scheduler) Update(player geom.Vec2) {
	s.player = player
	if s.navigated {
		return
	}
	inside := make(map[int]bool)
	for _, c := range s.index.HotspotsWithin(player, s.cfg.Radius) {
		inside[c.Index] = true
	}
	// Dataset order, so hotspots armed on the same frame tick in a fixed order.
	for i := 0; i < s.index.HotspotCount(); i++ {
		id := s.index.Hotspot(i).ID
		if !inside[i] {
			delete(s.suppressed, id)
			if s.stop(id) {
				s.log.Debug("countdown left", "hotspot", id)
			}
			continue
		}
		if _, ok := s.live[id]; ok || s.suppressed[id] {
			continue
		}
		s.arm(id, i)
	}
}

func (s *Scheduler) arm(id, index int) {
	c := &countdown{index: index, remaining: s.cfg.Countdown}
	c.task = s.timers.Every(s.cfg.Interval, func() { s.tick(id) })
	s.live[id] = c
	s.sink.Countdown(id, s.msgs.Countdown(c.remaining), s.cancelAction(id))
	s.log.Info("countdown armed", "hotspot", id, "seconds", c.remaining)
}

func (s *Scheduler) cancelAction(id int) func() {
	return func() { s.Cancel(id) }
}

// tick runs on the timer queue. Distance is measured against the latest player position,
// not the one seen at arm time.
func (s *Scheduler) tick(id int) {
	c, ok := s.live[id]
	if !ok {
		return
	}
	if s.navigated || s.index.HotspotDistance(c.index, s.player) > s.cfg.Radius {
		s.stop(id)
		return
	}
	c.remaining--
	if c.remaining > 0 {
		s.sink.Countdown(id, s.msgs.Countdown(c.remaining), s.cancelAction(id))
		return
	}
	s.fire(id, c.index)
}

func (s *Scheduler) fire(id, index int) {
	for other := range s.live {
		s.stop(other)
	}
	s.navigated = true
	target := s.index.Hotspot(index).Target
	s.log.Info(s.msgs.Navigating(target), "hotspot", id)
	s.nav.Navigate(target)
}

// stop removes the task and the tracking entry together and dismisses the notification.
func (s *Scheduler) stop(id int) bool {
	c, ok := s.live[id]
	if !ok {
		return false
	}
	s.timers.Cancel(c.task)
	delete(s.live, id)
	s.sink.Dismiss(id)
	return true
}

// Cancel aborts the countdown for hotspot id at the user's request. The hotspot will not
// re-arm until the player has left its radius. It reports whether a countdown was live.
func (s *Scheduler) Cancel(id int) bool {
	if !s.stop(id) {
		return false
	}
	s.suppressed[id] = true
	if h, _, ok := s.index.HotspotByID(id); ok {
		s.log.Info("countdown canceled", "hotspot", id, "target", h.Target)
	}
	return true
}

// Timer returns the live countdown for hotspot id.
func (s *Scheduler) Timer(id int) (Timer, bool) {
	c, ok := s.live[id]
	if !ok {
		return Timer{}, false
	}
	return Timer{HotspotID: id, Remaining: c.remaining, Armed: true}, true
}

// Live returns every live countdown ordered by hotspot id.
func (s *Scheduler) Live() []Timer {
	out := make([]Timer, 0, len(s.live))
	for id, c := range s.live {
		out = append(out, Timer{HotspotID: id, Remaining: c.remaining, Armed: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HotspotID < out[j].HotspotID })
	return out
}

// Navigated reports whether the session latch is set.
func (s *Scheduler) Navigated() bool {
	return s.navigated
}
