package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"explore-engine/internal/timer"
)

// Level tags a toast for styling.
type Level uint8

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
	LevelCountdown
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelCountdown:
		return "countdown"
	default:
		return "info"
	}
}

// Toast is one entry on the board.
type Toast struct {
	Key     string
	Level   Level
	Message string
	Cancel  func()
	Posted  time.Time
	Expires time.Time
}

// Board keeps the toasts the HUD draws. Plain toasts expire after ttl; countdown toasts
// live until dismissed (or ttl after their last update, whichever comes first).
type Board struct {
	mu     sync.Mutex
	clock  timer.Clock
	ttl    time.Duration
	seq    int
	toasts map[string]*Toast
}

// DefaultToastTTL mirrors the usual on-screen duration of a toast.
const DefaultToastTTL = 4 * time.Second

// NewBoard returns an empty board.
func NewBoard(clock timer.Clock, ttl time.Duration) *Board {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Board{clock: clock, ttl: ttl, toasts: make(map[string]*Toast)}
}

func countdownKey(id int) string {
	return fmt.Sprintf("hotspot-%d", id)
}

func (b *Board) post(key string, level Level, msg string, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	if key == "" {
		b.seq++
		key = fmt.Sprintf("toast-%d", b.seq)
	}
	posted := now
	if existing, ok := b.toasts[key]; ok {
		posted = existing.Posted
	}
	b.toasts[key] = &Toast{
		Key:     key,
		Level:   level,
		Message: msg,
		Cancel:  cancel,
		Posted:  posted,
		Expires: now.Add(b.ttl),
	}
}

// Info, Success and Error post a plain toast.
func (b *Board) Info(msg string)    { b.post("", LevelInfo, msg, nil) }
func (b *Board) Success(msg string) { b.post("", LevelSuccess, msg, nil) }
func (b *Board) Error(msg string)   { b.post("", LevelError, msg, nil) }

// Countdown creates or updates the toast for hotspot id.
func (b *Board) Countdown(id int, msg string, cancel func()) {
	b.post(countdownKey(id), LevelCountdown, msg, cancel)
}

// Dismiss removes the countdown toast for hotspot id.
func (b *Board) Dismiss(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.toasts, countdownKey(id))
}

// Toasts prunes expired entries and returns the rest, oldest first.
func (b *Board) Toasts() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	out := make([]Toast, 0, len(b.toasts))
	for key, t := range b.toasts {
		if !now.Before(t.Expires) {
			delete(b.toasts, key)
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Posted.Equal(out[j].Posted) {
			return out[i].Key < out[j].Key
		}
		return out[i].Posted.Before(out[j].Posted)
	})
	return out
}

// Activate runs the cancel action of the toast with key and removes it.
// It reports whether a cancelable toast was found.
func (b *Board) Activate(key string) bool {
	b.mu.Lock()
	t, ok := b.toasts[key]
	if ok {
		delete(b.toasts, key)
	}
	b.mu.Unlock()
	if !ok || t.Cancel == nil {
		return false
	}
	t.Cancel()
	return true
}
