package timer

import "time"

// ID identifies a scheduled task. The zero ID is never issued.
type ID uint64

type task struct {
	id     ID
	due    time.Time
	period time.Duration
	fn     func()
}

// Queue is a set of one-shot and periodic tasks keyed by ID. Tasks only run inside Poll,
// in due order (ties broken by scheduling order), so callers get deterministic arm, cancel
// and fire semantics without real timers.
type Queue struct {
	clock Clock
	seq   ID
	tasks map[ID]*task
}

// NewQueue returns an empty queue reading time from clock.
func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Queue{clock: clock, tasks: make(map[ID]*task)}
}

// Now returns the queue's current time.
func (q *Queue) Now() time.Time {
	return q.clock.Now()
}

// After schedules fn to run once, d from now.
func (q *Queue) After(d time.Duration, fn func()) ID {
	return q.schedule(d, 0, fn)
}

// Every schedules fn to run every period, first at now+period. A non-positive period
// degrades to a one-shot task due immediately.
func (q *Queue) Every(period time.Duration, fn func()) ID {
	if period <= 0 {
		return q.schedule(0, 0, fn)
	}
	return q.schedule(period, period, fn)
}

func (q *Queue) schedule(d, period time.Duration, fn func()) ID {
	q.seq++
	id := q.seq
	q.tasks[id] = &task{id: id, due: q.clock.Now().Add(d), period: period, fn: fn}
	return id
}

// Cancel removes the task. It reports whether the task was still pending.
func (q *Queue) Cancel(id ID) bool {
	if _, ok := q.tasks[id]; !ok {
		return false
	}
	delete(q.tasks, id)
	return true
}

// Active reports whether id is still scheduled.
func (q *Queue) Active(id ID) bool {
	_, ok := q.tasks[id]
	return ok
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Poll runs every task due at or before the current time and returns how many callbacks
// ran. A periodic task that is several periods late runs once per missed period.
// Callbacks may schedule or cancel tasks; a task canceled by an earlier callback in the
// same poll does not run.
func (q *Queue) Poll() int {
	now := q.clock.Now()
	ran := 0
	for {
		next := q.earliestDue(now)
		if next == nil {
			return ran
		}
		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			delete(q.tasks, next.id)
		}
		next.fn()
		ran++
	}
}

func (q *Queue) earliestDue(now time.Time) *task {
	var best *task
	for _, t := range q.tasks {
		if t.due.After(now) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.id < best.id) {
			best = t
		}
	}
	return best
}
