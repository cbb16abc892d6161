package game

// Clock is the loop's simulated time. It only moves when the loop advances
// it and stands still while paused.
type Clock struct {
	now    float64
	paused bool
}

// Now returns the elapsed simulated seconds.
func (c *Clock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt seconds unless paused.
func (c *Clock) Advance(dt float64) {
	if c.paused || dt <= 0 {
		return
	}
	c.now += dt
}

// Pause stops the clock.
func (c *Clock) Pause() {
	c.paused = true
}

// Resume restarts the clock.
func (c *Clock) Resume() {
	c.paused = false
}

// IsPaused reports whether the clock is stopped.
func (c *Clock) IsPaused() bool {
	return c.paused
}

// Reset rewinds the clock to zero and unpauses it.
func (c *Clock) Reset() {
	c.now = 0
	c.paused = false
}

// Deferred is a single-fire task due at a point on a Clock. Scheduling again
// replaces the pending task.
type Deferred struct {
	clock   *Clock
	due     float64
	fn      func()
	pending bool
}

// NewDeferred creates an idle task measured against clock.
func NewDeferred(clock *Clock) *Deferred {
	return &Deferred{clock: clock}
}

// Schedule arms fn to run delay seconds from now, cancelling any pending run.
func (d *Deferred) Schedule(delay float64, fn func()) {
	d.due = d.clock.Now() + delay
	d.fn = fn
	d.pending = fn != nil
}

// Cancel disarms the task. It reports whether a run was pending.
func (d *Deferred) Cancel() bool {
	was := d.pending
	d.pending = false
	d.fn = nil
	return was
}

// Pending reports whether the task is armed.
func (d *Deferred) Pending() bool {
	return d.pending
}

// Remaining returns the seconds left before the task fires, or 0.
func (d *Deferred) Remaining() float64 {
	if !d.pending {
		return 0
	}
	if left := d.due - d.clock.Now(); left > 0 {
		return left
	}
	return 0
}

// Poll runs the task if it is due. It reports whether the task fired.
func (d *Deferred) Poll() bool {
	if !d.pending || d.clock.Now() < d.due {
		return false
	}
	fn := d.fn
	d.pending = false
	d.fn = nil
	fn()
	return true
}
