package state

import "time"

// DefaultStepDelay is the pause between agent moves.
const DefaultStepDelay = 200 * time.Millisecond

// Pacer decides when the next agent move is due.
type Pacer struct {
	Delay   time.Duration // Delay between moves at speed 1
	Speed   float64       // Multiplier; 2 moves twice as often
	Running bool          // Moves are being paced
	last    time.Time
}

// NewPacer creates a stopped pacer.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return &Pacer{Delay: delay, Speed: 1}
}

// Start begins pacing; the first move is due one interval after now.
func (p *Pacer) Start(now time.Time) {
	p.Running = true
	p.last = now
}

// TogglePause pauses or resumes pacing.
func (p *Pacer) TogglePause(now time.Time) {
	p.Running = !p.Running
	if p.Running {
		p.last = now
	}
}

// Interval returns the delay between moves at the current speed.
func (p *Pacer) Interval() time.Duration {
	return time.Duration(float64(p.Delay) / p.Speed)
}

// Due reports whether a move is due at now, and if so starts the next
// interval. At most one move is due per call.
func (p *Pacer) Due(now time.Time) bool {
	if !p.Running {
		return false
	}
	if now.Sub(p.last) < p.Interval() {
		return false
	}
	p.last = now
	return true
}

// SetSpeed sets the speed multiplier, clamped to [0.25, 8].
func (p *Pacer) SetSpeed(speed float64) {
	if speed < 0.25 {
		speed = 0.25
	}
	if speed > 8 {
		speed = 8
	}
	p.Speed = speed
}
