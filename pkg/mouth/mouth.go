// Package mouth animates the servo-driven mouth.
//
// The animations are fixed, time-boxed angle sequences with interleaved
// sleeps. There is no interpolation and no phoneme timing: the talk
// animation is a fixed-rate square wave sized from the text length, an
// acknowledged approximation of the narration's real duration.
package mouth

import (
	"time"
)

// Mouth calibration in degrees. The servo horn is mounted so that 0 is
// fully open and 90 is closed.
const (
	Open   = 0
	Half   = 45
	Closed = 90
)

// Talk animation cadence.
const (
	talkOpenHold   = 150 * time.Millisecond
	talkClosedHold = 100 * time.Millisecond
)

// greetHold is how long the startup nudge holds the mouth closed.
const greetHold = 300 * time.Millisecond

// Actuator is the slice of the servo actuator the animator needs.
type Actuator interface {
	SetAngle(angle int) error
	Release() error
	Available() bool
}

// Animator runs mouth animations on an Actuator. All angle writes go
// through the actuator's guard; the animator adds no locking of its own
// and is safe to run from any goroutine.
type Animator struct {
	servo Actuator

	// sleep is swapped out by tests to run animations instantly.
	sleep func(time.Duration)
}

// New creates an Animator for the given actuator.
func New(servo Actuator) *Animator {
	return &Animator{
		servo: servo,
		sleep: time.Sleep,
	}
}

// Talk alternates the mouth open and closed until duration elapses, then
// forces it closed and releases the signal. duration <= 0 performs zero
// open/close cycles but still ends in the closed, released state.
//
// No-op when the actuator is unavailable; the check happens at entry so a
// dead handle is never touched mid-sequence.
func (m *Animator) Talk(duration time.Duration) {
	if !m.servo.Available() {
		return
	}

	for elapsed := time.Duration(0); elapsed < duration; elapsed += talkOpenHold + talkClosedHold {
		m.servo.SetAngle(Open)
		m.sleep(talkOpenHold)
		m.servo.SetAngle(Closed)
		m.sleep(talkClosedHold)
	}

	m.servo.SetAngle(Closed)
	m.servo.Release()
}

// laughStep is one timed angle in the laugh sequence.
type laughStep struct {
	angle int
	hold  time.Duration
}

// laughSequence is the fixed "Ha ha ha ha!" pattern: seven open/half
// beats followed by closing the mouth. Always the same timing.
var laughSequence = []laughStep{
	{Open, 200 * time.Millisecond},
	{Half, 150 * time.Millisecond},
	{Open, 200 * time.Millisecond},
	{Half, 150 * time.Millisecond},
	{Open, 200 * time.Millisecond},
	{Half, 150 * time.Millisecond},
	{Open, 300 * time.Millisecond},
	{Closed, 200 * time.Millisecond},
}

// Laugh plays the fixed laugh sequence and releases the signal.
// No parameters, no actuator-state dependence beyond availability.
func (m *Animator) Laugh() {
	if !m.servo.Available() {
		return
	}

	for _, step := range laughSequence {
		m.servo.SetAngle(step.angle)
		m.sleep(step.hold)
	}
	m.servo.Release()
}

// Greet performs the startup nudge: close the mouth, hold briefly,
// release. Confirms the servo responds without leaving it driven.
func (m *Animator) Greet() {
	if !m.servo.Available() {
		return
	}
	m.servo.SetAngle(Closed)
	m.sleep(greetHold)
	m.servo.Release()
}
