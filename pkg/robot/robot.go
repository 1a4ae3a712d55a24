// Package robot ties the servo mouth and the narration engine together
// into the joke-telling flow.
//
// A Robot is an explicitly constructed hardware context: it owns the one
// servo Actuator (and with it the one PWM channel), the mouth Animator and
// the speech Dispatcher, plus the capability flags probed at startup.
// Nothing in here is a process-wide global; the "never two PWM drivers on
// one pin" invariant lives in this type.
package robot

import (
	"sync"
	"time"

	"github.com/jesterlabs/go-jester/internal/log"
	"github.com/jesterlabs/go-jester/pkg/jokes"
	"github.com/jesterlabs/go-jester/pkg/mouth"
	"github.com/jesterlabs/go-jester/pkg/servo"
	"github.com/jesterlabs/go-jester/pkg/speech"
)

// Animator is the slice of the mouth animator the robot drives.
type Animator interface {
	Talk(duration time.Duration)
	Laugh()
	Greet()
}

// Speaker is the slice of the speech dispatcher the robot drives.
type Speaker interface {
	Speak(text string, isLaugh bool) error
	EstimateDuration(text string, isLaugh bool) time.Duration
	Available() bool
	Engine() speech.Engine
	Player() speech.Player
	Speaking() bool
}

// Status is the capability/state snapshot reported by the front ends.
type Status struct {
	ServoAvailable bool   `json:"servo_available"`
	ServoBackend   string `json:"servo_backend"`
	ServoError     string `json:"servo_error,omitempty"`
	LastAngle      *int   `json:"last_angle,omitempty"`
	Engine         string `json:"engine"`
	Player         string `json:"player"`
	Speaking       bool   `json:"speaking"`
}

// Robot is the assembled joke-telling machine.
type Robot struct {
	servo *servo.Actuator
	mouth Animator
	voice Speaker

	// OnChange, when set, is invoked after state transitions so a
	// dashboard can push updates. Must be safe to call from any
	// goroutine; may be nil.
	OnChange func(Status)
}

// New probes the hardware and narration backends and assembles a Robot.
// Hardware or engine absence degrades: the Robot always works, silently
// skipping what the host cannot do.
func New(cfg servo.Config, opts ...speech.Option) *Robot {
	act := servo.New(cfg)
	anim := mouth.New(act)
	voice := speech.New(opts...)

	r := &Robot{
		servo: act,
		mouth: anim,
		voice: voice,
	}

	// Startup nudge: confirms the servo responds, ends released.
	anim.Greet()
	return r
}

// NewWith assembles a Robot from pre-built parts (tests, custom wiring).
func NewWith(act *servo.Actuator, anim Animator, voice Speaker) *Robot {
	return &Robot{servo: act, mouth: anim, voice: voice}
}

// Servo exposes the actuator for the raw angle/release endpoints.
func (r *Robot) Servo() *servo.Actuator { return r.servo }

// Status returns the current capability/state snapshot.
func (r *Robot) Status() Status {
	s := Status{
		ServoAvailable: r.servo.Available(),
		ServoBackend:   r.servo.Backend(),
		Engine:         string(r.voice.Engine()),
		Player:         string(r.voice.Player()),
		Speaking:       r.voice.Speaking(),
	}
	if err := r.servo.Err(); err != nil {
		s.ServoError = err.Error()
	}
	if angle, ok := r.servo.LastAngle(); ok {
		s.LastAngle = &angle
	}
	return s
}

// Narrate speaks one line while animating the mouth, and blocks until
// both finish. The animation goroutine and the blocking subprocess run
// concurrently; joining both guarantees the actuator ends released
// before the caller proceeds.
//
// Narration failures are swallowed (speech is decorative); with no
// engine installed the whole call is a no-op.
func (r *Robot) Narrate(text string, isLaugh bool) {
	if !r.voice.Available() {
		return
	}

	r.notify()
	defer r.notify()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if isLaugh {
			r.mouth.Laugh()
		} else {
			r.mouth.Talk(r.voice.EstimateDuration(text, false))
		}
	}()

	if err := r.voice.Speak(text, isLaugh); err != nil {
		// Already logged by the dispatcher; the joke goes on.
		log.Debug("narration skipped", "error", err)
	}

	wg.Wait()
}

// Say narrates arbitrary text with the talk animation.
func (r *Robot) Say(text string) {
	r.Narrate(text, false)
}

// TellJoke runs the full joke flow: show the setup (narrated), wait for
// the caller's confirmation, show the punchline (narrated), then laugh.
// display receives each line to show; confirm blocks until the user asks
// for the punchline. Either may be nil.
func (r *Robot) TellJoke(j jokes.Joke, speak bool, display func(string), confirm func()) {
	if display != nil {
		display(j.Setup)
	}
	if speak {
		r.Narrate(j.Setup, false)
	}

	if confirm != nil {
		confirm()
	}

	if display != nil {
		display(j.Punchline)
	}
	if speak {
		r.Narrate(j.Punchline, false)
		time.Sleep(500 * time.Millisecond)
		r.Narrate("", true)
	}
}

// Talk runs the talk animation for the given duration without narration.
func (r *Robot) Talk(duration time.Duration) {
	r.notify()
	defer r.notify()
	r.mouth.Talk(duration)
}

// Laugh runs the laugh animation, optionally narrated.
func (r *Robot) Laugh(narrate bool) {
	if narrate && r.voice.Available() {
		r.Narrate("", true)
		return
	}
	r.notify()
	defer r.notify()
	r.mouth.Laugh()
}

// Shutdown releases the servo and closes the hardware channel.
func (r *Robot) Shutdown() {
	r.servo.Shutdown()
}

func (r *Robot) notify() {
	if r.OnChange != nil {
		r.OnChange(r.Status())
	}
}
